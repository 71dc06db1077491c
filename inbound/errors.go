package inbound

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-formsync/core"
)

func inboundBadInput(message string, metadata map[string]any) error {
	return core.NewError(message, goerrors.CategoryBadInput, core.ErrorBadInput, metadata)
}

func inboundInternal(message string, metadata map[string]any) error {
	return core.NewError(message, goerrors.CategoryInternal, core.ErrorInternal, metadata)
}

func duplicateHandler(event string) error {
	return core.NewError(
		fmt.Sprintf("inbound: handler already registered for event %q", event),
		goerrors.CategoryConflict,
		core.ErrorConflict,
		map[string]any{"event": event},
	)
}

// signatureRejected is an auth failure that still answers 400, which is what
// the platform expects for a bad sign.
func signatureRejected(source error, metadata map[string]any) error {
	return core.WrapError(
		source,
		goerrors.CategoryAuth,
		"inbound: signature verification failed",
		core.ErrorSignatureInvalid,
		metadata,
	).WithCode(http.StatusBadRequest)
}

func unsupportedEvent(event string, metadata map[string]any) error {
	return core.NewError(
		fmt.Sprintf("inbound: unsupported event %q", event),
		goerrors.CategoryBadInput,
		core.ErrorUnsupportedEvent,
		metadata,
	)
}

// handlerFailed keeps the handler's text code so callers can still tell a
// parse failure from a directory failure.
func handlerFailed(source error, metadata map[string]any) error {
	textCode := core.TextCode(source)
	if textCode == "" {
		textCode = core.ErrorInternal
	}
	return core.WrapError(source, goerrors.CategoryInternal, "inbound: handler execution failed", textCode, metadata)
}

func malformedPayload(reqUUID string) error {
	return core.NewError(
		"inbound: form submission payload is not valid json",
		goerrors.CategoryBadInput,
		core.ErrorMalformedPayload,
		map[string]any{"req_uuid": reqUUID},
	)
}

func rejected(statusCode int, body string) core.InboundResult {
	return core.InboundResult{StatusCode: statusCode, Body: body}
}

func internalFailure() core.InboundResult {
	return rejected(http.StatusInternalServerError, core.ResponseInternalError)
}
