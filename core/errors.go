package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorSignatureInvalid  = "SIGNATURE_INVALID"
	ErrorUnsupportedEvent  = "UNSUPPORTED_EVENT"
	ErrorMalformedPayload  = "MALFORMED_PAYLOAD"
	ErrorParse             = "PARSE_ERROR"
	ErrorDirectoryAPI      = "DIRECTORY_API_ERROR"
	ErrorTransportFailure  = "TRANSPORT_FAILURE"
	ErrorBadInput          = "BAD_INPUT"
	ErrorConflict          = "CONFLICT"
	ErrorInternal          = "INTERNAL_ERROR"
	ErrorOperationCanceled = "OPERATION_CANCELED"
)

const (
	ResponseInvalidSignature = "Invalid signature"
	ResponseUnsupportedEvent = "Unsupported event"
	ResponseInternalError    = "Internal server error"
	ResponseOK               = "ok"
)

// IsTextCode reports whether any go-errors envelope in the chain carries code.
func IsTextCode(err error, code string) bool {
	for err != nil {
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) || rich == nil {
			return false
		}
		if strings.EqualFold(strings.TrimSpace(rich.TextCode), code) {
			return true
		}
		next := errors.Unwrap(rich)
		if next == nil {
			return false
		}
		err = next
	}
	return false
}

func TextCode(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich != nil {
		return strings.TrimSpace(rich.TextCode)
	}
	return ""
}

func NewError(message string, category goerrors.Category, textCode string, metadata map[string]any) *goerrors.Error {
	err := goerrors.New(message, category).
		WithCode(HTTPStatus(category)).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func WrapError(source error, category goerrors.Category, message string, textCode string, metadata map[string]any) *goerrors.Error {
	if source == nil {
		return NewError(message, category, textCode, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(HTTPStatus(category)).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func HTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
