package notion

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-formsync/core"
)

const maxErrorBodyBytes = 1024

// directoryAPIError is the permanent failure for a non-2xx answer.
func directoryAPIError(operation string, statusCode int, body []byte) error {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return core.NewError(
		fmt.Sprintf("notion: %s failed with status %d", operation, statusCode),
		goerrors.CategoryExternal,
		core.ErrorDirectoryAPI,
		map[string]any{
			"operation":   operation,
			"status_code": statusCode,
			"body":        string(body),
		},
	)
}

func decodeError(source error, operation string) error {
	return core.WrapError(
		source,
		goerrors.CategoryExternal,
		fmt.Sprintf("notion: decode %s response", operation),
		core.ErrorDirectoryAPI,
		map[string]any{"operation": operation},
	)
}

func clientConfigError(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.ErrorBadInput)
}
