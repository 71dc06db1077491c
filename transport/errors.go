package transport

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-formsync/core"
)

func transportError(
	message string,
	category goerrors.Category,
	textCode string,
	metadata map[string]any,
) error {
	return core.NewError(message, category, resolveTextCode(category, textCode), metadata)
}

func transportWrapError(
	source error,
	category goerrors.Category,
	message string,
	textCode string,
	metadata map[string]any,
) error {
	return core.WrapError(source, category, message, resolveTextCode(category, textCode), metadata)
}

func resolveTextCode(category goerrors.Category, textCode string) string {
	if textCode != "" {
		return textCode
	}
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return core.ErrorBadInput
	case goerrors.CategoryExternal:
		return core.ErrorTransportFailure
	default:
		return core.ErrorInternal
	}
}

// IsTransient reports whether err is a network level failure worth retrying.
// Non-2xx responses never are.
func IsTransient(err error) bool {
	return err != nil && core.IsTextCode(err, core.ErrorTransportFailure)
}
