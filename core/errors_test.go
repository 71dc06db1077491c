package core

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestNewError_AssignsEnvelope(t *testing.T) {
	err := NewError("notion: boom", goerrors.CategoryExternal, ErrorDirectoryAPI, map[string]any{"status_code": 409})
	if err.Code != http.StatusBadGateway {
		t.Fatalf("expected bad gateway code, got %d", err.Code)
	}
	if err.TextCode != ErrorDirectoryAPI {
		t.Fatalf("expected directory api text code, got %q", err.TextCode)
	}
	if err.Metadata["status_code"] != 409 {
		t.Fatalf("expected metadata to be attached, got %#v", err.Metadata)
	}
}

func TestIsTextCode_FindsWrappedEnvelopes(t *testing.T) {
	inner := NewError("transport: dial", goerrors.CategoryExternal, ErrorTransportFailure, nil)
	outer := fmt.Errorf("sync: lookup: %w", inner)
	if !IsTextCode(outer, ErrorTransportFailure) {
		t.Fatalf("expected wrapped transport failure to be detected")
	}
	if IsTextCode(outer, ErrorDirectoryAPI) {
		t.Fatalf("did not expect directory api code")
	}
	if IsTextCode(stderrors.New("plain"), ErrorInternal) {
		t.Fatalf("plain errors carry no text code")
	}
	if got := TextCode(outer); got != ErrorTransportFailure {
		t.Fatalf("expected text code %q, got %q", ErrorTransportFailure, got)
	}
}

func TestHTTPStatus_Categories(t *testing.T) {
	cases := map[goerrors.Category]int{
		goerrors.CategoryBadInput:   http.StatusBadRequest,
		goerrors.CategoryValidation: http.StatusBadRequest,
		goerrors.CategoryAuth:       http.StatusUnauthorized,
		goerrors.CategoryConflict:   http.StatusConflict,
		goerrors.CategoryExternal:   http.StatusBadGateway,
		goerrors.CategoryInternal:   http.StatusInternalServerError,
	}
	for category, expected := range cases {
		if got := HTTPStatus(category); got != expected {
			t.Fatalf("category %q: expected %d, got %d", category, expected, got)
		}
	}
}
