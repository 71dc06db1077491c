package webhooks

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-formsync/core"
)

// SigningString returns the exact bytes that are hashed. Field order and the
// trailing newline are part of the contract.
func SigningString(event, reqUUID, repeat, timestamp, payload, accessKey, secretKey string) string {
	var b strings.Builder
	for _, field := range []string{event, reqUUID, repeat, timestamp, payload, accessKey, secretKey} {
		b.WriteString(field)
		b.WriteByte('\n')
	}
	return b.String()
}

func Sign(event, reqUUID, repeat, timestamp, payload, accessKey, secretKey string) string {
	sum := sha256.Sum256([]byte(SigningString(event, reqUUID, repeat, timestamp, payload, accessKey, secretKey)))
	return hex.EncodeToString(sum[:])
}

type SignatureVerifier struct {
	AccessKey string
	SecretKey string
}

func NewSignatureVerifier(accessKey, secretKey string) SignatureVerifier {
	return SignatureVerifier{AccessKey: accessKey, SecretKey: secretKey}
}

func (v SignatureVerifier) Expected(event core.WebhookEvent) string {
	return Sign(event.Event, event.ReqUUID, event.Repeat, event.Timestamp, event.Payload, v.AccessKey, v.SecretKey)
}

// Valid compares in constant time and never fails on malformed input.
func (v SignatureVerifier) Valid(event core.WebhookEvent) bool {
	expected := v.Expected(event)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(event.Sign)) == 1
}

func (v SignatureVerifier) Verify(_ context.Context, event core.WebhookEvent) error {
	if v.Valid(event) {
		return nil
	}
	return core.NewError(
		"webhooks: signature verification failed",
		goerrors.CategoryAuth,
		core.ErrorSignatureInvalid,
		map[string]any{"event": event.Event, "req_uuid": event.ReqUUID},
	)
}

var _ core.EventVerifier = SignatureVerifier{}
