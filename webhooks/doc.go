// Package webhooks verifies form platform webhook deliveries.
//
// A delivery is authentic when the SHA-256 digest of its newline joined
// fields plus the shared access/secret key pair matches the supplied sign.
package webhooks
