// Package inbound routes signed form platform deliveries to event handlers.
//
// Signature verification always runs first. Paid submissions are handed to a
// DetachedRunner and acknowledged immediately; their outcome is only logged.
package inbound
