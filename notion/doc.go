// Package notion is a small client for the slice of the Notion REST API used
// to mirror form submissions: listing the databases under a page, creating a
// database and creating rows in it.
//
// Reads retry transport failures with exponential backoff. Writes are sent
// once. Non-2xx responses surface as DIRECTORY_API_ERROR and are never
// retried.
package notion
