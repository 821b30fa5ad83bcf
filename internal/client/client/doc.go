// Package client talks to the tourgo HTTP API on behalf of the CLI.
//
// Secrets never leave the process in clear text: the client fetches the
// server public key once, encrypts passwords and recovery answers locally
// and sends only the base64 ciphertext. After login the session token is
// kept in memory and attached as a bearer token to protected calls.
//
// # Error Handling
//
// Transport failures surface as ErrUnavailable, rejected credentials and
// 401 responses as ErrUnauthorized. Any other non-success envelope is
// returned as *APIError carrying the envelope code and message.
package client
