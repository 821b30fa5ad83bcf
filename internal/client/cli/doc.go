// Package cli provides the interactive tourgo command-line client.
//
// Typical flow: register or log in (passwords are read without echo and
// encrypted before they leave the process), then follow users, like
// articles and check the notification inbox. The REPL is started via
// App.Run(ctx), which blocks until the user exits.
package cli
