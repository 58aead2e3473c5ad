// Package application provides application initialization and dependency
// wiring for the serve command. It encapsulates the creation of the signer,
// handlers, router, and HTTP server, keeping the main package focused on CLI
// parsing and orchestration.
package application
