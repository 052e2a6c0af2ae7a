// Package server holds HTTP server configuration.
//
// The server itself is assembled in the start command; this package only
// defines the settings it is built from (listen port, API key).
package server
