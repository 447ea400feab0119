// Package api handles incoming HTTP requests for the word-finding service:
// the voice assistant's turn endpoint, administrator login and the catalog
// authoring routes. Handlers decode and validate requests, call the
// services behind small interfaces and map service errors to status codes
// without leaking internal details.
package api
