// Package server runs the HTTP side of the ssocache binary: signal-aware
// serving with startup and shutdown hooks, plus request-id and panic
// recovery middleware.
package server
