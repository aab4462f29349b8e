// Package api adapts HTTP requests to the deck service: it routes and
// validates requests, maps service errors to status codes and shapes the
// JSON responses.
package api
