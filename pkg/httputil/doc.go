// Package httputil provides the JSON plumbing shared by HTTP handlers.
//
// # Overview
//
//   - [DecodeJSON]: strict, size-limited request body decoding
//   - [WriteJSON]: JSON responses with a status code
//   - [WriteError]: error responses whose status follows the error code
//
// # Errors
//
// [WriteError] maps errors from package errors to HTTP statuses with
// [errors.HTTPStatus] and writes a small JSON body:
//
//	{"code": "INVALID_CHART", "error": "chart type is required"}
//
// Errors without a code are reported as 500 with a generic message, so
// internal details never reach the client.
package httputil
