// Package api exposes the account lifecycle over JSON HTTP. Handlers decode
// and shape-check requests, call the account service and render either a
// {"data": ...} envelope or an {"errors": {field: [messages]}} envelope
// whose status follows MapErrorToStatusCode.
package api
