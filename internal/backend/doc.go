// Package backend provides an HTTP client for the municipal complaints API.
//
// # Overview
//
// The console never owns data; every list it shows is fetched from this
// backend and every action it takes is a call through this package. The
// client speaks JSON over HTTP, sends the operator's bearer token when one
// is set, and gives every request a 10 second timeout.
//
// # Architecture
//
//   - client.go: Client construction, the API interface and request plumbing
//   - complaints.go: complaints plus the sector and task-type catalogs
//   - fleet.go: vehicles, fuel loads, users and driver status
//   - types.go: payload structs mirroring the backend schema
//   - errors.go: APIError and the sentinel errors
//
// # Client Usage
//
//	client, err := backend.NewClient(cfg.APIURL, backend.WithToken(sess.Token))
//	if err != nil {
//		return err
//	}
//	complaints, err := client.ListComplaints(ctx, backend.ComplaintQuery{Status: status.Urgent})
//
// The base URL may carry a path prefix; endpoint paths are appended to it.
// A bare host:port gets an http:// scheme.
//
// # Errors
//
// Any response with status >= 400 becomes an *APIError carrying the method,
// path, status code and the backend's message. The backend reports messages
// either as a string or as a list of validation messages; lists are joined
// with "; ". errors.Is matches ErrUnauthorized for 401 and ErrNotFound for
// 404.
//
// Login maps a 401 to ErrInvalidCredentials and rejects users whose role is
// not ADMIN or CALL_CENTER with ErrForbiddenRole, so callers can show the
// message directly.
//
// # Timestamps
//
// Timestamps stay as strings on the wire structs. The Parsed* helpers accept
// RFC 3339 (with or without fractional seconds) and a local
// "2006-01-02 15:04:05" layout, returning the zero time otherwise.
//
// # Thread Safety
//
// Client is safe for concurrent use. SetToken may be called while requests
// are in flight; each request reads the token once when it is built.
package backend
