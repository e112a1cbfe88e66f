// Package client contains client-side building blocks for GophStorage.
//
// # Overview
//
// The package provides:
//  1. The REST contract of the storage backend (AuthAPI, StorageAPI, Client):
//     register/login, list/upload/delete/download files, dashboard totals.
//  2. A net/http implementation (HTTPClient). Public endpoints go out as-is;
//     HTTPClient.Authorized returns a copy whose transport asks an
//     oauth2.TokenSource for the bearer token on every request. Each request
//     carries an X-Request-ID header for log correlation.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations): an SQLite
//     database with embedded goose migrations holding the persisted session.
//
// # Error Handling
//
// Server failures are *APIError values whose Error() is the server's own
// message, unchanged. Transport failures wrap ErrUnavailable; a missing
// session surfaces as ErrNotAuthenticated. Match with errors.Is / errors.As.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honour cancellation. No retries are attempted.
//
// See Also
//
//   - Interfaces: AuthAPI, StorageAPI, Client
//   - HTTP impl:  HTTPClient, NewHTTPClient
//   - Test API:   package mock
//   - DB helpers: InitDatabase, RunMigrations
package client
