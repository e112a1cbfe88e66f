// Package cli provides the interactive GophStorage command-line client.
//
// It wires configuration, the local session database, the REST client and
// the state stores, then runs a REPL. A previously saved session is restored
// on start; when it is present the gallery and the dashboard are loaded
// right away.
//
// Key features:
//   - Register / Login / Logout / whoami
//   - Paginated gallery (files, refresh)
//   - Upload, delete (with confirmation) and download of files
//   - Storage usage dashboard
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
