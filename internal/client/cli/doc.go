// Package cli provides the interactive CapSeal command-line client.
//
// It wires configuration, the local capture queue, the sealing-service
// client and an interactive REPL that keeps working offline. Captures are
// queued locally and a background coordinator submits them whenever the
// sealing service is reachable.
//
// Key features:
//   - Capture media files into the durable local queue
//   - List queued captures and sealed receipts
//   - Manual sync, per-capture retry, delete and clear
//   - Login / Logout (stores the auth token for later submissions)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, Coordinator and runREPL for details.
package cli
