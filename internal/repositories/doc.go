// Package repositories implements SQLite persistence for the snapshot history.
//
// Key Implementations:
//   - [SnapshotRepository] : append-only log of the playlist and track lists a session loaded
//
// Snapshot payloads are stored as JSON text; the kind column tells readers whether the payload
// holds (name, id) playlist pairs or track URIs.
package repositories
