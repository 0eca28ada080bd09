// Package models defines the data shared between the session controller, its views, and the history store.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): read-only projections of Spotify Web API responses
//   - [Profile] : the signed-in user's avatar
//   - [Playlist] : name and ID of one of the user's playlists
//   - [Track] : details of the track the user selected
//
// 2. Persistent Entities: database-backed records
//   - [Snapshot] : an immutable record of a playlist or track list the session loaded
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
package models
