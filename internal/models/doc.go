// Package models defines domain entities exchanged with the song-request backend.
//
// The package contains two categories of types:
//
// 1. Catalog and queue objects, owned by the server:
//   - [Song] : catalog entry with title, author and artist image reference
//   - [QueueEntry] : one row of the live request queue with its requesters
//   - [UserRequest] : an outstanding request belonging to the current user
//   - [Gig] : the active live-performance session, carrying the tipping flag
//
// 2. Checkout objects, short-lived on the client:
//   - [TipIntent] : a server-created, not-yet-captured tip record; merged with
//     PayPal credentials from the same response and consumed by at most one
//     capture
//
// Session state (username, selected language, request counters) is not a
// model; it lives in the session store.
package models
