// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is the audience-facing side of the song-request client:
//  1. [BrowseView] : Search the venue catalog with filters and endless paging
//  2. [QueueView] : Watch the live request queue (admins can prune it)
//  3. [RequestsView] : The user's own outstanding requests with removal
//
// A request opens the tip dialog, a modal state machine (internal/tipflow)
// that collects an optional tip and drives the PayPal checkout. Generic
// notifications go through the shared [Dialog] modal.
//
// The root [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Polling cadence matches the service: queue 5s, played songs 5s then a
// configurable interval, request panel 120s.
package ui
