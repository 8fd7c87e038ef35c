// Package ui provides the terminal interface for shelf.
//
// The UI is a Bubble Tea program. Model owns all view state and receives
// its collaborators through Options: the session resolver and session, the
// library store, the catalog searcher and the cached list in state.Store.
// Nothing is looked up globally.
//
// Startup shows a spinner while the session resolves. An authenticated
// result loads the library; an unauthenticated one quits the program and
// reports the login URL through Outcome so the caller can send the user
// there.
//
// # Views
//
//   - Library: filter chips with per-status counts, a sortable list of
//     books and an edit modal for status and borrower.
//   - Search: catalog search; results can be added to the library.
//   - Activity: the tail of shelf's own log file.
//
// # Mutations
//
// Add, update and delete run as commands. A second mutation on the same book
// while the first is in flight is refused with a notice. Every success
// invalidates the cached list and triggers a reload; failures show a toast
// and leave the list untouched.
package ui
