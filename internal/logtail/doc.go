// Package logtail reads the tail of shelf's own log file for the activity
// view.
//
// Read keeps a ring buffer of the last N lines, so memory stays at
// O(maxLines) however large the file grows. Parse splits a line written by
// the standard logger ("2006/01/02 15:04:05 component: message") into an
// Entry and guesses a Level from the message text. Rendering and colors
// live in the ui package.
package logtail
