// Package session decides whether the user may use the app and which
// credential the library store sends.
//
// Resolve runs once per load and returns a tagged Result:
//
//  1. No backend configured: Authenticated with PreviewToken, no network.
//  2. The location carries ?token=...: that token is adopted and removed
//     from the location.
//  3. GET <backend>/check-session with ambient cookies; a {"token": "..."}
//     reply is adopted.
//  4. Anything else: Unauthenticated with the login URL, which embeds the
//     current location as redirect_uri.
//
// Resolve never navigates. The caller opens the login URL and, in a
// terminal, waits on a Callback for the browser to come back.
package session
