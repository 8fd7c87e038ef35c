// Package app is the composition root for shelf.
//
// # Overview
//
// It wires configuration, the session resolver, the library store, the
// catalog client, the cached list and the UI. Every collaborator is built
// in NewDeps and handed to its consumers; no package reaches for globals.
//
// # Startup
//
//  1. Load .env files, config.toml and prefs.toml
//  2. Send the standard logger to the log file (the terminal belongs to the TUI)
//  3. Without a backend: preview mode, no callback listener
//  4. With a backend: listen on a loopback address for the login return
//  5. Build Deps, start the optional poller and run the UI
//
// # Login loop
//
// The UI never navigates on its own. When the session resolves
// unauthenticated it quits and reports the login URL. Run prints that URL,
// waits for the browser to hit the loopback callback and starts over with
// the returned location and a fresh set of Deps:
//
//	Run()
//	 ├─> NewDeps()          resolver, session, store, catalog, state
//	 ├─> StartPoller()      optional, --refresh seconds
//	 ├─> ui.Run()           blocks; returns Outcome
//	 └─> Outcome.RedirectTarget != ""
//	       ├─> print login URL
//	       ├─> Callback.Wait()
//	       └─> loop with the returned location
//
// # Polling
//
// With a refresh interval the poller re-fetches the list into state.Store at
// a fixed cadence and the UI re-reads snapshots once a second. Failed
// fetches are logged and keep the previous list. Polling waits until the
// session is authenticated.
//
// # Scripting
//
// The CLI subcommands use NewDeps and Authenticate directly. Authenticate
// returns *LoginRequiredError when the user has to sign in first.
package app
