// Package state caches the most recent book list for the UI.
//
// Refreshes (the initial load, the optional poller and the re-fetch after
// every mutation) call Update with the result of Store.List. Rendering
// reads Snapshot. Both sides may run on different goroutines; the Store
// guards the snapshot with a sync.RWMutex and hands out copies.
//
// Update semantics:
//
//	store.Update(books, nil) -> Books replaced, Loaded=true, Stale=false, LastError=nil
//	store.Update(nil, err)   -> Books kept, LastError=err, ConsecutiveFailures++
//
// Invalidate sets Stale after a mutation so the header can show that a
// refresh is pending. Whichever refresh completes last wins.
//
// The zero Store is ready to use.
package state
