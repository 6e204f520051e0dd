// Package poller keeps a screen's list in sync with the backend.
//
// # Overview
//
// A Synchronizer owns a state.Store and a FetchFunc. Start performs the first
// load synchronously, flagged as manual so the loading indicator and any
// error reach the user, and then launches one goroutine driven by a
// time.Ticker. Every tick refetches the whole list and replaces the local
// copy. There is no diffing and no merge.
//
// # Failures
//
// A failed background refresh keeps the previous list, logs a warning and
// calls OnError with manual=false. The loop continues at the same cadence.
// With Options.Backoff set, the next tick is delayed by base*2^failures,
// capped at 30s, and the cadence returns to the base interval after the
// next success.
//
// # Manual refresh
//
// TriggerImmediate fetches synchronously outside the schedule and resets the
// ticker so the next background tick lands a full interval later. A tick and
// a trigger that overlap share one request through singleflight.
//
// # Optimistic updates
//
// Mutate patches the keyed item in place before the remote call returns. If
// the call fails under ReconcileRollback the previous item is restored,
// unless a full refresh landed in between; a newer list always wins. Under
// ReconcileNextPoll the local change simply waits to be overwritten. In
// both cases the next successful poll is authoritative.
//
// # Shutdown
//
// Stop cancels the loop context, bumps the generation counter and stops the
// store. Results from fetches that were in flight at that moment are
// discarded, whether they came from the loop or from TriggerImmediate.
package poller
