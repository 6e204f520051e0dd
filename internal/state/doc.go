// Package state provides thread-safe list snapshots for the dashboard screens.
//
// # Overview
//
// Each screen (complaints, drivers, vehicles) owns one Store holding the
// authoritative list last fetched from the backend. The poller writes to it;
// the UI reads copies from it at its own pace.
//
//	Producer (poller):             Consumer (UI):
//	┌──────────────────┐          ┌──────────────────┐
//	│ BeginLoad()      │          │                  │
//	│ fetch            │          │                  │
//	│ Replace()/Fail() │─────────→│ Snapshot()       │
//	│ repeat...        │ (mutex)  │ render           │
//	└──────────────────┘          └──────────────────┘
//
// # Update Semantics
//
//	store.Replace(items)  // full-list replace, no merge
//	→ Items = items, Phase = ready, LastError = nil, failures = 0, Epoch++
//
//	store.Fail(err)       // previous items kept
//	→ LastError = err, failures++
//	→ Phase = ready, or failed when nothing was ever loaded
//
// Patch applies an optimistic change to a single item and reports the epoch
// it was applied in. Revert only succeeds while the epoch is unchanged, so a
// full list fetched after the patch is never overwritten by a stale rollback.
//
// # Teardown
//
// Stop freezes the store. Replace, Fail and BeginLoad become no-ops so a
// response that arrives after the screen is gone cannot repopulate it.
//
// # Offline Detection
//
// IsOffline reports two or more consecutive failures, which the header uses
// to switch from "retrying" to "offline".
package state
