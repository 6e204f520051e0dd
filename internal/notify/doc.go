// Package notify keeps the in-memory list of complaint status changes the
// operator has made during the current session.
//
// # Overview
//
// Every successful status change on the complaints screen records an Event.
// The notifications panel subscribes to the Store and re-renders from the
// snapshot it receives; the header reads UnreadCount for the bell badge.
// Nothing is persisted: the store lives and dies with the process.
//
// # Deduplication
//
// Recording the same (subject, previous, next) transition twice within the
// dedup window (two seconds by default) returns the first event unchanged.
// The second caller's actor and label are ignored and subscribers are not
// notified again. This absorbs double submissions from key repeat and from
// a refresh racing the confirmation of a mutation.
//
// # Subscribers
//
//	unsubscribe := store.Subscribe(func(events []notify.Event) {
//		program.Send(notificationsMsg(events))
//	})
//	defer unsubscribe()
//
// Subscribers are invoked synchronously, in subscription order, before the
// mutating call returns. Each receives its own copy of the newest-first
// list. Calling unsubscribe more than once is harmless.
//
// # Concurrency
//
// All methods are safe for concurrent use. Mutations are serialised so that
// every subscriber sees snapshots in the order the mutations happened.
// Listeners run without the data lock held and may call List or
// UnreadCount, but calling a mutating method from inside a listener
// deadlocks.
//
// # Validation
//
// Record accepts any status value. Unknown values are stored as given and
// traced at debug level; callers that care use status.Status.Valid first.
package notify
