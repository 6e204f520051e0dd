// Package dashboard holds the screen models behind the terminal UI and the
// command-line subcommands.
//
// Each screen owns a poller.Synchronizer over one backend list:
//
//   - Complaints polls the full complaints list (the configured interval,
//     5s by default). Filtering by status, sector, task type and day is done
//     locally so Stats always describe the whole list. Status, area and
//     driver changes are applied optimistically through Synchronizer.Mutate;
//     a successful status change records a notify.Event carrying the
//     complaint address and the signed-in operator.
//   - Drivers joins the user directory, live tracking status and open
//     assignments, fetching the three concurrently every 10s.
//   - Vehicles lists the fleet and handles registration and removal.
//
// Fuel reporting and the CSV import are plain functions since they have no
// polled state.
//
// Screens take narrow interfaces rather than *backend.Client so tests can
// substitute in-memory fakes.
package dashboard
