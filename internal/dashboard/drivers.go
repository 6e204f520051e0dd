package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/logging"
	"github.com/five82/reclamos/internal/poller"
	"github.com/five82/reclamos/internal/state"
	"github.com/five82/reclamos/internal/status"
)

// DriversInterval is the drivers board refresh period.
const DriversInterval = 10 * time.Second

// DriversAPI is the slice of the backend the drivers board uses.
type DriversAPI interface {
	ListComplaints(ctx context.Context, query backend.ComplaintQuery) ([]backend.Complaint, error)
	SearchUsers(ctx context.Context, query string) ([]backend.User, error)
	DriversStatus(ctx context.Context) ([]backend.DriverStatus, error)
	AssignDriver(ctx context.Context, id, driverID string) (backend.Complaint, error)
}

// DriverRow is one driver with live tracking and open assignments.
type DriverRow struct {
	User     backend.User
	Status   *backend.DriverStatus
	Assigned []backend.Complaint
}

// Name is the display name, preferring the directory entry.
func (r DriverRow) Name() string {
	if name := strings.TrimSpace(r.User.FirstName + " " + r.User.LastName); name != "" {
		return name
	}
	if r.Status != nil && r.Status.Driver.Name != "" {
		return r.Status.Driver.Name
	}
	return r.User.ID
}

// Tracked reports whether the driver has a live tracking session.
func (r DriverRow) Tracked() bool {
	return r.Status != nil && r.Status.Tracking != nil
}

// Drivers is the drivers board: directory, tracking status and assignments
// fetched together.
type Drivers struct {
	api    DriversAPI
	sync   *poller.Synchronizer[DriverRow]
	logger *log.Entry
	opts   Options

	mu      sync.RWMutex
	staged  []backend.Complaint
	pending []backend.Complaint
}

// NewDrivers wires the drivers board. A zero Interval uses DriversInterval.
func NewDrivers(api DriversAPI, opts Options) *Drivers {
	if opts.Interval <= 0 {
		opts.Interval = DriversInterval
	}
	d := &Drivers{
		api:    api,
		opts:   opts,
		logger: logging.OrDiscard(opts.Logger).WithField("screen", "drivers"),
	}
	d.sync = poller.New(d.fetch, poller.Options[DriverRow]{
		Interval: opts.Interval,
		Key:      func(r DriverRow) string { return r.User.ID },
		Backoff:  opts.Backoff,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
		Name:     "drivers",
		Clock:    opts.Clock,
		OnSuccess: func([]DriverRow) {
			d.mu.Lock()
			d.pending = d.staged
			d.mu.Unlock()
			d.changed()
		},
		OnError: func(error, bool) { d.changed() },
	})
	return d
}

// fetch runs the three reads concurrently. Fetches never overlap, so the
// unassigned list is staged here and published from OnSuccess.
func (d *Drivers) fetch(ctx context.Context) ([]DriverRow, error) {
	var (
		complaints []backend.Complaint
		users      []backend.User
		statuses   []backend.DriverStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		complaints, err = d.api.ListComplaints(gctx, backend.ComplaintQuery{})
		return err
	})
	g.Go(func() error {
		var err error
		users, err = d.api.SearchUsers(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = d.api.DriversStatus(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows, unassigned := buildBoard(users, statuses, complaints)
	d.mu.Lock()
	d.staged = unassigned
	d.mu.Unlock()
	return rows, nil
}

func buildBoard(users []backend.User, statuses []backend.DriverStatus, complaints []backend.Complaint) ([]DriverRow, []backend.Complaint) {
	byDriver := make(map[string]*backend.DriverStatus, len(statuses))
	for i := range statuses {
		byDriver[statuses[i].Driver.ID] = &statuses[i]
	}

	assigned := make(map[string][]backend.Complaint)
	var unassigned []backend.Complaint
	for _, c := range complaints {
		if c.Status == status.Done {
			continue
		}
		if c.AssignedDriverID == "" {
			unassigned = append(unassigned, c)
			continue
		}
		assigned[c.AssignedDriverID] = append(assigned[c.AssignedDriverID], c)
	}

	var rows []DriverRow
	for _, u := range users {
		if !u.IsDriver() {
			continue
		}
		rows = append(rows, DriverRow{
			User:     u,
			Status:   byDriver[u.ID],
			Assigned: assigned[u.ID],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name()) < strings.ToLower(rows[j].Name())
	})
	return rows, unassigned
}

func (d *Drivers) changed() {
	if d.opts.OnChange != nil {
		d.opts.OnChange()
	}
}

// Start loads the board and begins polling.
func (d *Drivers) Start(ctx context.Context) error { return d.sync.Start(ctx) }

// Stop halts polling.
func (d *Drivers) Stop() { d.sync.Stop() }

// Refresh fetches immediately.
func (d *Drivers) Refresh(ctx context.Context) error { return d.sync.TriggerImmediate(ctx) }

// Snapshot returns the driver rows and sync state.
func (d *Drivers) Snapshot() state.Snapshot[DriverRow] { return d.sync.Snapshot() }

// Unassigned returns open complaints nobody is working on.
func (d *Drivers) Unassigned() []backend.Complaint {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]backend.Complaint(nil), d.pending...)
}

// Assign gives complaintID to driverID and reloads the board.
func (d *Drivers) Assign(ctx context.Context, complaintID, driverID string) error {
	if _, err := d.api.AssignDriver(ctx, complaintID, driverID); err != nil {
		return fmt.Errorf("asignar chofer: %w", err)
	}
	d.logger.WithFields(log.Fields{"subject_id": complaintID, "driver_id": driverID}).Info("driver assigned")
	if err := d.sync.TriggerImmediate(ctx); err != nil {
		d.logger.WithError(err).Debug("refresh after assign failed")
	}
	return nil
}
