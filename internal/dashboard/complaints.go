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
	"github.com/five82/reclamos/internal/metrics"
	"github.com/five82/reclamos/internal/notify"
	"github.com/five82/reclamos/internal/poller"
	"github.com/five82/reclamos/internal/state"
	"github.com/five82/reclamos/internal/status"
)

// ComplaintsAPI is the slice of the backend the complaints screen uses.
type ComplaintsAPI interface {
	ListComplaints(ctx context.Context, query backend.ComplaintQuery) ([]backend.Complaint, error)
	GetComplaint(ctx context.Context, id string) (backend.Complaint, error)
	CreateComplaint(ctx context.Context, req backend.CreateComplaintRequest) (backend.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, next status.Status) (backend.Complaint, error)
	UpdateComplaintArea(ctx context.Context, id, area string) (backend.Complaint, error)
	AssignDriver(ctx context.Context, id, driverID string) (backend.Complaint, error)
	ConvertToTask(ctx context.Context, id string) error
	AddObservation(ctx context.Context, id, text string) error
	ListSectors(ctx context.Context) ([]backend.CatalogEntry, error)
	ListTaskTypes(ctx context.Context) ([]backend.CatalogEntry, error)
}

// Options configures a screen.
type Options struct {
	Interval  time.Duration
	Reconcile poller.Reconcile
	Backoff   bool
	Actor     string
	Logger    *log.Logger
	Metrics   *metrics.Metrics
	Clock     func() time.Time
	// OnChange is called after every accepted refresh or failure, e.g. to
	// wake the UI.
	OnChange func()
}

func (o Options) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

// Filter narrows the complaints list. Zero values match everything.
type Filter struct {
	Status   status.Status
	Sector   string
	TaskType string
	Day      time.Time
}

// Match reports whether c passes every set criterion.
func (f Filter) Match(c backend.Complaint) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Sector != "" && !strings.EqualFold(c.Sector, f.Sector) {
		return false
	}
	if f.TaskType != "" && !strings.EqualFold(c.TaskType, f.TaskType) {
		return false
	}
	if !f.Day.IsZero() && !sameDay(c.ParsedCreatedAt(), f.Day) {
		return false
	}
	return true
}

// IsZero reports whether no criterion is set.
func (f Filter) IsZero() bool {
	return f.Status == "" && f.Sector == "" && f.TaskType == "" && f.Day.IsZero()
}

// Stats are the headline counters shown above the list.
type Stats struct {
	Total      int
	Urgent     int
	Waiting    int
	InProgress int
	Done       int
}

// DayGroup is the complaints created on one calendar day.
type DayGroup struct {
	Day        time.Time
	Complaints []backend.Complaint
}

// Complaints is the main dashboard screen: the polled complaints list plus
// the actions an operator can take on it.
type Complaints struct {
	api    ComplaintsAPI
	events *notify.Store
	sync   *poller.Synchronizer[backend.Complaint]
	opts   Options
	logger *log.Entry

	mu        sync.RWMutex
	filter    Filter
	sectors   []string
	taskTypes []string
}

// NewComplaints wires the complaints screen. events receives a notification
// for every status change made from this screen.
func NewComplaints(api ComplaintsAPI, events *notify.Store, opts Options) *Complaints {
	c := &Complaints{
		api:    api,
		events: events,
		opts:   opts,
		logger: logging.OrDiscard(opts.Logger).WithField("screen", "complaints"),
	}
	c.sync = poller.New(c.fetch, poller.Options[backend.Complaint]{
		Interval:  opts.Interval,
		Key:       func(x backend.Complaint) string { return x.ID },
		Backoff:   opts.Backoff,
		Reconcile: opts.Reconcile,
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
		Name:      "complaints",
		Clock:     opts.Clock,
		OnSuccess: func([]backend.Complaint) { c.changed() },
		OnError:   func(error, bool) { c.changed() },
	})
	return c
}

func (c *Complaints) fetch(ctx context.Context) ([]backend.Complaint, error) {
	return c.api.ListComplaints(ctx, backend.ComplaintQuery{})
}

func (c *Complaints) changed() {
	if c.opts.OnChange != nil {
		c.opts.OnChange()
	}
}

// Start loads the catalogs and the first page of complaints, then begins
// polling. A catalog failure is logged and does not stop the screen.
func (c *Complaints) Start(ctx context.Context) error {
	if err := c.LoadCatalog(ctx); err != nil {
		c.logger.WithError(err).Warn("catalog load failed; filters will use values from the list")
	}
	return c.sync.Start(ctx)
}

// Stop halts polling. Late results are discarded.
func (c *Complaints) Stop() { c.sync.Stop() }

// Refresh fetches immediately and restarts the polling interval.
func (c *Complaints) Refresh(ctx context.Context) error {
	return c.sync.TriggerImmediate(ctx)
}

// Snapshot returns the unfiltered list and its sync state.
func (c *Complaints) Snapshot() state.Snapshot[backend.Complaint] {
	return c.sync.Snapshot()
}

// LoadCatalog fetches sectors and task types concurrently.
func (c *Complaints) LoadCatalog(ctx context.Context) error {
	var sectors, taskTypes []backend.CatalogEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sectors, err = c.api.ListSectors(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		taskTypes, err = c.api.ListTaskTypes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	c.mu.Lock()
	c.sectors = catalogNames(sectors)
	c.taskTypes = catalogNames(taskTypes)
	c.mu.Unlock()
	return nil
}

// Sectors returns the configured sectors, or the distinct sectors seen in
// the list when the catalog is unavailable.
func (c *Complaints) Sectors() []string {
	c.mu.RLock()
	sectors := append([]string(nil), c.sectors...)
	c.mu.RUnlock()
	if len(sectors) > 0 {
		return sectors
	}
	return distinct(c.Snapshot().Items, func(x backend.Complaint) string { return x.Sector })
}

// TaskTypes mirrors Sectors for task types.
func (c *Complaints) TaskTypes() []string {
	c.mu.RLock()
	types := append([]string(nil), c.taskTypes...)
	c.mu.RUnlock()
	if len(types) > 0 {
		return types
	}
	return distinct(c.Snapshot().Items, func(x backend.Complaint) string { return x.TaskType })
}

// SetFilter replaces the active filter.
func (c *Complaints) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

// Filter returns the active filter.
func (c *Complaints) Filter() Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Visible returns the complaints that pass the active filter, in list order.
func (c *Complaints) Visible() []backend.Complaint {
	f := c.Filter()
	items := c.Snapshot().Items
	out := make([]backend.Complaint, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Stats counts the whole list regardless of the filter.
func (c *Complaints) Stats() Stats {
	return computeStats(c.Snapshot().Items)
}

func computeStats(items []backend.Complaint) Stats {
	stats := Stats{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case status.Urgent:
			stats.Urgent++
		case status.Waiting:
			stats.Waiting++
		case status.InProgress:
			stats.InProgress++
		case status.Done:
			stats.Done++
		}
	}
	return stats
}

// Grouped returns the visible complaints grouped by creation day, newest
// day first. Complaints without a parseable date come last.
func (c *Complaints) Grouped() []DayGroup {
	return groupByDay(c.Visible())
}

func groupByDay(items []backend.Complaint) []DayGroup {
	index := make(map[time.Time]int)
	var groups []DayGroup
	for _, item := range items {
		day := truncateDay(item.ParsedCreatedAt())
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Day: day})
		}
		groups[i].Complaints = append(groups[i].Complaints, item)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Day.After(groups[j].Day)
	})
	return groups
}

// ChangeStatus moves a complaint to next. The list shows the new status at
// once; on success a notification is recorded if the status actually
// changed.
func (c *Complaints) ChangeStatus(ctx context.Context, id string, next status.Status) error {
	if !next.Valid() {
		return fmt.Errorf("unknown status %q", next)
	}
	current, found := c.find(id)

	err := c.sync.Mutate(ctx, id,
		func(x backend.Complaint) backend.Complaint {
			x.Status = next
			return x
		},
		func(ctx context.Context) error {
			_, err := c.api.UpdateComplaintStatus(ctx, id, next)
			return err
		})
	if err != nil {
		return fmt.Errorf("actualizar estado: %w", err)
	}

	if found && current.Status != next && c.events != nil {
		c.events.Record(id, current.Label(), current.Status, next, c.opts.Actor)
	}
	c.logger.WithFields(log.Fields{"subject_id": id, "status": next}).Info("status changed")
	c.changed()
	return nil
}

// ChangeArea reassigns the responsible area.
func (c *Complaints) ChangeArea(ctx context.Context, id, area string) error {
	area = strings.TrimSpace(area)
	if area == "" {
		return fmt.Errorf("area is required")
	}
	err := c.sync.Mutate(ctx, id,
		func(x backend.Complaint) backend.Complaint {
			x.Area = area
			return x
		},
		func(ctx context.Context) error {
			_, err := c.api.UpdateComplaintArea(ctx, id, area)
			return err
		})
	if err != nil {
		return fmt.Errorf("actualizar área: %w", err)
	}
	c.changed()
	return nil
}

// AssignDriver assigns a driver and refetches so the embedded driver summary
// is current.
func (c *Complaints) AssignDriver(ctx context.Context, id, driverID string) error {
	err := c.sync.Mutate(ctx, id,
		func(x backend.Complaint) backend.Complaint {
			x.AssignedDriverID = driverID
			return x
		},
		func(ctx context.Context) error {
			_, err := c.api.AssignDriver(ctx, id, driverID)
			return err
		})
	if err != nil {
		return fmt.Errorf("asignar chofer: %w", err)
	}
	c.refreshAfterAction(ctx)
	return nil
}

// Create registers a complaint and refetches so it appears at the top.
func (c *Complaints) Create(ctx context.Context, req backend.CreateComplaintRequest) (backend.Complaint, error) {
	if err := validateCreate(req); err != nil {
		return backend.Complaint{}, err
	}
	created, err := c.api.CreateComplaint(ctx, req)
	if err != nil {
		return backend.Complaint{}, fmt.Errorf("registrar reclamo: %w", err)
	}
	c.logger.WithField("subject_id", created.ID).Info("complaint created")
	c.refreshAfterAction(ctx)
	return created, nil
}

// Detail fetches one complaint with its observations and task, which the
// list endpoint leaves out.
func (c *Complaints) Detail(ctx context.Context, id string) (backend.Complaint, error) {
	if strings.TrimSpace(id) == "" {
		return backend.Complaint{}, fmt.Errorf("complaint id is empty")
	}
	detail, err := c.api.GetComplaint(ctx, id)
	if err != nil {
		return backend.Complaint{}, fmt.Errorf("cargar reclamo: %w", err)
	}
	return detail, nil
}

// AddObservation attaches an operator note.
func (c *Complaints) AddObservation(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("observation is empty")
	}
	if err := c.api.AddObservation(ctx, id, text); err != nil {
		return fmt.Errorf("agregar observación: %w", err)
	}
	return nil
}

// ConvertToTask turns the complaint into a field task.
func (c *Complaints) ConvertToTask(ctx context.Context, id string) error {
	if err := c.api.ConvertToTask(ctx, id); err != nil {
		return fmt.Errorf("convertir en tarea: %w", err)
	}
	c.refreshAfterAction(ctx)
	return nil
}

// refreshAfterAction refetches after a successful write. A failure here is
// already visible in the snapshot, so it is only logged.
func (c *Complaints) refreshAfterAction(ctx context.Context) {
	if err := c.sync.TriggerImmediate(ctx); err != nil {
		c.logger.WithError(err).Debug("refresh after action failed")
	}
}

func (c *Complaints) find(id string) (backend.Complaint, bool) {
	for _, item := range c.Snapshot().Items {
		if item.ID == id {
			return item, true
		}
	}
	return backend.Complaint{}, false
}

func validateCreate(req backend.CreateComplaintRequest) error {
	var missing []string
	for field, value := range map[string]string{
		"citizenName": req.CitizenName,
		"address":     req.Address,
		"description": req.Description,
		"sector":      req.Sector,
		"taskType":    req.TaskType,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func catalogNames(entries []backend.CatalogEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if n := strings.TrimSpace(e.Name); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func distinct[T any](items []T, field func(T) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		v := strings.TrimSpace(field(item))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return truncateDay(a).Equal(truncateDay(b))
}
