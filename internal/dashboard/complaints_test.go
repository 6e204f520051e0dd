package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/notify"
	"github.com/five82/reclamos/internal/poller"
	"github.com/five82/reclamos/internal/state"
	"github.com/five82/reclamos/internal/status"
)

func localStamp(day, hour int) string {
	return time.Date(2026, 10, day, hour, 0, 0, 0, time.Local).Format(time.RFC3339)
}

func sampleComplaints() []backend.Complaint {
	return []backend.Complaint{
		{ID: "R-1", Address: "San Martín 123", Sector: "Norte", TaskType: "Bache", Status: status.Urgent, CreatedAt: localStamp(16, 14)},
		{ID: "R-2", Address: "Belgrano 50", Sector: "Sur", TaskType: "Luminaria", Status: status.Waiting, CreatedAt: localStamp(16, 9)},
		{ID: "R-3", Address: "Mitre 7", Sector: "Norte", TaskType: "Luminaria", Status: status.Done, CreatedAt: localStamp(14, 12)},
		{ID: "R-4", Address: "Roca 900", Sector: "Sur", TaskType: "Bache", Status: status.InProgress},
	}
}

func startComplaints(t *testing.T, api *fakeAPI, events *notify.Store, opts Options) *Complaints {
	t.Helper()
	if opts.Interval == 0 {
		opts.Interval = time.Hour
	}
	screen := NewComplaints(api, events, opts)
	t.Cleanup(screen.Stop)
	require.NoError(t, screen.Start(context.Background()))
	return screen
}

func TestFilter_Match(t *testing.T) {
	c := sampleComplaints()[0]
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero matches", Filter{}, true},
		{"status", Filter{Status: status.Urgent}, true},
		{"other status", Filter{Status: status.Done}, false},
		{"sector case-insensitive", Filter{Sector: "norte"}, true},
		{"other sector", Filter{Sector: "Sur"}, false},
		{"task type", Filter{TaskType: "Bache"}, true},
		{"day", Filter{Day: c.ParsedCreatedAt()}, true},
		{"other day", Filter{Day: day.AddDate(0, 0, -5)}, false},
		{"combined", Filter{Status: status.Urgent, Sector: "Norte", TaskType: "Luminaria"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(c))
		})
	}
}

func TestFilter_DayNeverMatchesUndated(t *testing.T) {
	undated := sampleComplaints()[3]
	assert.False(t, Filter{Day: time.Now()}.Match(undated))
	assert.True(t, Filter{}.IsZero())
	assert.False(t, Filter{Sector: "Sur"}.IsZero())
}

func TestComplaints_VisibleAndStats(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	screen := startComplaints(t, api, nil, Options{})

	assert.Len(t, screen.Visible(), 4)

	screen.SetFilter(Filter{Sector: "Norte"})
	visible := screen.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "R-1", visible[0].ID)
	assert.Equal(t, "R-3", visible[1].ID)
	assert.Equal(t, Filter{Sector: "Norte"}, screen.Filter())

	stats := screen.Stats()
	assert.Equal(t, Stats{Total: 4, Urgent: 1, Waiting: 1, InProgress: 1, Done: 1}, stats)
}

func TestComplaints_GroupedNewestDayFirst(t *testing.T) {
	groups := groupByDay(sampleComplaints())
	require.Len(t, groups, 3)

	assert.Equal(t, []string{"R-1", "R-2"}, ids(groups[0].Complaints))
	assert.Equal(t, []string{"R-3"}, ids(groups[1].Complaints))
	assert.True(t, groups[2].Day.IsZero())
	assert.Equal(t, []string{"R-4"}, ids(groups[2].Complaints))
}

func TestComplaints_ChangeStatusRecordsNotification(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	events := notify.NewStore()
	screen := startComplaints(t, api, events, Options{Actor: "Juan Pérez"})

	require.NoError(t, screen.ChangeStatus(context.Background(), "R-2", status.InProgress))

	item := findItem(t, screen.Snapshot(), "R-2")
	assert.Equal(t, status.InProgress, item.Status)

	list := events.List()
	require.Len(t, list, 1)
	assert.Equal(t, "R-2", list[0].SubjectID)
	assert.Equal(t, "Belgrano 50", list[0].SubjectLabel)
	assert.Equal(t, status.Waiting, list[0].Previous)
	assert.Equal(t, status.InProgress, list[0].Next)
	assert.Equal(t, "Juan Pérez", list[0].Actor)
}

func TestComplaints_ChangeStatusToSameValueIsSilent(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	events := notify.NewStore()
	screen := startComplaints(t, api, events, Options{})

	require.NoError(t, screen.ChangeStatus(context.Background(), "R-1", status.Urgent))

	assert.Equal(t, []status.Status{status.Urgent}, api.statusCalls)
	assert.Empty(t, events.List())
}

func TestComplaints_ChangeStatusFailureRollsBack(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	events := notify.NewStore()
	screen := startComplaints(t, api, events, Options{})
	api.failWrite = errBackend

	err := screen.ChangeStatus(context.Background(), "R-2", status.Done)
	require.ErrorIs(t, err, errBackend)

	assert.Equal(t, status.Waiting, findItem(t, screen.Snapshot(), "R-2").Status)
	assert.Empty(t, events.List())
}

func TestComplaints_ChangeStatusFailureKeptWithNextPoll(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	screen := startComplaints(t, api, nil, Options{Reconcile: poller.ReconcileNextPoll})
	api.failWrite = errBackend

	require.Error(t, screen.ChangeStatus(context.Background(), "R-2", status.Done))
	assert.Equal(t, status.Done, findItem(t, screen.Snapshot(), "R-2").Status)

	require.NoError(t, screen.Refresh(context.Background()))
	assert.Equal(t, status.Waiting, findItem(t, screen.Snapshot(), "R-2").Status)
}

func TestComplaints_ChangeStatusRejectsUnknown(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	screen := startComplaints(t, api, nil, Options{})

	require.Error(t, screen.ChangeStatus(context.Background(), "R-1", status.Status("CERRADO")))
	assert.Empty(t, api.statusCalls)
}

func TestComplaints_AssignDriverRefetches(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	screen := startComplaints(t, api, nil, Options{})
	before := api.listCalls

	require.NoError(t, screen.AssignDriver(context.Background(), "R-1", "D-9"))

	assert.Equal(t, [][2]string{{"R-1", "D-9"}}, api.assignCalls)
	assert.Equal(t, "D-9", findItem(t, screen.Snapshot(), "R-1").AssignedDriverID)
	assert.Greater(t, api.listCalls, before)
}

func TestComplaints_ChangeArea(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	screen := startComplaints(t, api, nil, Options{})

	require.Error(t, screen.ChangeArea(context.Background(), "R-1", "  "))
	require.NoError(t, screen.ChangeArea(context.Background(), "R-1", "Obras Públicas"))
	assert.Equal(t, "Obras Públicas", findItem(t, screen.Snapshot(), "R-1").Area)
}

func TestComplaints_CreateValidatesAndRefetches(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	screen := startComplaints(t, api, nil, Options{})

	_, err := screen.Create(context.Background(), backend.CreateComplaintRequest{CitizenName: "Ana"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address")

	created, err := screen.Create(context.Background(), backend.CreateComplaintRequest{
		CitizenName: "Ana",
		Address:     "Sarmiento 10",
		Description: "Poste caído",
		Sector:      "Centro",
		TaskType:    "Luminaria",
	})
	require.NoError(t, err)
	assert.Equal(t, "R-new", created.ID)
	assert.Equal(t, "R-new", screen.Snapshot().Items[0].ID)
}

func TestComplaints_ObservationAndConvert(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	screen := startComplaints(t, api, nil, Options{})

	require.Error(t, screen.AddObservation(context.Background(), "R-1", ""))
	require.NoError(t, screen.AddObservation(context.Background(), "R-1", " vecino llamó de nuevo "))
	assert.Equal(t, []string{"vecino llamó de nuevo"}, api.observations)

	require.NoError(t, screen.ConvertToTask(context.Background(), "R-1"))
	assert.Equal(t, []string{"R-1"}, api.converted)
}

func TestComplaints_CatalogFallsBackToListValues(t *testing.T) {
	api := &fakeAPI{failCatalog: errBackend}
	api.setComplaints(sampleComplaints()...)
	screen := startComplaints(t, api, nil, Options{})

	assert.Equal(t, []string{"Norte", "Sur"}, screen.Sectors())
	assert.Equal(t, []string{"Bache", "Luminaria"}, screen.TaskTypes())
}

func TestComplaints_CatalogFromBackend(t *testing.T) {
	api := &fakeAPI{
		sectors:   []backend.CatalogEntry{{Name: "Centro"}, {Name: " "}},
		taskTypes: []backend.CatalogEntry{{Name: "Poda"}},
	}
	screen := startComplaints(t, api, nil, Options{})

	assert.Equal(t, []string{"Centro"}, screen.Sectors())
	assert.Equal(t, []string{"Poda"}, screen.TaskTypes())
}

func TestComplaints_OnChangeCalled(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	changes := 0
	startComplaints(t, api, nil, Options{OnChange: func() { changes++ }})
	assert.Equal(t, 1, changes)
}

func ids(items []backend.Complaint) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.ID
	}
	return out
}

func findItem(t *testing.T, snap state.Snapshot[backend.Complaint], id string) backend.Complaint {
	t.Helper()
	for _, c := range snap.Items {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("complaint %s not in snapshot", id)
	return backend.Complaint{}
}

func TestComplaints_Detail(t *testing.T) {
	api := &fakeAPI{}
	api.setComplaints(sampleComplaints()...)
	screen := startComplaints(t, api, notify.NewStore(), Options{})

	detail, err := screen.Detail(context.Background(), "R-2")
	require.NoError(t, err)
	assert.Equal(t, "Belgrano 50", detail.Address)
	require.Len(t, detail.Observations, 1)
	assert.Equal(t, []string{"R-2"}, api.detailCalls)

	_, err = screen.Detail(context.Background(), "R-404")
	assert.ErrorIs(t, err, backend.ErrNotFound)

	_, err = screen.Detail(context.Background(), " ")
	assert.Error(t, err)
	assert.Len(t, api.detailCalls, 2)
}
