package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/status"
)

var errBackend = errors.New("backend unavailable")

// fakeAPI implements every screen interface over in-memory data.
type fakeAPI struct {
	mu         sync.Mutex
	complaints []backend.Complaint
	users      []backend.User
	statuses   []backend.DriverStatus
	vehicles   []backend.Vehicle
	sectors    []backend.CatalogEntry
	taskTypes  []backend.CatalogEntry
	report     []backend.MonthlyReportItem

	failList    error
	failWrite   error
	failCatalog error

	statusCalls  []status.Status
	assignCalls  [][2]string
	observations []string
	converted    []string
	fuelLoads    []backend.CreateFuelLoadRequest
	detailCalls  []string
	listCalls    int
}

var (
	_ ComplaintsAPI = (*fakeAPI)(nil)
	_ DriversAPI    = (*fakeAPI)(nil)
	_ VehiclesAPI   = (*fakeAPI)(nil)
	_ FuelAPI       = (*fakeAPI)(nil)
	_ CatalogAPI    = (*fakeAPI)(nil)
)

func (f *fakeAPI) setComplaints(items ...backend.Complaint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.complaints = items
}

func (f *fakeAPI) ListComplaints(context.Context, backend.ComplaintQuery) ([]backend.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList != nil {
		return nil, f.failList
	}
	return append([]backend.Complaint(nil), f.complaints...), nil
}

func (f *fakeAPI) GetComplaint(_ context.Context, id string) (backend.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, id)
	if f.failList != nil {
		return backend.Complaint{}, f.failList
	}
	for _, c := range f.complaints {
		if c.ID == id {
			c.Observations = []backend.Observation{{ID: "O-1", Observation: "vecino llamó de nuevo"}}
			return c, nil
		}
	}
	return backend.Complaint{}, backend.ErrNotFound
}

func (f *fakeAPI) CreateComplaint(_ context.Context, req backend.CreateComplaintRequest) (backend.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return backend.Complaint{}, f.failWrite
	}
	c := backend.Complaint{ID: "R-new", CitizenName: req.CitizenName, Address: req.Address, Status: status.Waiting}
	f.complaints = append([]backend.Complaint{c}, f.complaints...)
	return c, nil
}

func (f *fakeAPI) UpdateComplaintStatus(_ context.Context, id string, next status.Status) (backend.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, next)
	if f.failWrite != nil {
		return backend.Complaint{}, f.failWrite
	}
	return f.patchLocked(id, func(c *backend.Complaint) { c.Status = next }), nil
}

func (f *fakeAPI) UpdateComplaintArea(_ context.Context, id, area string) (backend.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return backend.Complaint{}, f.failWrite
	}
	return f.patchLocked(id, func(c *backend.Complaint) { c.Area = area }), nil
}

func (f *fakeAPI) AssignDriver(_ context.Context, id, driverID string) (backend.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assignCalls = append(f.assignCalls, [2]string{id, driverID})
	if f.failWrite != nil {
		return backend.Complaint{}, f.failWrite
	}
	return f.patchLocked(id, func(c *backend.Complaint) { c.AssignedDriverID = driverID }), nil
}

func (f *fakeAPI) ConvertToTask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return f.failWrite
	}
	f.converted = append(f.converted, id)
	return nil
}

func (f *fakeAPI) AddObservation(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return f.failWrite
	}
	f.observations = append(f.observations, text)
	return nil
}

func (f *fakeAPI) ListSectors(context.Context) ([]backend.CatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sectors, f.failCatalog
}

func (f *fakeAPI) ListTaskTypes(context.Context) ([]backend.CatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taskTypes, f.failCatalog
}

func (f *fakeAPI) CreateSector(_ context.Context, name string) (backend.CatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return backend.CatalogEntry{}, f.failWrite
	}
	e := backend.CatalogEntry{ID: "S-" + name, Name: name}
	f.sectors = append(f.sectors, e)
	return e, nil
}

func (f *fakeAPI) CreateTaskType(_ context.Context, name string) (backend.CatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return backend.CatalogEntry{}, f.failWrite
	}
	e := backend.CatalogEntry{ID: "T-" + name, Name: name}
	f.taskTypes = append(f.taskTypes, e)
	return e, nil
}

func (f *fakeAPI) SearchUsers(context.Context, string) ([]backend.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users, nil
}

func (f *fakeAPI) DriversStatus(context.Context) ([]backend.DriverStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses, nil
}

func (f *fakeAPI) ListVehicles(context.Context) ([]backend.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	return append([]backend.Vehicle(nil), f.vehicles...), nil
}

func (f *fakeAPI) CreateVehicle(_ context.Context, req backend.CreateVehicleRequest) (backend.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return backend.Vehicle{}, f.failWrite
	}
	v := backend.Vehicle{ID: "V-" + req.LicensePlate, LicensePlate: req.LicensePlate, Brand: req.Brand}
	f.vehicles = append(f.vehicles, v)
	return v, nil
}

func (f *fakeAPI) DeleteVehicle(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return f.failWrite
	}
	kept := f.vehicles[:0]
	for _, v := range f.vehicles {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	f.vehicles = kept
	return nil
}

func (f *fakeAPI) CreateFuelLoad(_ context.Context, req backend.CreateFuelLoadRequest) (backend.FuelLoad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return backend.FuelLoad{}, f.failWrite
	}
	f.fuelLoads = append(f.fuelLoads, req)
	return backend.FuelLoad{ID: "F-1", VehicleID: req.VehicleID, Quantity: req.Quantity, RecordedAt: req.RecordedAt}, nil
}

func (f *fakeAPI) CreateFuelLoads(_ context.Context, loads []backend.CreateFuelLoadRequest) ([]backend.FuelLoad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return nil, f.failWrite
	}
	f.fuelLoads = append(f.fuelLoads, loads...)
	out := make([]backend.FuelLoad, len(loads))
	for i, l := range loads {
		out[i] = backend.FuelLoad{VehicleID: l.VehicleID, Quantity: l.Quantity}
	}
	return out, nil
}

func (f *fakeAPI) MonthlyFuelReport(context.Context, int, int) ([]backend.MonthlyReportItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.report, f.failList
}

func (f *fakeAPI) patchLocked(id string, apply func(*backend.Complaint)) backend.Complaint {
	for i := range f.complaints {
		if f.complaints[i].ID == id {
			apply(&f.complaints[i])
			return f.complaints[i]
		}
	}
	return backend.Complaint{ID: id}
}
