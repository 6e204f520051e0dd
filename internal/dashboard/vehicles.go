package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/logging"
	"github.com/five82/reclamos/internal/poller"
	"github.com/five82/reclamos/internal/state"
)

// VehiclesInterval is the fleet list refresh period.
const VehiclesInterval = 30 * time.Second

// VehiclesAPI is the slice of the backend the fleet screen uses.
type VehiclesAPI interface {
	ListVehicles(ctx context.Context) ([]backend.Vehicle, error)
	CreateVehicle(ctx context.Context, req backend.CreateVehicleRequest) (backend.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
}

// Vehicles is the fleet screen.
type Vehicles struct {
	api    VehiclesAPI
	sync   *poller.Synchronizer[backend.Vehicle]
	logger *log.Entry
}

// NewVehicles wires the fleet screen. A zero Interval uses VehiclesInterval.
func NewVehicles(api VehiclesAPI, opts Options) *Vehicles {
	if opts.Interval <= 0 {
		opts.Interval = VehiclesInterval
	}
	notify := func() {
		if opts.OnChange != nil {
			opts.OnChange()
		}
	}
	return &Vehicles{
		api:    api,
		logger: logging.OrDiscard(opts.Logger).WithField("screen", "vehicles"),
		sync: poller.New(api.ListVehicles, poller.Options[backend.Vehicle]{
			Interval:  opts.Interval,
			Key:       func(v backend.Vehicle) string { return v.ID },
			Backoff:   opts.Backoff,
			Logger:    opts.Logger,
			Metrics:   opts.Metrics,
			Name:      "vehicles",
			Clock:     opts.Clock,
			OnSuccess: func([]backend.Vehicle) { notify() },
			OnError:   func(error, bool) { notify() },
		}),
	}
}

// Start loads the fleet and begins polling.
func (v *Vehicles) Start(ctx context.Context) error { return v.sync.Start(ctx) }

// Stop halts polling.
func (v *Vehicles) Stop() { v.sync.Stop() }

// Refresh fetches immediately.
func (v *Vehicles) Refresh(ctx context.Context) error { return v.sync.TriggerImmediate(ctx) }

// Snapshot returns the fleet and its sync state.
func (v *Vehicles) Snapshot() state.Snapshot[backend.Vehicle] { return v.sync.Snapshot() }

// Register adds a vehicle and reloads the list.
func (v *Vehicles) Register(ctx context.Context, req backend.CreateVehicleRequest) (backend.Vehicle, error) {
	req.LicensePlate = normalizePlate(req.LicensePlate)
	if req.LicensePlate == "" {
		return backend.Vehicle{}, fmt.Errorf("license plate is required")
	}
	if req.Year != 0 && (req.Year < 1950 || req.Year > time.Now().Year()+1) {
		return backend.Vehicle{}, fmt.Errorf("year %d out of range", req.Year)
	}
	created, err := v.api.CreateVehicle(ctx, req)
	if err != nil {
		return backend.Vehicle{}, fmt.Errorf("registrar vehículo: %w", err)
	}
	v.logger.WithField("plate", created.LicensePlate).Info("vehicle registered")
	v.refresh(ctx)
	return created, nil
}

// Delete removes a vehicle and reloads the list.
func (v *Vehicles) Delete(ctx context.Context, id string) error {
	if err := v.api.DeleteVehicle(ctx, id); err != nil {
		return fmt.Errorf("eliminar vehículo: %w", err)
	}
	v.logger.WithField("vehicle_id", id).Info("vehicle deleted")
	v.refresh(ctx)
	return nil
}

func (v *Vehicles) refresh(ctx context.Context) {
	if err := v.sync.TriggerImmediate(ctx); err != nil {
		v.logger.WithError(err).Debug("refresh after write failed")
	}
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}
