package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/reclamos/internal/backend"
)

func TestVehicles_RegisterAndDelete(t *testing.T) {
	api := &fakeAPI{vehicles: []backend.Vehicle{{ID: "V-1", LicensePlate: "AB123CD"}}}
	fleet := NewVehicles(api, Options{Interval: time.Hour})
	t.Cleanup(fleet.Stop)
	require.NoError(t, fleet.Start(context.Background()))
	require.Len(t, fleet.Snapshot().Items, 1)

	created, err := fleet.Register(context.Background(), backend.CreateVehicleRequest{LicensePlate: " ae 456 fg ", Brand: "Ford"})
	require.NoError(t, err)
	assert.Equal(t, "AE456FG", created.LicensePlate)
	assert.Len(t, fleet.Snapshot().Items, 2)

	require.NoError(t, fleet.Delete(context.Background(), "V-1"))
	items := fleet.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, "AE456FG", items[0].LicensePlate)
}

func TestVehicles_RegisterValidation(t *testing.T) {
	fleet := NewVehicles(&fakeAPI{}, Options{})
	assert.Equal(t, VehiclesInterval, fleet.sync.Interval())

	_, err := fleet.Register(context.Background(), backend.CreateVehicleRequest{})
	require.Error(t, err)

	_, err = fleet.Register(context.Background(), backend.CreateVehicleRequest{LicensePlate: "AB123CD", Year: 1890})
	require.Error(t, err)
}

func TestVehicles_WriteFailure(t *testing.T) {
	api := &fakeAPI{failWrite: errBackend}
	fleet := NewVehicles(api, Options{Interval: time.Hour})

	_, err := fleet.Register(context.Background(), backend.CreateVehicleRequest{LicensePlate: "AB123CD"})
	require.ErrorIs(t, err, errBackend)
	require.ErrorIs(t, fleet.Delete(context.Background(), "V-1"), errBackend)
}
