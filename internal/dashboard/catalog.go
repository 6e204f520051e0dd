package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/five82/reclamos/internal/backend"
)

// CatalogAPI is the slice of the backend that configures sectors and task
// types.
type CatalogAPI interface {
	ListSectors(ctx context.Context) ([]backend.CatalogEntry, error)
	CreateSector(ctx context.Context, name string) (backend.CatalogEntry, error)
	ListTaskTypes(ctx context.Context) ([]backend.CatalogEntry, error)
	CreateTaskType(ctx context.Context, name string) (backend.CatalogEntry, error)
}

// ErrCatalogDuplicate is returned when the name already exists, ignoring
// case and surrounding spaces.
var ErrCatalogDuplicate = errors.New("already exists")

// AddSector creates a sector unless one with the same name exists.
func AddSector(ctx context.Context, api CatalogAPI, name string) (backend.CatalogEntry, error) {
	return addCatalogEntry(ctx, "sector", name, api.ListSectors, api.CreateSector)
}

// AddTaskType creates a task type unless one with the same name exists.
func AddTaskType(ctx context.Context, api CatalogAPI, name string) (backend.CatalogEntry, error) {
	return addCatalogEntry(ctx, "task type", name, api.ListTaskTypes, api.CreateTaskType)
}

func addCatalogEntry(
	ctx context.Context,
	kind, name string,
	list func(context.Context) ([]backend.CatalogEntry, error),
	create func(context.Context, string) (backend.CatalogEntry, error),
) (backend.CatalogEntry, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return backend.CatalogEntry{}, fmt.Errorf("%s name is empty", kind)
	}
	existing, err := list(ctx)
	if err != nil {
		return backend.CatalogEntry{}, fmt.Errorf("list %ss: %w", kind, err)
	}
	for _, e := range existing {
		if strings.EqualFold(strings.TrimSpace(e.Name), name) {
			return e, fmt.Errorf("%s %q: %w", kind, name, ErrCatalogDuplicate)
		}
	}
	created, err := create(ctx, name)
	if err != nil {
		return backend.CatalogEntry{}, fmt.Errorf("create %s: %w", kind, err)
	}
	return created, nil
}
