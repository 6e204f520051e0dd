package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/five82/reclamos/internal/status"
)

// ListComplaints fetches complaints, optionally filtered by status and sector.
func (c *Client) ListComplaints(ctx context.Context, query ComplaintQuery) ([]Complaint, error) {
	values := url.Values{}
	if s := strings.TrimSpace(string(query.Status)); s != "" {
		values.Set("status", s)
	}
	if sector := strings.TrimSpace(query.Sector); sector != "" {
		values.Set("sector", sector)
	}
	var payload []Complaint
	if err := c.do(ctx, http.MethodGet, "/complaints", values, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetComplaint fetches a single complaint with its observations.
func (c *Client) GetComplaint(ctx context.Context, id string) (Complaint, error) {
	var payload Complaint
	if err := c.do(ctx, http.MethodGet, complaintPath(id), nil, nil, &payload); err != nil {
		return Complaint{}, err
	}
	return payload, nil
}

// CreateComplaint registers a new citizen complaint.
func (c *Client) CreateComplaint(ctx context.Context, req CreateComplaintRequest) (Complaint, error) {
	var payload Complaint
	if err := c.do(ctx, http.MethodPost, "/complaints", nil, req, &payload); err != nil {
		return Complaint{}, err
	}
	return payload, nil
}

// UpdateComplaintStatus moves a complaint to the next status.
func (c *Client) UpdateComplaintStatus(ctx context.Context, id string, next status.Status) (Complaint, error) {
	return c.patchComplaint(ctx, id, "status", map[string]string{"status": string(next)})
}

// UpdateComplaintArea reassigns the responsible area.
func (c *Client) UpdateComplaintArea(ctx context.Context, id, area string) (Complaint, error) {
	return c.patchComplaint(ctx, id, "area", map[string]string{"area": area})
}

// AssignDriver assigns a driver to the complaint.
func (c *Client) AssignDriver(ctx context.Context, id, driverID string) (Complaint, error) {
	return c.patchComplaint(ctx, id, "assign", map[string]string{"driverId": driverID})
}

// ConvertToTask turns the complaint into a field task.
func (c *Client) ConvertToTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, complaintPath(id)+"/convert-to-task", nil, nil, nil)
}

// AddObservation attaches an operator note.
func (c *Client) AddObservation(ctx context.Context, id, text string) error {
	body := map[string]string{"observation": text}
	return c.do(ctx, http.MethodPost, complaintPath(id)+"/observations", nil, body, nil)
}

func (c *Client) patchComplaint(ctx context.Context, id, field string, body any) (Complaint, error) {
	var payload Complaint
	if err := c.do(ctx, http.MethodPatch, complaintPath(id)+"/"+field, nil, body, &payload); err != nil {
		return Complaint{}, err
	}
	return payload, nil
}

func complaintPath(id string) string {
	return "/complaints/" + url.PathEscape(id)
}

// ListSectors returns the configured sectors.
func (c *Client) ListSectors(ctx context.Context) ([]CatalogEntry, error) {
	return c.listCatalog(ctx, "/complaints/config/sectors")
}

// CreateSector adds a sector.
func (c *Client) CreateSector(ctx context.Context, name string) (CatalogEntry, error) {
	return c.createCatalog(ctx, "/complaints/config/sectors", name)
}

// ListTaskTypes returns the configured task types.
func (c *Client) ListTaskTypes(ctx context.Context) ([]CatalogEntry, error) {
	return c.listCatalog(ctx, "/complaints/config/task-types")
}

// CreateTaskType adds a task type.
func (c *Client) CreateTaskType(ctx context.Context, name string) (CatalogEntry, error) {
	return c.createCatalog(ctx, "/complaints/config/task-types", name)
}

func (c *Client) listCatalog(ctx context.Context, path string) ([]CatalogEntry, error) {
	var payload []CatalogEntry
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) createCatalog(ctx context.Context, path, name string) (CatalogEntry, error) {
	var payload CatalogEntry
	if err := c.do(ctx, http.MethodPost, path, nil, map[string]string{"name": name}, &payload); err != nil {
		return CatalogEntry{}, err
	}
	return payload, nil
}
