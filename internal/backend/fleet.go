package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListVehicles returns the fleet.
func (c *Client) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	var payload []Vehicle
	if err := c.do(ctx, http.MethodGet, "/vehicles", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateVehicle registers a vehicle.
func (c *Client) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (Vehicle, error) {
	var payload Vehicle
	if err := c.do(ctx, http.MethodPost, "/vehicles", nil, req, &payload); err != nil {
		return Vehicle{}, err
	}
	return payload, nil
}

// DeleteVehicle removes a vehicle.
func (c *Client) DeleteVehicle(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/vehicles/"+url.PathEscape(id), nil, nil, nil)
}

// CreateFuelLoad records a single refuelling.
func (c *Client) CreateFuelLoad(ctx context.Context, req CreateFuelLoadRequest) (FuelLoad, error) {
	var payload FuelLoad
	if err := c.do(ctx, http.MethodPost, "/fuel-loads", nil, req, &payload); err != nil {
		return FuelLoad{}, err
	}
	return payload, nil
}

// CreateFuelLoads records several refuellings in one request.
func (c *Client) CreateFuelLoads(ctx context.Context, loads []CreateFuelLoadRequest) ([]FuelLoad, error) {
	if len(loads) == 0 {
		return nil, nil
	}
	body := struct {
		Loads []CreateFuelLoadRequest `json:"loads"`
	}{Loads: loads}
	var payload []FuelLoad
	if err := c.do(ctx, http.MethodPost, "/fuel-loads/bulk", nil, body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// MonthlyFuelReport returns per-vehicle consumption for a month (1-12).
func (c *Client) MonthlyFuelReport(ctx context.Context, year, month int) ([]MonthlyReportItem, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range", month)
	}
	values := url.Values{}
	values.Set("year", strconv.Itoa(year))
	values.Set("month", strconv.Itoa(month))
	var payload []MonthlyReportItem
	if err := c.do(ctx, http.MethodGet, "/fuel-loads/report", values, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SearchUsers queries the user directory. An empty query lists everyone.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	values := url.Values{}
	if q := strings.TrimSpace(query); q != "" {
		values.Set("consulta", q)
	}
	var payload []User
	if err := c.do(ctx, http.MethodGet, "/users/search", values, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateUser adds a user.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (MessageResponse, error) {
	var payload MessageResponse
	if err := c.do(ctx, http.MethodPost, "/users", nil, req, &payload); err != nil {
		return MessageResponse{}, err
	}
	return payload, nil
}

// UpdateUser edits a user; zero fields are left unchanged.
func (c *Client) UpdateUser(ctx context.Context, id string, req CreateUserRequest) (MessageResponse, error) {
	var payload MessageResponse
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil, req, &payload); err != nil {
		return MessageResponse{}, err
	}
	return payload, nil
}

// DriversStatus returns every driver's live status.
func (c *Client) DriversStatus(ctx context.Context) ([]DriverStatus, error) {
	var payload []DriverStatus
	if err := c.do(ctx, http.MethodGet, "/tasks/drivers/status", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
