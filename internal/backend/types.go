package backend

import (
	"strings"
	"time"

	"github.com/five82/reclamos/internal/status"
)

const backendTimestampLayout = "2006-01-02 15:04:05"

// Allowed roles for the operator console.
const (
	RoleAdmin      = "ADMIN"
	RoleCallCenter = "CALL_CENTER"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	DNI      string `json:"dni"`
	Password string `json:"password"`
}

// LoginResponse mirrors the login payload.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        SessionUser `json:"user"`
}

// SessionUser is the authenticated operator.
type SessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// FullName joins first and last name, skipping blanks.
func (u SessionUser) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Complaint is a citizen report as returned by /complaints.
type Complaint struct {
	ID               string        `json:"id"`
	CitizenName      string        `json:"citizenName"`
	CitizenDNI       string        `json:"citizenDni,omitempty"`
	Address          string        `json:"address"`
	ContactInfo      string        `json:"contactInfo"`
	Description      string        `json:"description"`
	Sector           string        `json:"sector"`
	TaskType         string        `json:"taskType"`
	Area             string        `json:"area,omitempty"`
	Status           status.Status `json:"status"`
	AssignedDriverID string        `json:"assignedDriverId,omitempty"`
	TaskID           string        `json:"taskId,omitempty"`
	Latitude         *float64      `json:"latitude,omitempty"`
	Longitude        *float64      `json:"longitude,omitempty"`
	CreatedAt        string        `json:"createdAt"`
	UpdatedAt        string        `json:"updatedAt"`
	AssignedDriver   *DriverRef    `json:"assignedDriver,omitempty"`
	Task             *TaskRef      `json:"task,omitempty"`
	Observations     []Observation `json:"observations,omitempty"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (c Complaint) ParsedCreatedAt() time.Time {
	return parseTime(c.CreatedAt)
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (c Complaint) ParsedUpdatedAt() time.Time {
	return parseTime(c.UpdatedAt)
}

// Label identifies the complaint in notifications: its address, or the id
// when the address is blank.
func (c Complaint) Label() string {
	if addr := strings.TrimSpace(c.Address); addr != "" {
		return addr
	}
	return c.ID
}

// DriverRef is the embedded driver summary on a complaint.
type DriverRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
}

// TaskRef links a complaint to the task created from it.
type TaskRef struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// Observation is an operator note attached to a complaint.
type Observation struct {
	ID          string `json:"id"`
	Observation string `json:"observation"`
	CreatedAt   string `json:"createdAt"`
	UserID      string `json:"userId"`
}

// CreateComplaintRequest is the body of POST /complaints.
type CreateComplaintRequest struct {
	CitizenName string   `json:"citizenName"`
	CitizenDNI  string   `json:"citizenDni,omitempty"`
	Address     string   `json:"address"`
	ContactInfo string   `json:"contactInfo"`
	Description string   `json:"description"`
	Sector      string   `json:"sector"`
	TaskType    string   `json:"taskType"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// ComplaintQuery filters GET /complaints server-side.
type ComplaintQuery struct {
	Status status.Status
	Sector string
}

// CatalogEntry is a configured sector or task type.
type CatalogEntry struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// Vehicle is a fleet vehicle.
type Vehicle struct {
	ID           string `json:"id"`
	LicensePlate string `json:"licensePlate"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Type         string `json:"type"`
	FuelType     string `json:"fuelType"`
	HorsePower   *int   `json:"horsePower,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

// CreateVehicleRequest is the body of POST /vehicles.
type CreateVehicleRequest struct {
	LicensePlate string `json:"licensePlate"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Type         string `json:"type"`
	FuelType     string `json:"fuelType"`
	HorsePower   *int   `json:"horsePower,omitempty"`
}

// FuelLoad is a recorded refuelling.
type FuelLoad struct {
	ID            string   `json:"id"`
	VehicleID     string   `json:"vehicleId"`
	Quantity      float64  `json:"quantity"`
	PricePerLiter float64  `json:"pricePerLiter"`
	TotalCost     float64  `json:"totalCost"`
	Odometer      *float64 `json:"odometer,omitempty"`
	Station       string   `json:"station,omitempty"`
	RecordedAt    string   `json:"recordedAt"`
	CreatedAt     string   `json:"createdAt"`
}

// CreateFuelLoadRequest is one entry for POST /fuel-loads or /fuel-loads/bulk.
type CreateFuelLoadRequest struct {
	VehicleID     string   `json:"vehicleId"`
	Quantity      float64  `json:"quantity"`
	PricePerLiter float64  `json:"pricePerLiter,omitempty"`
	Odometer      *float64 `json:"odometer,omitempty"`
	WorkUnit      *float64 `json:"workUnit,omitempty"`
	WorkUnitType  string   `json:"workUnitType,omitempty"`
	Station       string   `json:"station,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	RecordedAt    string   `json:"recordedAt,omitempty"`
}

// MonthlyReportItem is one vehicle row of the fuel consumption report.
type MonthlyReportItem struct {
	Vehicle     string `json:"vehiculo"`
	Code        string `json:"codigo"`
	Type        string `json:"tipo"`
	Fuel        string `json:"combustible"`
	Measurement string `json:"medicion"`
	Consumption string `json:"consumo"`
}

// User is a directory entry from /users/search.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	DNI       string `json:"dni"`
	Email     string `json:"correo"`
	Role      string `json:"tipo"`
	Area      string `json:"area,omitempty"`
}

// IsDriver reports whether the user drives municipal vehicles.
func (u User) IsDriver() bool {
	return strings.EqualFold(u.Role, "DRIVER") || strings.EqualFold(u.Role, "CHOFER")
}

// CreateUserRequest is the body of POST /users and PUT /users/{id}.
type CreateUserRequest struct {
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	DNI            string `json:"dni,omitempty"`
	Email          string `json:"email,omitempty"`
	Password       string `json:"password,omitempty"`
	Role           string `json:"role,omitempty"`
	Area           string `json:"area,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
}

// MessageResponse is the acknowledgement returned by user writes.
type MessageResponse struct {
	Message string `json:"mensaje"`
}

// DriverStatus is a driver's live state from /tasks/drivers/status.
type DriverStatus struct {
	Driver       DriverInfo  `json:"driver"`
	Status       string      `json:"status"`
	ActiveTask   *ActiveTask `json:"activeTask"`
	Vehicle      *VehicleRef `json:"vehicle"`
	Tracking     *Tracking   `json:"tracking"`
	LastLocation *Location   `json:"lastLocation"`
	History      []Location  `json:"locationHistory,omitempty"`
}

// DriverInfo identifies a driver.
type DriverInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ActiveTask is the task a driver is currently working.
type ActiveTask struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Priority    string `json:"priority"`
	AssignedAt  string `json:"assignedAt"`
}

// VehicleRef is the vehicle a driver is using.
type VehicleRef struct {
	ID           string `json:"id"`
	LicensePlate string `json:"licensePlate"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
}

// Tracking describes the driver's GPS session.
type Tracking struct {
	SessionID     string `json:"sessionId"`
	StartTime     string `json:"startTime"`
	LastHeartbeat string `json:"lastHeartbeat"`
	RiskLevel     string `json:"riskLevel"`
}

// ParsedLastHeartbeat returns the parsed heartbeat timestamp.
func (t Tracking) ParsedLastHeartbeat() time.Time {
	return parseTime(t.LastHeartbeat)
}

// Location is a GPS fix.
type Location struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp string  `json:"timestamp"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(backendTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
