package dashboard

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/five82/reclamos/internal/backend"
)

// FuelAPI is the slice of the backend used for fuel reporting and imports.
type FuelAPI interface {
	ListVehicles(ctx context.Context) ([]backend.Vehicle, error)
	CreateFuelLoad(ctx context.Context, req backend.CreateFuelLoadRequest) (backend.FuelLoad, error)
	CreateFuelLoads(ctx context.Context, loads []backend.CreateFuelLoadRequest) ([]backend.FuelLoad, error)
	MonthlyFuelReport(ctx context.Context, year, month int) ([]backend.MonthlyReportItem, error)
}

// ErrNoFuelRows is returned when an import file holds only a header.
var ErrNoFuelRows = errors.New("import file has no data rows")

const fuelDateLayout = "02/01/2006"

// Columns of the fuel import sheet. Lookup is case- and accent-insensitive.
var fuelColumns = struct {
	plate, liters, workUnit, workUnitType, station, date, notes string
}{
	plate:        "patente",
	liters:       "litros",
	workUnit:     "unidad trabajo",
	workUnitType: "tipo unidad",
	station:      "estacion",
	date:         "fecha",
	notes:        "notas",
}

// RowError reports a problem in one line of an import file.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// FuelReport fetches the monthly consumption report.
func FuelReport(ctx context.Context, api FuelAPI, year, month int) ([]backend.MonthlyReportItem, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range", month)
	}
	if year < 2000 {
		return nil, fmt.Errorf("year %d out of range", year)
	}
	items, err := api.MonthlyFuelReport(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("fuel report %04d-%02d: %w", year, month, err)
	}
	return items, nil
}

// ParseFuelSheet reads a fuel sheet, resolving license plates against
// vehicles. Every row is checked and all row errors are returned together.
// Rows without a date use now.
func ParseFuelSheet(r io.Reader, vehicles []backend.Vehicle, now time.Time) ([]backend.CreateFuelLoadRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoFuelRows
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	for _, required := range []string{fuelColumns.plate, fuelColumns.liters} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	plates := make(map[string]string, len(vehicles))
	for _, v := range vehicles {
		plates[normalizePlate(v.LicensePlate)] = v.ID
	}

	var (
		loads []backend.CreateFuelLoadRequest
		errs  []error
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line, _ := reader.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("read sheet: %w", err)
		}
		if blankRecord(record) {
			continue
		}
		load, err := parseFuelRow(record, cols, plates, now)
		if err != nil {
			errs = append(errs, &RowError{Line: line, Err: err})
			continue
		}
		loads = append(loads, load)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(loads) == 0 {
		return nil, ErrNoFuelRows
	}
	return loads, nil
}

// ImportFuelLoads parses a sheet and submits it in one bulk request.
// Nothing is sent if any row is invalid.
func ImportFuelLoads(ctx context.Context, api FuelAPI, r io.Reader, now time.Time) (int, error) {
	vehicles, err := api.ListVehicles(ctx)
	if err != nil {
		return 0, fmt.Errorf("list vehicles: %w", err)
	}
	loads, err := ParseFuelSheet(r, vehicles, now)
	if err != nil {
		return 0, err
	}
	created, err := api.CreateFuelLoads(ctx, loads)
	if err != nil {
		return 0, fmt.Errorf("import fuel loads: %w", err)
	}
	if len(created) == 0 {
		return len(loads), nil
	}
	return len(created), nil
}

// FuelEntry is one refuelling typed in by an operator.
type FuelEntry struct {
	Plate         string
	Liters        float64
	PricePerLiter float64
	Odometer      float64 // zero means not recorded
	Station       string
	Notes         string
	Date          string // DD/MM/YYYY; empty means now
}

// RecordFuelLoad registers a single refuelling, resolving the plate
// against the fleet.
func RecordFuelLoad(ctx context.Context, api FuelAPI, entry FuelEntry, now time.Time) (backend.FuelLoad, error) {
	plate := normalizePlate(entry.Plate)
	if plate == "" {
		return backend.FuelLoad{}, errors.New("patente vacía")
	}
	if entry.Liters <= 0 {
		return backend.FuelLoad{}, fmt.Errorf("litros inválidos %v", entry.Liters)
	}
	if entry.PricePerLiter < 0 || entry.Odometer < 0 {
		return backend.FuelLoad{}, errors.New("precio y odómetro no pueden ser negativos")
	}

	vehicles, err := api.ListVehicles(ctx)
	if err != nil {
		return backend.FuelLoad{}, fmt.Errorf("list vehicles: %w", err)
	}
	req := backend.CreateFuelLoadRequest{
		Quantity:      entry.Liters,
		PricePerLiter: entry.PricePerLiter,
		Station:       strings.TrimSpace(entry.Station),
		Notes:         strings.TrimSpace(entry.Notes),
		RecordedAt:    now.UTC().Format(time.RFC3339),
	}
	for _, v := range vehicles {
		if normalizePlate(v.LicensePlate) == plate {
			req.VehicleID = v.ID
			break
		}
	}
	if req.VehicleID == "" {
		return backend.FuelLoad{}, fmt.Errorf("patente %s no registrada", plate)
	}
	if entry.Odometer > 0 {
		odometer := entry.Odometer
		req.Odometer = &odometer
	}
	if raw := strings.TrimSpace(entry.Date); raw != "" {
		day, err := time.ParseInLocation(fuelDateLayout, raw, now.Location())
		if err != nil {
			return backend.FuelLoad{}, fmt.Errorf("fecha inválida %q (DD/MM/AAAA)", raw)
		}
		req.RecordedAt = day.UTC().Format(time.RFC3339)
	}

	created, err := api.CreateFuelLoad(ctx, req)
	if err != nil {
		return backend.FuelLoad{}, fmt.Errorf("registrar carga: %w", err)
	}
	return created, nil
}

func parseFuelRow(record []string, cols map[string]int, plates map[string]string, now time.Time) (backend.CreateFuelLoadRequest, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	plate := normalizePlate(field(fuelColumns.plate))
	if plate == "" {
		return backend.CreateFuelLoadRequest{}, errors.New("patente vacía")
	}
	vehicleID, ok := plates[plate]
	if !ok {
		return backend.CreateFuelLoadRequest{}, fmt.Errorf("patente %s no registrada", plate)
	}

	liters, err := parseDecimal(field(fuelColumns.liters))
	if err != nil || liters <= 0 {
		return backend.CreateFuelLoadRequest{}, fmt.Errorf("litros inválidos %q", field(fuelColumns.liters))
	}

	load := backend.CreateFuelLoadRequest{
		VehicleID:    vehicleID,
		Quantity:     liters,
		WorkUnitType: field(fuelColumns.workUnitType),
		Station:      field(fuelColumns.station),
		Notes:        field(fuelColumns.notes),
		RecordedAt:   now.UTC().Format(time.RFC3339),
	}
	if raw := field(fuelColumns.workUnit); raw != "" {
		units, err := parseDecimal(raw)
		if err != nil {
			return backend.CreateFuelLoadRequest{}, fmt.Errorf("unidad de trabajo inválida %q", raw)
		}
		load.WorkUnit = &units
	}
	if raw := field(fuelColumns.date); raw != "" {
		day, err := time.ParseInLocation(fuelDateLayout, raw, now.Location())
		if err != nil {
			return backend.CreateFuelLoadRequest{}, fmt.Errorf("fecha inválida %q (DD/MM/AAAA)", raw)
		}
		load.RecordedAt = day.UTC().Format(time.RFC3339)
	}
	return load, nil
}

// parseDecimal accepts both "12.5" and "12,5".
func parseDecimal(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, ",") && !strings.Contains(raw, ".") {
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	return strconv.ParseFloat(raw, 64)
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := foldAccents(strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

var accentFolder = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n")

func foldAccents(s string) string { return accentFolder.Replace(s) }

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
