package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/five82/reclamos/internal/app"
	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/dashboard"
	"github.com/five82/reclamos/internal/status"
)

const usage = `usage: reclamos [flags] [command]

commands:
  (none)        open the dashboard
  login         store a session (-dni, -password)
  logout        forget the stored session
  list          print complaints (-status, -sector)
  show          print one complaint with its observations (ID)
  report        monthly fuel report (-year, -month)
  import-fuel   load a CSV sheet of fuel loads (FILE)
  add-fuel      record one fuel load (-plate, -liters)
  add-user      create a user (-first, -last, -dni, -role)
  update-user   edit a user (-id and the fields to change)
  add-sector    add a complaint sector (NAME)
  add-task-type add a complaint task type (NAME)
  add-vehicle   register a vehicle (-plate, -brand, -model, -year)

global flags:
  -config PATH   config file (default ~/.config/reclamos/config.toml)
  -session PATH  session file (default ~/.config/reclamos/session.toml)
  -poll SECONDS  complaints refresh interval (default from config)
`

var errUsage = errors.New("usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("reclamos", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", "", "override config path (optional)")
	sessionPath := global.String("session", "", "override session path (optional)")
	pollSeconds := global.Int("poll", 0, "refresh interval in seconds (optional)")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	opts := app.Options{ConfigPath: *configPath, SessionPath: *sessionPath}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = time.Duration(poll) * time.Second
	}

	rest := global.Args()
	var err error
	if len(rest) == 0 {
		err = app.Run(ctx, opts)
	} else {
		err = dispatch(ctx, opts, rest[0], rest[1:], stdout, stderr)
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintf(stderr, "reclamos: %v\n", err)
		return 1
	}
}

func dispatch(ctx context.Context, opts app.Options, cmd string, args []string, stdout, stderr io.Writer) error {
	switch cmd {
	case "login":
		return runLogin(ctx, opts, args, stdout, stderr)
	case "logout":
		if err := app.Logout(opts); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "sesión cerrada")
		return nil
	case "list":
		return runList(ctx, opts, args, stdout, stderr)
	case "show":
		return runShow(ctx, opts, args, stdout, stderr)
	case "add-fuel":
		return runAddFuel(ctx, opts, args, stdout, stderr)
	case "update-user":
		return runUpdateUser(ctx, opts, args, stdout, stderr)
	case "add-sector":
		return runAddCatalog(ctx, opts, "add-sector", dashboard.AddSector, args, stdout, stderr)
	case "add-task-type":
		return runAddCatalog(ctx, opts, "add-task-type", dashboard.AddTaskType, args, stdout, stderr)
	case "report":
		return runReport(ctx, opts, args, stdout, stderr)
	case "import-fuel":
		return runImportFuel(ctx, opts, args, stdout, stderr)
	case "add-user":
		return runAddUser(ctx, opts, args, stdout, stderr)
	case "add-vehicle":
		return runAddVehicle(ctx, opts, args, stdout, stderr)
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}
}

func newFlags(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func runLogin(ctx context.Context, opts app.Options, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("login", stderr)
	dni := fs.String("dni", "", "operator DNI")
	password := fs.String("password", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*dni) == "" || *password == "" {
		fmt.Fprintln(stderr, "login requires -dni and -password")
		return errUsage
	}
	sess, err := app.Login(ctx, opts, strings.TrimSpace(*dni), *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "sesión iniciada: %s (%s)\n", sess.Actor(), sess.User.Role)
	return nil
}

func runList(ctx context.Context, opts app.Options, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("list", stderr)
	statusFlag := fs.String("status", "", "PENDING, IN_PROGRESS or DONE")
	sector := fs.String("sector", "", "sector name")
	if err := parse(fs, args); err != nil {
		return err
	}
	query := backend.ComplaintQuery{Sector: strings.TrimSpace(*sector)}
	if v := strings.TrimSpace(*statusFlag); v != "" {
		st, ok := status.Parse(v)
		if !ok {
			fmt.Fprintf(stderr, "unknown status %q\n", v)
			return errUsage
		}
		query.Status = st
	}

	env, _, err := app.Connect(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	items, err := env.Client.ListComplaints(ctx, query)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FECHA\tESTADO\tSECTOR\tTIPO\tDIRECCIÓN\tVECINO")
	for _, c := range items {
		day := "-"
		if t := c.ParsedCreatedAt(); !t.IsZero() {
			day = t.Local().Format("02/01/2006 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", day, c.Status.Label(), c.Sector, c.TaskType, c.Address, c.CitizenName)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d reclamos\n", len(items))
	return nil
}

func runReport(ctx context.Context, opts app.Options, args []string, stdout, stderr io.Writer) error {
	now := time.Now()
	fs := newFlags("report", stderr)
	year := fs.Int("year", now.Year(), "report year")
	month := fs.Int("month", int(now.Month()), "report month (1-12)")
	if err := parse(fs, args); err != nil {
		return err
	}

	env, _, err := app.Connect(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	rows, err := dashboard.FuelReport(ctx, env.Client, *year, *month)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VEHÍCULO\tCÓDIGO\tTIPO\tCOMBUSTIBLE\tMEDICIÓN\tCONSUMO")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Vehicle, r.Code, r.Type, r.Fuel, r.Measurement, r.Consumption)
	}
	return tw.Flush()
}

func runImportFuel(ctx context.Context, opts app.Options, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("import-fuel", stderr)
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "import-fuel requires one CSV file")
		return errUsage
	}
	file, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}
	defer file.Close()

	env, _, err := app.Connect(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	n, err := dashboard.ImportFuelLoads(ctx, env.Client, file, time.Now())
	if err != nil {
		return err
	}
	env.Logger.WithField("rows", n).Info("fuel sheet imported")
	fmt.Fprintf(stdout, "%d cargas importadas\n", n)
	return nil
}

func runAddUser(ctx context.Context, opts app.Options, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("add-user", stderr)
	var req backend.CreateUserRequest
	fs.StringVar(&req.FirstName, "first", "", "first name")
	fs.StringVar(&req.LastName, "last", "", "last name")
	fs.StringVar(&req.DNI, "dni", "", "DNI")
	fs.StringVar(&req.Role, "role", "DRIVER", "ADMIN, CALL_CENTER or DRIVER")
	fs.StringVar(&req.Email, "email", "", "email (optional)")
	fs.StringVar(&req.Password, "password", "", "initial password (optional)")
	fs.StringVar(&req.Area, "area", "", "area (optional)")
	if err := parse(fs, args); err != nil {
		return err
	}

	env, _, err := app.Connect(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	resp, err := env.AddUser(ctx, req)
	if err != nil {
		return err
	}
	msg := resp.Message
	if msg == "" {
		msg = "usuario creado"
	}
	fmt.Fprintln(stdout, msg)
	return nil
}

func runAddVehicle(ctx context.Context, opts app.Options, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("add-vehicle", stderr)
	var req backend.CreateVehicleRequest
	fs.StringVar(&req.LicensePlate, "plate", "", "license plate")
	fs.StringVar(&req.Brand, "brand", "", "brand")
	fs.StringVar(&req.Model, "model", "", "model")
	fs.IntVar(&req.Year, "year", 0, "model year")
	fs.StringVar(&req.Type, "type", "", "vehicle type")
	fs.StringVar(&req.FuelType, "fuel", "", "fuel type")
	if err := parse(fs, args); err != nil {
		return err
	}

	env, sess, err := app.Connect(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	vehicles := dashboard.NewVehicles(env.Client, dashboard.Options{Logger: env.Logger, Actor: sess.Actor()})
	created, err := vehicles.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "vehículo %s registrado\n", created.LicensePlate)
	return nil
}

func runShow(ctx context.Context, opts app.Options, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("show", stderr)
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "show requires one complaint id")
		return errUsage
	}

	env, sess, err := app.Connect(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	screen := dashboard.NewComplaints(env.Client, nil, dashboard.Options{Logger: env.Logger, Actor: sess.Actor()})
	c, err := screen.Detail(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"ID", c.ID},
		{"Estado", c.Status.Label()},
		{"Dirección", c.Address},
		{"Vecino", c.CitizenName},
		{"Contacto", c.ContactInfo},
		{"Sector", c.Sector},
		{"Tipo", c.TaskType},
		{"Área", c.Area},
		{"Descripción", c.Description},
	} {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, o := range c.Observations {
		when := o.CreatedAt
		if t, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
			when = t.Local().Format("02/01/2006 15:04")
		}
		fmt.Fprintf(stdout, "- %s %s\n", when, o.Observation)
	}
	return nil
}

func runAddFuel(ctx context.Context, opts app.Options, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("add-fuel", stderr)
	var entry dashboard.FuelEntry
	fs.StringVar(&entry.Plate, "plate", "", "license plate")
	fs.Float64Var(&entry.Liters, "liters", 0, "liters loaded")
	fs.Float64Var(&entry.PricePerLiter, "price", 0, "price per liter (optional)")
	fs.Float64Var(&entry.Odometer, "odometer", 0, "odometer reading (optional)")
	fs.StringVar(&entry.Station, "station", "", "station (optional)")
	fs.StringVar(&entry.Notes, "notes", "", "notes (optional)")
	fs.StringVar(&entry.Date, "date", "", "DD/MM/YYYY (default today)")
	if err := parse(fs, args); err != nil {
		return err
	}

	env, _, err := app.Connect(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	load, err := dashboard.RecordFuelLoad(ctx, env.Client, entry, time.Now())
	if err != nil {
		return err
	}
	env.Logger.WithField("vehicle_id", load.VehicleID).Info("fuel load recorded")
	fmt.Fprintf(stdout, "carga registrada: %.2f l\n", load.Quantity)
	return nil
}

func runUpdateUser(ctx context.Context, opts app.Options, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("update-user", stderr)
	id := fs.String("id", "", "user id")
	var req backend.CreateUserRequest
	fs.StringVar(&req.FirstName, "first", "", "first name")
	fs.StringVar(&req.LastName, "last", "", "last name")
	fs.StringVar(&req.DNI, "dni", "", "DNI")
	fs.StringVar(&req.Role, "role", "", "ADMIN, CALL_CENTER or DRIVER")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Password, "password", "", "new password")
	fs.StringVar(&req.Area, "area", "", "area")
	if err := parse(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		fmt.Fprintln(stderr, "update-user requires -id")
		return errUsage
	}

	env, _, err := app.Connect(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	resp, err := env.UpdateUser(ctx, *id, req)
	if err != nil {
		return err
	}
	msg := resp.Message
	if msg == "" {
		msg = "usuario actualizado"
	}
	fmt.Fprintln(stdout, msg)
	return nil
}

type catalogAdder func(context.Context, dashboard.CatalogAPI, string) (backend.CatalogEntry, error)

func runAddCatalog(ctx context.Context, opts app.Options, name string, add catalogAdder, args []string, stdout, stderr io.Writer) error {
	fs := newFlags(name, stderr)
	if err := parse(fs, args); err != nil {
		return err
	}
	value := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(value) == "" {
		fmt.Fprintf(stderr, "%s requires a name\n", name)
		return errUsage
	}

	env, _, err := app.Connect(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	entry, err := add(ctx, env.Client, value)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s creado (%s)\n", entry.Name, entry.ID)
	return nil
}
