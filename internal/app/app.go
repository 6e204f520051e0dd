package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/config"
	"github.com/five82/reclamos/internal/dashboard"
	"github.com/five82/reclamos/internal/logging"
	"github.com/five82/reclamos/internal/metrics"
	"github.com/five82/reclamos/internal/notify"
	"github.com/five82/reclamos/internal/prefs"
	"github.com/five82/reclamos/internal/session"
	"github.com/five82/reclamos/internal/ui"
)

// Options configure the application.
type Options struct {
	ConfigPath  string        // empty uses ~/.config/reclamos/config.toml
	PrefsPath   string        // empty uses ~/.config/reclamos/prefs.toml
	SessionPath string        // empty uses ~/.config/reclamos/session.toml
	PollEvery   time.Duration // zero uses poll_interval from config
	Clock       func() time.Time
}

func (o Options) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

func (o Options) sessionPath() string {
	if o.SessionPath != "" {
		return o.SessionPath
	}
	return session.DefaultPath()
}

// Env is the wiring shared by the TUI and the subcommands.
type Env struct {
	Config config.Config
	Logger *log.Logger
	Client *backend.Client

	closer io.Closer
}

// Setup loads config, opens the log file and builds the API client. The
// caller must Close the returned Env.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := backend.NewClient(cfg.APIURL, backend.WithLogger(logger))
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &Env{Config: cfg, Logger: logger, Client: client, closer: closer}, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// Authenticate loads the stored session and hands its token to the client.
func (e *Env) Authenticate(opts Options) (session.Session, error) {
	sess, err := session.Load(opts.sessionPath(), opts.now())
	if err != nil {
		return session.Session{}, err
	}
	e.Client.SetToken(sess.Token)
	e.Logger.WithField("user", sess.User.Email).Debug("session loaded")
	return sess, nil
}

// Connect is Setup followed by Authenticate, for subcommands that talk to
// the backend once and exit.
func Connect(opts Options) (*Env, session.Session, error) {
	env, err := Setup(opts)
	if err != nil {
		return nil, session.Session{}, err
	}
	sess, err := env.Authenticate(opts)
	if err != nil {
		_ = env.Close()
		return nil, session.Session{}, err
	}
	return env, sess, nil
}

// AddUser creates a user in the configured organization. First name, last
// name, DNI and role are required.
func (e *Env) AddUser(ctx context.Context, req backend.CreateUserRequest) (backend.MessageResponse, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"first name", req.FirstName},
		{"last name", req.LastName},
		{"dni", req.DNI},
		{"role", req.Role},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return backend.MessageResponse{}, fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	if req.OrganizationID == "" {
		req.OrganizationID = e.Config.OrganizationID
	}
	resp, err := e.Client.CreateUser(ctx, req)
	if err != nil {
		return backend.MessageResponse{}, fmt.Errorf("create user: %w", err)
	}
	e.Logger.WithFields(log.Fields{"dni": req.DNI, "role": req.Role}).Info("user created")
	return resp, nil
}

// UpdateUser edits an existing user. Empty fields are left unchanged, but
// at least one must be set.
func (e *Env) UpdateUser(ctx context.Context, id string, req backend.CreateUserRequest) (backend.MessageResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return backend.MessageResponse{}, fmt.Errorf("missing user id")
	}
	if req == (backend.CreateUserRequest{}) {
		return backend.MessageResponse{}, fmt.Errorf("nothing to update")
	}
	if req.Role != "" {
		req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	}
	resp, err := e.Client.UpdateUser(ctx, id, req)
	if err != nil {
		return backend.MessageResponse{}, fmt.Errorf("update user: %w", err)
	}
	e.Logger.WithField("user_id", id).Info("user updated")
	return resp, nil
}

// Login authenticates against the backend and stores the session.
func Login(ctx context.Context, opts Options, dni, password string) (session.Session, error) {
	env, err := Setup(opts)
	if err != nil {
		return session.Session{}, err
	}
	defer env.Close()

	resp, err := env.Client.Login(ctx, backend.LoginRequest{DNI: dni, Password: password})
	if err != nil {
		env.Logger.WithError(err).Warn("login failed")
		return session.Session{}, err
	}
	sess, err := session.FromLogin(resp)
	if err != nil {
		return session.Session{}, err
	}
	if err := session.Save(opts.sessionPath(), sess); err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}
	env.Logger.WithFields(log.Fields{"user": sess.User.Email, "role": sess.User.Role}).Info("logged in")
	return sess, nil
}

// Logout removes the stored session.
func Logout(opts Options) error {
	return session.Clear(opts.sessionPath())
}

// Run boots the TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.Logger

	sess, err := env.Authenticate(opts)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return fmt.Errorf("%w; run `reclamos login -dni DNI` first", err)
		}
		return err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	metrics.Serve(ctx, env.Config.MetricsAddr, registry, logger)

	events := notify.NewStore(
		notify.WithDedupWindow(env.Config.DedupWindow),
		notify.WithLogger(logger),
		notify.WithMetrics(m),
	)

	waker := ui.NewWaker()
	screenOpts := dashboard.Options{
		Interval: env.Config.PollInterval,
		Actor:    sess.Actor(),
		Logger:   logger,
		Metrics:  m,
		OnChange: waker.Wake,
	}
	complaints := dashboard.NewComplaints(env.Client, events, screenOpts)

	fleetOpts := screenOpts
	fleetOpts.Interval = 0
	drivers := dashboard.NewDrivers(env.Client, fleetOpts)
	vehicles := dashboard.NewVehicles(env.Client, fleetOpts)

	// First loads run together; a failure is shown in the UI, not fatal.
	var g errgroup.Group
	for name, start := range map[string]func(context.Context) error{
		"complaints": complaints.Start,
		"drivers":    drivers.Start,
		"vehicles":   vehicles.Start,
	} {
		name, start := name, start
		g.Go(func() error {
			if err := start(ctx); err != nil {
				logger.WithError(err).WithField("screen", name).Warn("initial load failed")
			}
			return nil
		})
	}
	_ = g.Wait()
	defer func() {
		complaints.Stop()
		drivers.Stop()
		vehicles.Stop()
	}()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.WithError(err).Warn("prefs unreadable; using defaults")
	}

	logger.WithFields(log.Fields{
		"api":      env.Client.BaseURL(),
		"operator": sess.Actor(),
		"interval": env.Config.PollInterval,
	}).Info("dashboard started")

	return ui.Run(ui.Options{
		Context:    ctx,
		Complaints: complaints,
		Drivers:    drivers,
		Vehicles:   vehicles,
		Events:     events,
		Waker:      waker,
		Prefs:      userPrefs,
		PrefsPath:  opts.PrefsPath,
		LogPath:    env.Config.LogFile,
		Operator:   sess.Actor(),
		Logger:     logger,
	})
}
