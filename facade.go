package formsync

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-formsync/adapters/gologger"
	"github.com/goliatone/go-formsync/command"
	"github.com/goliatone/go-formsync/core"
	"github.com/goliatone/go-formsync/httpapi"
	"github.com/goliatone/go-formsync/inbound"
	"github.com/goliatone/go-formsync/notion"
	paidsync "github.com/goliatone/go-formsync/sync"
	"github.com/goliatone/go-formsync/transport"
	"github.com/goliatone/go-formsync/webhooks"
	glog "github.com/goliatone/go-logger/glog"
)

type Option func(*options)

type options struct {
	logger         Logger
	loggerProvider LoggerProvider
	doer           transport.HTTPDoer
	sleep          transport.Sleeper
	accessLog      io.Writer
}

func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(o *options) {
		o.loggerProvider = provider
	}
}

// WithHTTPDoer replaces the HTTP client used to reach Notion.
func WithHTTPDoer(doer transport.HTTPDoer) Option {
	return func(o *options) {
		o.doer = doer
	}
}

// WithSleeper replaces the wait between read retries.
func WithSleeper(sleep transport.Sleeper) Option {
	return func(o *options) {
		o.sleep = sleep
	}
}

// WithAccessLog sends the per-request access log to w.
func WithAccessLog(w io.Writer) Option {
	return func(o *options) {
		o.accessLog = w
	}
}

// Application is the wired webhook receiver.
type Application struct {
	cfg        Config
	logger     Logger
	notion     *notion.Client
	syncer     *paidsync.Service
	runner     *inbound.DetachedRunner
	dispatcher *inbound.Dispatcher
	app        *fiber.App
}

func New(cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	built := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&built)
		}
	}
	provider, logger := gologger.Resolve(cfg.ServiceName, built.loggerProvider, built.logger)
	logger = glog.Ensure(logger)
	named := func(name string) Logger {
		if provider == nil {
			return logger
		}
		return glog.Ensure(provider.GetLogger(name))
	}

	clientOpts := []notion.Option{notion.WithLogger(named("notion"))}
	if built.doer != nil {
		clientOpts = append(clientOpts, notion.WithHTTPDoer(built.doer))
	}
	if built.sleep != nil {
		clientOpts = append(clientOpts, notion.WithSleeper(built.sleep))
	}
	client, err := notion.NewClient(notion.ConfigFrom(cfg.Notion), clientOpts...)
	if err != nil {
		return nil, err
	}

	syncer := paidsync.NewService(client, cfg.Notion.RootPageID, named("sync"))
	runner := inbound.NewDetachedRunner(named("runner"))
	dispatcher := inbound.NewDispatcher(
		webhooks.NewSignatureVerifier(cfg.MikeX.AccessKey, cfg.MikeX.SecretKey),
		named("inbound"),
	)
	handlers := []core.EventHandler{
		inbound.URLVerifyHandler{},
		inbound.FormSubmitHandler{Logger: named("inbound")},
		inbound.NewPaidSubmissionHandler(command.NewSyncPaidSubmissionCommand(syncer), runner, named("inbound")),
	}
	for _, handler := range handlers {
		if err := dispatcher.Register(handler); err != nil {
			return nil, err
		}
	}

	app := httpapi.NewApp(dispatcher, named("http"), httpapi.Config{
		AppName:   cfg.ServiceName,
		AccessLog: built.accessLog,
	})

	return &Application{
		cfg:        cfg,
		logger:     logger,
		notion:     client,
		syncer:     syncer,
		runner:     runner,
		dispatcher: dispatcher,
		app:        app,
	}, nil
}

func (a *Application) App() *fiber.App {
	return a.app
}

func (a *Application) Dispatcher() *inbound.Dispatcher {
	return a.dispatcher
}

// Directory is the Notion client the sync writes through.
func (a *Application) Directory() *notion.Client {
	return a.notion
}

// Syncer runs a paid submission sync inline, outside the webhook path.
func (a *Application) Syncer() *paidsync.Service {
	return a.syncer
}

// Listen serves until Shutdown is called. An empty addr uses the configured
// host and port.
func (a *Application) Listen(addr string) error {
	if addr == "" {
		addr = a.cfg.Address()
	}
	a.logger.Info("formsync: listening", "addr", addr, "env", a.cfg.Env)
	return a.app.Listen(addr)
}

// Shutdown stops accepting requests, then waits for in-flight paid
// submission syncs until ctx is done. Syncs still running after that are
// lost.
func (a *Application) Shutdown(ctx context.Context) error {
	if err := a.app.ShutdownWithContext(ctx); err != nil {
		return err
	}
	if err := a.runner.Wait(ctx); err != nil {
		a.logger.Warn("formsync: abandoning in-flight syncs", "error", err)
		return err
	}
	a.logger.Info("formsync: stopped")
	return nil
}

// Wait blocks until in-flight paid submission syncs finish or ctx is done.
func (a *Application) Wait(ctx context.Context) error {
	return a.runner.Wait(ctx)
}
