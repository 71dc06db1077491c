// Package httpapi exposes the webhook endpoint and the liveness probe over
// fiber.
package httpapi

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/goliatone/go-formsync/core"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	RouteHome      = "/"
	RouteURLVerify = "/url_verify"

	DefaultGreeting = "Hello, formsync!"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, event core.WebhookEvent) (core.InboundResult, error)
}

type Config struct {
	AppName  string
	Greeting string
	// AccessLog receives one line per request. Nil means stdout.
	AccessLog io.Writer
	// BodyLimit caps request bodies in bytes; zero keeps the fiber default.
	BodyLimit int
}

// NewApp builds the fiber application serving the webhook routes.
func NewApp(dispatcher Dispatcher, logger core.Logger, cfg Config) *fiber.App {
	logger = glog.Ensure(logger)
	if strings.TrimSpace(cfg.Greeting) == "" {
		cfg.Greeting = DefaultGreeting
	}
	accessLog := cfg.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})
	app.Use(recover.New(), requestid.New(), fiberlogger.New(fiberlogger.Config{
		Output: accessLog,
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	handler := &WebhookHandler{Dispatcher: dispatcher, Logger: logger, Greeting: cfg.Greeting}
	app.Get(RouteHome, handler.Home)
	app.Post(RouteURLVerify, handler.URLVerify)
	return app
}

// errorHandler keeps fiber's own client errors (404, 405, 413) and turns
// everything else into a bare 500.
func errorHandler(logger core.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			return sendText(c, fiberErr.Code, fiberErr.Message)
		}
		logger.Error("httpapi: request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err,
		)
		return sendText(c, fiber.StatusInternalServerError, core.ResponseInternalError)
	}
}

func sendText(c *fiber.Ctx, status int, body string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(body)
}

func requestID(c *fiber.Ctx) string {
	if value, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return value
	}
	return ""
}
