package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/goliatone/go-formsync/core"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	FieldEvent     = "event"
	FieldReqUUID   = "req_uuid"
	FieldRepeat    = "repeat"
	FieldTimestamp = "timestamp"
	FieldPayload   = "payload"
	FieldSign      = "sign"
)

type WebhookHandler struct {
	Dispatcher Dispatcher
	Logger     core.Logger
	Greeting   string
}

func (h *WebhookHandler) Home(c *fiber.Ctx) error {
	return sendText(c, fiber.StatusOK, h.Greeting)
}

// URLVerify receives every platform delivery as a form-encoded POST. Missing
// fields are read as empty strings.
func (h *WebhookHandler) URLVerify(c *fiber.Ctx) error {
	event := EventFromRequest(c)
	if h.Dispatcher == nil {
		glog.Ensure(h.Logger).Error("httpapi: no dispatcher configured", "event", event.Event)
		return sendText(c, fiber.StatusInternalServerError, core.ResponseInternalError)
	}

	result, err := h.Dispatcher.Dispatch(c.UserContext(), event)
	if err != nil {
		glog.Ensure(h.Logger).Debug("httpapi: delivery not accepted",
			"event", event.Event,
			"req_uuid", event.ReqUUID,
			"request_id", requestID(c),
			"status", result.StatusCode,
			"error", err,
		)
	}
	status := result.StatusCode
	body := result.Body
	if status == 0 {
		status = fiber.StatusInternalServerError
		body = core.ResponseInternalError
	}
	return sendText(c, status, body)
}

// EventFromRequest copies the form fields out of fiber's pooled buffers; the
// event may outlive the request.
func EventFromRequest(c *fiber.Ctx) core.WebhookEvent {
	field := func(name string) string {
		return utils.CopyString(c.FormValue(name))
	}
	return core.WebhookEvent{
		Event:     field(FieldEvent),
		ReqUUID:   field(FieldReqUUID),
		Repeat:    field(FieldRepeat),
		Timestamp: field(FieldTimestamp),
		Payload:   field(FieldPayload),
		Sign:      field(FieldSign),
	}
}
