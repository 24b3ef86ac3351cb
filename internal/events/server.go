package events

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/jaredtewodros/recallBridge/internal/observability"
)

const sharedKeyHeader = "X-RB-Key"

// Server wires the callback routes onto a fiber app.
type Server struct {
	logger    *zap.Logger
	metrics   *observability.Metrics
	sharedKey string
}

// NewServer builds the events app. sharedKey is optional; when set,
// POSTs must carry it in the X-RB-Key header.
func NewServer(logger *zap.Logger, metrics *observability.Metrics, sharedKey string) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{logger: logger, metrics: metrics, sharedKey: sharedKey}

	app := fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})
	if metrics != nil {
		app.Use(metrics.HTTPMiddleware())
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	}
	app.Get("/livez", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	app.Post("/events", s.handleEvent)

	return app
}

func (s *Server) handleEvent(c *fiber.Ctx) error {
	if s.sharedKey != "" && c.Get(sharedKeyHeader) != s.sharedKey {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid shared key")
	}

	var payload Payload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid event payload")
	}

	event := Classify(payload)
	s.metrics.IncInboundEvent(event.Type.String())

	fields := []zap.Field{
		zap.String("type", event.Type.String()),
		zap.String("phone", event.Phone),
		zap.String("messageSid", event.MessageSID),
	}
	if event.Keyword != KeywordNone {
		fields = append(fields, zap.String("keyword", string(event.Keyword)))
	}
	if event.ListTag != "" {
		fields = append(fields, zap.String("listTag", event.ListTag))
	}
	if event.Status != "" {
		fields = append(fields, zap.String("deliveryStatus", event.Status))
	}
	if event.OccurredAt != nil {
		fields = append(fields, zap.Time("occurredAt", *event.OccurredAt))
	}
	s.logger.Info("callback event", fields...)

	return c.SendString("ok")
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	s.logger.Error("request error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", code),
		zap.Error(err),
	)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
