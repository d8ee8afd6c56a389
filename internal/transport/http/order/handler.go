package order

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/dto"
	"github.com/Additional-Code/orderdesk/internal/entity"
	"github.com/Additional-Code/orderdesk/internal/presentation/http/response"
	service "github.com/Additional-Code/orderdesk/internal/service/order"
	"github.com/Additional-Code/orderdesk/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/orderdesk/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register routes with provided Echo group.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.GET("/recent", h.recent)
	g.POST("/create", h.create)
	g.GET("/businessdays/:days", h.withinBusinessDays)
	g.GET("/:id", h.getByID)
}

func (h *Handler) recent(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.recent")
	defer span.End()

	orders, err := h.svc.Recent(ctx)
	if err != nil {
		h.logger.Error("An error occurred while getting recent orders.", zap.Error(err))
		return b.WithError(err).Build()
	}

	return b.WithData(toDTOs(orders)).WithMeta("count", len(orders)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateOrderRequest
	if err := c.Bind(&payload); err != nil {
		h.logger.Warn("Invalid create order request.", zap.Error(err))
		return b.WithError(errorbank.BadRequest(service.MsgFieldsRequired, errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	defer span.End()

	order, err := h.svc.Create(ctx, service.CreateInput{
		Name:        payload.Name,
		Description: payload.Description,
		IsInvoiced:  payload.IsInvoiced,
	})
	if err != nil {
		if errorbank.From(err).Kind() == errorbank.KindBadRequest {
			h.logger.Warn("Invalid create order request.", zap.Error(err))
		} else {
			h.logger.Error("An error occurred while creating a new order.", zap.Error(err))
		}
		return b.WithError(err).Build()
	}

	span.SetAttributes(attribute.String("order.id", order.ID.String()))
	h.logger.Info("Order created successfully.", zap.Stringer("id", order.ID))

	return b.WithStatus(http.StatusCreated).
		WithHeader(echo.HeaderLocation, "/orders/"+order.ID.String()).
		WithData(toDTO(order)).
		Build()
}

func (h *Handler) withinBusinessDays(c echo.Context) error {
	b := response.New(c)

	days, err := strconv.Atoi(c.Param("days"))
	if err != nil || days <= 0 {
		h.logger.Warn("Invalid number of days provided.", zap.String("days", c.Param("days")))
		return b.WithError(errorbank.BadRequest(service.MsgInvalidDays)).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.withinBusinessDays", trace.WithAttributes(attribute.Int("orders.business_days", days)))
	defer span.End()

	orders, err := h.svc.WithinBusinessDays(ctx, days)
	if err != nil {
		h.logger.Error("An error occurred while getting orders within business days.", zap.Int("days", days), zap.Error(err))
		return b.WithError(err).Build()
	}

	return b.WithData(toDTOs(orders)).WithMeta("count", len(orders)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func toDTO(order *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:          order.ID,
		EntryDate:   order.EntryDate,
		Name:        order.Name,
		Description: order.Description,
		IsInvoiced:  order.IsInvoiced,
		IsDeleted:   order.IsDeleted,
	}
}

func toDTOs(orders []entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return out
}
