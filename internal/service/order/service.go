package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/businessday"
	"github.com/Additional-Code/orderdesk/internal/cache"
	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/entity"
	"github.com/Additional-Code/orderdesk/internal/messaging"
	repo "github.com/Additional-Code/orderdesk/internal/repository/order"
	"github.com/Additional-Code/orderdesk/pkg/errorbank"
)

//go:generate mockgen -destination=mock_store_test.go -package=order github.com/Additional-Code/orderdesk/internal/repository/order Store

// User-facing messages returned with 4xx/5xx responses.
const (
	MsgRetrieveFailed = "An error occurred while retrieving orders."
	MsgCreateFailed   = "An error occurred while creating the order."
	MsgFieldsRequired = "Order name and description are required."
	MsgFieldsTooLong  = "Order name and description must be at most 100 characters."
	MsgInvalidDays    = "The number of days must be greater than zero."
	MsgOrderNotFound  = "Order not found."
)

// MaxTextLength bounds name and description, counted in UTF-16 code units.
const MaxTextLength = 100

var (
	serviceTracer = otel.Tracer("github.com/Additional-Code/orderdesk/service/order")
	serviceMeter  = otel.Meter("github.com/Additional-Code/orderdesk/service/order")
)

// Service encapsulates business logic around orders.
type Service struct {
	store     repo.Store
	calc      *businessday.Calculator
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
	now       func() time.Time
	created   metric.Int64Counter
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Store      repo.Store
	Calculator *businessday.Calculator
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
	Clock      func() time.Time `optional:"true"`
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	now := p.Clock
	if now == nil {
		now = time.Now
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	calc := p.Calculator
	if calc == nil {
		calc = businessday.NewCalculator(nil)
	}

	created, err := serviceMeter.Int64Counter("orders.created",
		metric.WithDescription("Number of orders created"),
	)
	if err != nil {
		logger.Warn("orders.created counter unavailable", zap.Error(err))
	}

	return &Service{
		store:     p.Store,
		calc:      calc,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
		now:     now,
		created: created,
	}
}

// Recent returns live orders entered during the last 24 hours, newest first.
func (s *Service) Recent(ctx context.Context) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Recent")
	defer span.End()

	orders, err := s.store.Recent(ctx, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal(MsgRetrieveFailed, errorbank.WithCause(err))
	}
	return orders, nil
}

// WithinBusinessDays returns live orders entered within the last days business days.
func (s *Service) WithinBusinessDays(ctx context.Context, days int) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.WithinBusinessDays", trace.WithAttributes(attribute.Int("orders.business_days", days)))
	defer span.End()

	cutoff, err := s.calc.Cutoff(s.now(), days)
	if err != nil {
		if errors.Is(err, businessday.ErrInvalidArgument) {
			return nil, errorbank.BadRequest(MsgInvalidDays, errorbank.WithCause(err), errorbank.WithDetail("days", days))
		}
		return nil, errorbank.Internal(MsgRetrieveFailed, errorbank.WithCause(err))
	}
	span.SetAttributes(attribute.String("orders.cutoff", cutoff.Format(time.RFC3339)))

	orders, err := s.store.WithinCutoff(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal(MsgRetrieveFailed, errorbank.WithCause(err))
	}
	return orders, nil
}

// CreateInput carries the caller-supplied fields of a new order.
type CreateInput struct {
	Name        string
	Description string
	IsInvoiced  bool
}

// Validate checks the required fields and their length limits.
func (in CreateInput) Validate() error {
	if in.Name == "" || in.Description == "" {
		return errorbank.BadRequest(MsgFieldsRequired)
	}
	if codeUnits(in.Name) > MaxTextLength || codeUnits(in.Description) > MaxTextLength {
		return errorbank.BadRequest(MsgFieldsTooLong, errorbank.WithDetail("max_length", MaxTextLength))
	}
	return nil
}

// Create persists a new order and refreshes cache state.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	order := entity.NewOrder(in.Name, in.Description)
	order.EntryDate = s.now().UTC()
	invoiced := in.IsInvoiced
	order.IsInvoiced = &invoiced

	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.String("order.id", order.ID.String())))
	defer span.End()

	if _, err := s.store.Add(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal(MsgCreateFailed, errorbank.WithCause(err))
	}

	if s.created != nil {
		s.created.Add(ctx, 1)
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.Stringer("id", order.ID), zap.Error(err))
	}

	s.publishOrderCreated(ctx, order)
	return order, nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.Stringer("id", id), zap.Error(err))
	}

	order, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound(MsgOrderNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, errorbank.Internal(MsgRetrieveFailed, errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.Stringer("id", id), zap.Error(err))
	}

	return order, nil
}

func (s *Service) publishOrderCreated(ctx context.Context, order *entity.Order) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := OrderCreatedEvent{
		ID:          order.ID,
		Name:        order.Name,
		Description: order.Description,
		IsInvoiced:  order.IsInvoiced,
		EntryDate:   order.EntryDate,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order created", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte("order-"+order.ID.String()), payload); err != nil {
		s.logger.Error("publish order created", zap.String("topic", s.messaging.topic), zap.Error(err))
	}
}

func (s *Service) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("orders:%s", id)
}

func (s *Service) getFromCache(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}

func codeUnits(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// OrderCreatedEvent is emitted when a new order is persisted.
type OrderCreatedEvent struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsInvoiced  *bool     `json:"isInvoiced"`
	EntryDate   time.Time `json:"entryDate"`
}
