package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/core"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/model"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/repository"
)

const DefaultNotifyTimeout = 5 * time.Second

// ValidationError reports a submitted field that is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

type Option func(*orderService)

// WithClock replaces the clock used to stamp new orders.
func WithClock(now func() time.Time) Option {
	return func(s *orderService) { s.now = now }
}

// WithNotifyTimeout bounds a single notification attempt.
func WithNotifyTimeout(d time.Duration) Option {
	return func(s *orderService) { s.notifyTimeout = d }
}

// WithAsyncNotify makes SubmitOrder return before the notification is delivered.
func WithAsyncNotify(async bool) Option {
	return func(s *orderService) { s.asyncNotify = async }
}

type orderService struct {
	orderRepo     repository.OrderRepository
	notifier      core.Notifier
	logger        *zap.Logger
	now           func() time.Time
	notifyTimeout time.Duration
	asyncNotify   bool
	inflight      sync.WaitGroup
}

func NewOrderService(
	repo repository.OrderRepository,
	notifier core.Notifier,
	logger *zap.Logger,
	opts ...Option,
) core.OrderService {
	s := &orderService{
		orderRepo:     repo,
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
		notifyTimeout: DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *orderService) SubmitOrder(ctx context.Context, form model.OrderForm) (*model.Order, error) {
	order, err := s.normalize(form)
	if err != nil {
		return nil, err
	}

	id, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}
	order.ID = id

	s.logger.Info("Order stored",
		zap.Int64("order_id", order.ID),
		zap.Int("bread", order.Bread))

	s.notify(ctx, *order)

	return order, nil
}

func (s *orderService) normalize(form model.OrderForm) (*model.Order, error) {
	raw := strings.TrimSpace(form.Bread)
	if raw == "" {
		return nil, &ValidationError{Field: model.FieldBread, Reason: "is required"}
	}
	bread, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ValidationError{Field: model.FieldBread, Reason: "must be a whole number"}
	}

	return &model.Order{
		Bread:            bread,
		Sweets:           flag(form.Sweets),
		Bars:             flag(form.Bars),
		Choco:            flag(form.Choco),
		Fruits:           flag(form.Fruits),
		Vegetable:        flag(form.Vegetable),
		CollegeAvailable: flag(form.CollegeAvailable),
		Comments:         truncate(form.Comments, model.MaxCommentsLength),
		Timestamp:        s.now().Format(model.TimestampLayout),
	}, nil
}

func flag(value string) string {
	if value != "" {
		return model.Yes
	}
	return model.No
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

// notify delivers at most once and never reports failure to the caller.
func (s *orderService) notify(ctx context.Context, order model.Order) {
	send := func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
		defer cancel()

		if err := s.notifier.Notify(ctx, &order); err != nil {
			s.logger.Warn("Failed to send order notification",
				zap.Int64("order_id", order.ID),
				zap.Error(err))
			return
		}
		s.logger.Info("Order notification sent", zap.Int64("order_id", order.ID))
	}

	if !s.asyncNotify {
		send()
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		send()
	}()
}

func (s *orderService) ListOrders(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) RemoveOrder(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.orderRepo.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete order %d: %w", id, err)
	}

	if deleted {
		s.logger.Info("Order deleted", zap.Int64("order_id", id))
	} else {
		s.logger.Debug("Order to delete not found", zap.Int64("order_id", id))
	}

	return deleted, nil
}

func (s *orderService) Wait() {
	s.inflight.Wait()
}
