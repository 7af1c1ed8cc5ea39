package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/channelbridge/backend/internal/domain/channel"
	"go.uber.org/zap"
)

// DefaultChangeWindow is the trailing window polled when the caller gives no
// explicit range.
const DefaultChangeWindow = 24 * time.Hour

// OrderService polls a channel's changed-orders feed. It is a pure read path:
// nothing it returns is persisted, and polling twice returns overlapping data
// rather than consuming it.
type OrderService struct {
	registry *channel.Registry
	window   time.Duration
	logger   *zap.Logger
}

// NewOrderService creates an OrderService. window <= 0 falls back to
// DefaultChangeWindow.
func NewOrderService(registry *channel.Registry, window time.Duration, logger *zap.Logger) *OrderService {
	if window <= 0 {
		window = DefaultChangeWindow
	}
	return &OrderService{registry: registry, window: window, logger: logger}
}

// ListChanges returns orders whose status changed inside the window. A nil
// from/to falls back to the configured trailing window ending now. A nil
// changeType returns every change type.
func (s *OrderService) ListChanges(ctx context.Context, code channel.Code, from, to *time.Time, changeType *channel.ChangeType) (*OrderChangesResult, error) {
	adapter, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	if to != nil {
		end = *to
	}
	start := end.Add(-s.window)
	if from != nil {
		start = *from
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: from %s is after to %s", channel.ErrInvalidWindow, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if changeType != nil && !changeType.IsValid() {
		return nil, fmt.Errorf("%w: %q", channel.ErrInvalidChangeType, changeType.String())
	}

	orders, err := adapter.ListChangedOrders(ctx, start, end, changeType)
	if err != nil {
		return nil, fmt.Errorf("sync: list changed orders for %s: %w", code, err)
	}

	s.logger.Debug("changed orders polled",
		zap.String("channel", code.String()),
		zap.Time("from", start),
		zap.Time("to", end),
		zap.Int("count", len(orders)))
	return &OrderChangesResult{Channel: code, From: start, To: end, Orders: orders}, nil
}
