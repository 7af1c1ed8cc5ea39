package sync

import (
	"context"
	"fmt"

	"github.com/channelbridge/backend/internal/domain/channel"
	"go.uber.org/zap"
)

// ClaimService executes claim actions (approve, reject, hold, collect, ...)
// against a channel. The legality of the action for the claim kind and the
// presence of required parameters are checked locally before the platform is
// contacted; an illegal request never leaves the process.
type ClaimService struct {
	registry *channel.Registry
	logger   *zap.Logger
}

// NewClaimService creates a ClaimService.
func NewClaimService(registry *channel.Registry, logger *zap.Logger) *ClaimService {
	return &ClaimService{registry: registry, logger: logger}
}

// PerformAction validates and executes one claim action on one product order.
func (s *ClaimService) PerformAction(ctx context.Context, code channel.Code, kind channel.ClaimKind, action channel.ClaimAction, productOrderID string, params channel.ActionParams) (*ClaimActionResult, error) {
	adapter, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	if productOrderID == "" {
		return nil, fmt.Errorf("%w: product order id", channel.ErrMissingActionParams)
	}
	if err := channel.ValidateClaimAction(kind, action, params); err != nil {
		return nil, err
	}

	if err := adapter.PerformClaimAction(ctx, kind, action, productOrderID, params); err != nil {
		return nil, fmt.Errorf("sync: %s %s on %s: %w", action, kind, code, err)
	}

	s.logger.Info("claim action executed",
		zap.String("channel", code.String()),
		zap.String("kind", kind.String()),
		zap.String("action", action.String()),
		zap.String("product_order_id", productOrderID))
	return &ClaimActionResult{Channel: code, ProductOrderID: productOrderID, Kind: kind, Action: action}, nil
}
