package channel

import (
	"context"
	"time"
)

// stubAdapter is a minimal Adapter used by registry tests.
type stubAdapter struct {
	code Code
}

func (s *stubAdapter) Channel() Code { return s.code }
func (s *stubAdapter) PageSize() int { return 100 }

func (s *stubAdapter) ListCatalogPage(context.Context, string) (*CatalogPage, error) {
	return &CatalogPage{Done: true}, nil
}

func (s *stubAdapter) SetInventory(context.Context, VariantKey, int) error {
	return nil
}

func (s *stubAdapter) ListChangedOrders(context.Context, time.Time, time.Time, *ChangeType) ([]ChangedOrder, error) {
	return nil, nil
}

func (s *stubAdapter) PerformClaimAction(context.Context, ClaimKind, ClaimAction, string, ActionParams) error {
	return nil
}
