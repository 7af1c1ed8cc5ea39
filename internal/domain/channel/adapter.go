package channel

import (
	"context"
	"fmt"
	"time"
)

// Adapter is the port interface every marketplace platform implements once.
// It translates the uniform capability set into platform-specific HTTP calls,
// handling platform auth and response parsing. Adapters know nothing about
// local storage and never retry; retry policy belongs to the orchestrating
// service so backoff is applied uniformly across platforms.
//
// Concrete implementations (Naver, Coupang, Cafe24) live in the
// infrastructure layer and are injected at construction time.
type Adapter interface {
	// Channel returns the platform this adapter talks to.
	Channel() Code

	// ListCatalogPage fetches one page of the full catalog. pageToken starts
	// at the adapter's initial value (empty string); the returned page carries
	// the cursor for the next call. Page size is adapter-fixed. Ordering is
	// not deterministic between runs.
	ListCatalogPage(ctx context.Context, pageToken string) (*CatalogPage, error)

	// PageSize reports the adapter-fixed page size, used by callers for the
	// short-page termination heuristic.
	PageSize() int

	// SetInventory writes a target quantity to the remote platform. The call
	// mutates remote state and must be issued at most once per logical
	// request; it is idempotent at the platform, so caller-driven retries are
	// safe to repeat.
	SetInventory(ctx context.Context, key VariantKey, quantity int) error

	// ListChangedOrders returns orders whose status changed inside [from, to],
	// optionally filtered by change type. Pure read.
	ListChangedOrders(ctx context.Context, from, to time.Time, changeType *ChangeType) ([]ChangedOrder, error)

	// PerformClaimAction advances the remote claim state. The platform is the
	// sole authority on whether the claim's current state permits the action;
	// an illegal transition comes back as a *PlatformError, never silently
	// ignored.
	PerformClaimAction(ctx context.Context, kind ClaimKind, action ClaimAction, productOrderID string, params ActionParams) error
}

// Registry holds the configured adapters, selected by channel code at
// construction time rather than resolved by string lookup at call time.
type Registry struct {
	adapters map[Code]Adapter
}

// NewRegistry builds a registry from the given adapters. Registering two
// adapters for the same channel is a wiring bug and panics at startup.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[Code]Adapter, len(adapters))}
	for _, a := range adapters {
		if _, dup := r.adapters[a.Channel()]; dup {
			panic(fmt.Sprintf("channel: duplicate adapter for %s", a.Channel()))
		}
		r.adapters[a.Channel()] = a
	}
	return r
}

// Get returns the adapter for the given channel code.
func (r *Registry) Get(code Code) (Adapter, error) {
	a, ok := r.adapters[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotConfigured, code)
	}
	return a, nil
}

// Codes lists the configured channels.
func (r *Registry) Codes() []Code {
	codes := make([]Code, 0, len(r.adapters))
	for c := range r.adapters {
		codes = append(codes, c)
	}
	return codes
}
