package workspace

import (
	"context"
	"sync"

	"github.com/ironbridge-erp/ironbridge-erp/internal/shared"
)

// SummaryProvider loads workspace summaries from the upstream ERP.
type SummaryProvider interface {
	WorkspaceSummary(ctx context.Context, poID int64) (WorkflowSummary, error)
}

// Container owns the fetch/refresh lifecycle of one purchase order's
// workflow summary: the latest snapshot, a loading flag, and the last
// fetch error as a user-safe message.
type Container struct {
	provider SummaryProvider

	mu      sync.Mutex
	poID    int64
	summary *WorkflowSummary
	loading bool
	errMsg  string
}

// State is a point-in-time view of the container.
type State struct {
	Summary *WorkflowSummary
	Loading bool
	Err     string
}

// NewContainer builds an unbound container. Loading starts false so an
// id-less workspace never shows an infinite spinner.
func NewContainer(provider SummaryProvider) *Container {
	return &Container{provider: provider}
}

// Bind points the container at a purchase order and fetches its summary.
// Rebinding to a different id discards the previous snapshot. A zero id
// clears the binding without fetching.
func (c *Container) Bind(ctx context.Context, poID int64) {
	c.mu.Lock()
	if c.poID != poID {
		c.summary = nil
		c.errMsg = ""
	}
	c.poID = poID
	c.mu.Unlock()
	if poID == 0 {
		return
	}
	c.fetch(ctx, poID)
}

// Refresh re-fetches the summary for the bound purchase order. Called
// after every successful stage mutation so derived state recomputes
// against fresh server truth.
func (c *Container) Refresh(ctx context.Context) {
	c.mu.Lock()
	poID := c.poID
	c.mu.Unlock()
	if poID == 0 {
		return
	}
	c.fetch(ctx, poID)
}

// Snapshot returns the current container state.
func (c *Container) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Summary: c.summary, Loading: c.loading, Err: c.errMsg}
}

// fetch runs the upstream call outside the lock. Concurrent fetches are
// not de-duplicated: whichever response lands last wins. Every stored
// summary is a complete server snapshot, so a stale winner is consistent,
// merely older. Request-generation tokens would tighten this if rapid
// concurrent refreshes ever become a real access pattern.
func (c *Container) fetch(ctx context.Context, poID int64) {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	sum, err := c.provider.WorkspaceSummary(ctx, poID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if c.poID != poID {
		// The container was rebound mid-flight; drop the stale response.
		return
	}
	if err != nil {
		c.errMsg = shared.UserSafeMessage(err)
		return
	}
	c.summary = &sum
}
