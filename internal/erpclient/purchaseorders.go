package erpclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ironbridge-erp/ironbridge-erp/internal/workspace"
)

// WorkspaceSummary fetches the workflow snapshot for one purchase order.
// The response is the single source of truth for all stage derivation.
func (c *Client) WorkspaceSummary(ctx context.Context, poID int64) (workspace.WorkflowSummary, error) {
	var sum workspace.WorkflowSummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/purchase-orders/%d/workspace-summary", poID), nil, &sum)
	return sum, err
}

// ConfirmDispatch records the supplier dispatch of a dropship PO.
func (c *Client) ConfirmDispatch(ctx context.Context, poID int64, input workspace.DispatchInput) (*workspace.Dispatch, error) {
	var dispatch workspace.Dispatch
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/purchase-orders/%d/dispatch", poID), input, &dispatch); err != nil {
		return nil, err
	}
	return &dispatch, nil
}

// ReceiveToWarehouse books returned dropship goods into a warehouse.
func (c *Client) ReceiveToWarehouse(ctx context.Context, poID int64, sub workspace.ReceiveSubmission) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/purchase-orders/%d/receive", poID), sub, nil)
}
