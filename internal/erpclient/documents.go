package erpclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ironbridge-erp/ironbridge-erp/internal/workspace"
)

// GRNs lists goods receipts recorded against a purchase order.
func (c *Client) GRNs(ctx context.Context, poID int64) ([]workspace.GRN, error) {
	return list[workspace.GRN](ctx, c, fmt.Sprintf("/purchase-orders/%d/grns", poID))
}

// GRN fetches one goods receipt.
func (c *Client) GRN(ctx context.Context, poID, grnID int64) (workspace.GRNDetail, error) {
	var detail workspace.GRNDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/purchase-orders/%d/grns/%d", poID, grnID), nil, &detail)
	return detail, err
}

// Bills lists supplier bills recorded against a purchase order.
func (c *Client) Bills(ctx context.Context, poID int64) ([]workspace.Bill, error) {
	return list[workspace.Bill](ctx, c, fmt.Sprintf("/purchase-orders/%d/bills", poID))
}

// Bill fetches one supplier bill.
func (c *Client) Bill(ctx context.Context, poID, billID int64) (workspace.BillDetail, error) {
	var detail workspace.BillDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/purchase-orders/%d/bills/%d", poID, billID), nil, &detail)
	return detail, err
}

// Payments lists payments recorded against a purchase order's bills.
func (c *Client) Payments(ctx context.Context, poID int64) ([]workspace.Payment, error) {
	return list[workspace.Payment](ctx, c, fmt.Sprintf("/purchase-orders/%d/payments", poID))
}

// Payment fetches one payment.
func (c *Client) Payment(ctx context.Context, poID, paymentID int64) (workspace.PaymentDetail, error) {
	var detail workspace.PaymentDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/purchase-orders/%d/payments/%d", poID, paymentID), nil, &detail)
	return detail, err
}
