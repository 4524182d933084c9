package erpclient

import (
	"context"

	"github.com/ironbridge-erp/ironbridge-erp/internal/workspace"
)

// Warehouses lists the warehouses available for goods receipt.
func (c *Client) Warehouses(ctx context.Context) ([]workspace.Warehouse, error) {
	return list[workspace.Warehouse](ctx, c, "/warehouses")
}
