package workspace

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ironbridge-erp/ironbridge-erp/internal/shared"
)

// ReceiveInput carries the receive-to-warehouse form. Quantities are
// keyed by PO line item id.
type ReceiveInput struct {
	WarehouseID int64             `json:"warehouse_id" validate:"required,gt=0"`
	Reason      string            `json:"reason" validate:"required"`
	Notes       string            `json:"notes"`
	Quantities  map[int64]float64 `json:"quantities"`
}

// ReceiveLine is one accepted line of a receive submission.
type ReceiveLine struct {
	ItemID   int64   `json:"item_id"`
	Quantity float64 `json:"quantity"`
}

// ReceiveSubmission is the payload sent to the upstream receive endpoint.
type ReceiveSubmission struct {
	Items       []ReceiveLine `json:"items"`
	WarehouseID int64         `json:"warehouse_id"`
	Reason      string        `json:"reason"`
	Notes       string        `json:"notes,omitempty"`
}

// ReceiveGate reports whether the return-to-warehouse flow is available.
// It only applies to dropship orders whose goods already left the
// supplier and are not sitting in a warehouse yet.
func ReceiveGate(sum WorkflowSummary) (bool, string) {
	flags := sum.Flags()
	switch {
	case !flags.IsDropship:
		return false, "Receiving to warehouse only applies to dropship orders."
	case !flags.DispatchComplete:
		return false, "Goods must be dispatched before they can be received back."
	case sum.PO.StockStatus == StockInWarehouse:
		return false, "Goods are already in the warehouse."
	}
	return true, ""
}

// ValidateReceiveInput checks warehouse and reason before any upstream call.
func ValidateReceiveInput(v *validator.Validate, input ReceiveInput) error {
	if err := v.Struct(input); err != nil {
		return fmt.Errorf("%w: warehouse and reason are required", shared.ErrValidation)
	}
	return nil
}

// BuildReceiveLines clamps submitted quantities to [0, dispatched_qty]
// per line and drops non-positive lines. At least one line must survive.
func BuildReceiveLines(items []LineItem, quantities map[int64]float64) ([]ReceiveLine, error) {
	lines := make([]ReceiveLine, 0, len(items))
	for _, item := range items {
		qty := ClampQuantity(quantities[item.ItemID], item.DispatchedQty)
		if qty <= 0 {
			continue
		}
		lines = append(lines, ReceiveLine{ItemID: item.ItemID, Quantity: qty})
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: at least one item must have a quantity greater than 0", shared.ErrValidation)
	}
	return lines, nil
}

// ClampQuantity bounds a requested quantity to what was actually dispatched.
func ClampQuantity(requested, dispatched float64) float64 {
	if requested < 0 {
		return 0
	}
	if requested > dispatched {
		return dispatched
	}
	return requested
}
