package workspace

import "time"

// Purchase order lifecycle statuses reported by the upstream ERP.
type POStatus string

const (
	POStatusDraft     POStatus = "draft"
	POStatusPending   POStatus = "pending"
	POStatusConfirmed POStatus = "confirmed"
	POStatusApproved  POStatus = "approved"
	POStatusReceived  POStatus = "received"
	POStatusCompleted POStatus = "completed"
	POStatusCancelled POStatus = "cancelled"
)

// StockInWarehouse marks goods that already completed warehouse receipt.
const StockInWarehouse = "in_warehouse"

// PurchaseOrder is the PO header inside a workflow summary.
type PurchaseOrder struct {
	ID           int64    `json:"id"`
	PONumber     string   `json:"po_number"`
	SupplierName string   `json:"supplier_name"`
	Status       POStatus `json:"status"`
	StockStatus  string   `json:"stock_status,omitempty"`
}

// WorkflowFlags is the server-computed flag bag driving stage gating.
type WorkflowFlags struct {
	IsDropship       bool `json:"isDropship"`
	CreatePO         bool `json:"createPo"`
	ConfirmComplete  bool `json:"confirmComplete"`
	GRNEnabled       bool `json:"grnEnabled"`
	GRNComplete      bool `json:"grnComplete"`
	BillEnabled      bool `json:"billEnabled"`
	BillComplete     bool `json:"billComplete"`
	PaymentEnabled   bool `json:"paymentEnabled"`
	PaymentComplete  bool `json:"paymentComplete"`
	DispatchEnabled  bool `json:"dispatchEnabled"`
	DispatchComplete bool `json:"dispatchComplete"`
	IsFullyPaid      bool `json:"isFullyPaid"`
}

// Dispatch records the supplier dispatch confirmation of a dropship PO.
type Dispatch struct {
	Confirmed       bool       `json:"confirmed"`
	DispatchDate    string     `json:"dispatch_date"`
	Carrier         string     `json:"carrier,omitempty"`
	TrackingNo      string     `json:"tracking_no,omitempty"`
	DeliveryNoteRef string     `json:"delivery_note_ref,omitempty"`
	Remarks         string     `json:"remarks,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
}

// GRN is a goods receipt note preview row.
type GRN struct {
	ID         int64  `json:"id"`
	Number     string `json:"number"`
	Status     string `json:"status"`
	ReceivedAt string `json:"received_at,omitempty"`
}

// Bill is a supplier bill preview row.
type Bill struct {
	ID      int64   `json:"id"`
	Number  string  `json:"number"`
	Status  string  `json:"status"`
	Total   float64 `json:"total"`
	DueDate string  `json:"due_date,omitempty"`
}

// Payment is a supplier payment preview row.
type Payment struct {
	ID     int64   `json:"id"`
	Number string  `json:"number"`
	Amount float64 `json:"amount"`
	PaidAt string  `json:"paid_at,omitempty"`
}

// GRNSummary aggregates goods receipts against the PO.
type GRNSummary struct {
	Count   int   `json:"count"`
	Preview []GRN `json:"preview,omitempty"`
}

// BillSummary aggregates supplier bills against the PO.
type BillSummary struct {
	Count       int     `json:"count"`
	Preview     []Bill  `json:"preview,omitempty"`
	TotalBilled float64 `json:"total_billed"`
}

// PaymentSummary aggregates payments against the PO's bills.
type PaymentSummary struct {
	Count     int       `json:"count"`
	Preview   []Payment `json:"preview,omitempty"`
	TotalPaid float64   `json:"total_paid"`
}

// LineItem is a PO line with movement quantities, used by the
// receive-to-warehouse stage.
type LineItem struct {
	ItemID        int64   `json:"item_id"`
	ProductName   string  `json:"product_name"`
	OrderedQty    float64 `json:"ordered_qty"`
	DispatchedQty float64 `json:"dispatched_qty"`
	ReceivedQty   float64 `json:"received_qty"`
}

// WorkflowSummary is the server snapshot of a purchase order's workflow
// state. It is replaced wholesale on every refresh, never patched.
type WorkflowSummary struct {
	PO       PurchaseOrder  `json:"po"`
	Workflow *WorkflowFlags `json:"workflow"`
	Dispatch *Dispatch      `json:"dispatch,omitempty"`
	GRNs     GRNSummary     `json:"grns"`
	Bills    BillSummary    `json:"bills"`
	Payments PaymentSummary `json:"payments"`
	Items    []LineItem     `json:"items,omitempty"`
}

// Flags returns the workflow flag bag. A summary without one reads as
// all flags false so stage derivation never panics on partial input.
func (s WorkflowSummary) Flags() WorkflowFlags {
	if s.Workflow == nil {
		return WorkflowFlags{}
	}
	return *s.Workflow
}

// Warehouse is a warehouse lookup row for the receive form.
type Warehouse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// GRNDetail is the full goods receipt view behind a preview row.
type GRNDetail struct {
	GRN
	WarehouseName string          `json:"warehouse_name,omitempty"`
	Note          string          `json:"note,omitempty"`
	Lines         []GRNDetailLine `json:"lines,omitempty"`
}

// GRNDetailLine is one received line on a goods receipt.
type GRNDetailLine struct {
	ProductName string  `json:"product_name"`
	Qty         float64 `json:"qty"`
	UnitCost    float64 `json:"unit_cost"`
}

// BillDetail is the full supplier bill view behind a preview row.
type BillDetail struct {
	Bill
	Currency string  `json:"currency,omitempty"`
	TaxTotal float64 `json:"tax_total,omitempty"`
	Note     string  `json:"note,omitempty"`
}

// PaymentDetail is the full payment view behind a preview row.
type PaymentDetail struct {
	Payment
	Method    string `json:"method,omitempty"`
	Reference string `json:"reference,omitempty"`
	Note      string `json:"note,omitempty"`
}
