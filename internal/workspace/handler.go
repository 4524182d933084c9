package workspace

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/ironbridge-erp/ironbridge-erp/internal/platform/httpx"
	"github.com/ironbridge-erp/ironbridge-erp/internal/rbac"
	"github.com/ironbridge-erp/ironbridge-erp/internal/shared"
)

// Service is the slice of the upstream ERP consumed by the workspace.
type Service interface {
	SummaryProvider
	ConfirmDispatch(ctx context.Context, poID int64, input DispatchInput) (*Dispatch, error)
	ReceiveToWarehouse(ctx context.Context, poID int64, sub ReceiveSubmission) error
	GRNs(ctx context.Context, poID int64) ([]GRN, error)
	GRN(ctx context.Context, poID, grnID int64) (GRNDetail, error)
	Bills(ctx context.Context, poID int64) ([]Bill, error)
	Bill(ctx context.Context, poID, billID int64) (BillDetail, error)
	Payments(ctx context.Context, poID int64) ([]Payment, error)
	Payment(ctx context.Context, poID, paymentID int64) (PaymentDetail, error)
}

// WarehouseLookup supplies warehouses for the receive form.
type WarehouseLookup interface {
	List(ctx context.Context) ([]Warehouse, error)
}

// Handler manages the purchase-order workspace endpoints.
type Handler struct {
	logger     *slog.Logger
	erp        Service
	warehouses WarehouseLookup
	rbac       rbac.Middleware
	validator  *validator.Validate

	mu         sync.Mutex
	containers map[int64]*Container
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, erp Service, warehouses WarehouseLookup, rbacMW rbac.Middleware) *Handler {
	return &Handler{
		logger:     logger,
		erp:        erp,
		warehouses: warehouses,
		rbac:       rbacMW,
		validator:  validator.New(),
		containers: make(map[int64]*Container),
	}
}

// MountRoutes registers workspace routes under the PO base path.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermPurchasingView))
		r.Get("/overview", h.overview)
		r.Get("/grn", h.listGRNs)
		r.Get("/grn/{grnID}", h.showGRN)
		r.Get("/bills", h.listBills)
		r.Get("/bills/{billID}", h.showBill)
		r.Get("/payments", h.listPayments)
		r.Get("/payments/{paymentID}", h.showPayment)
		r.Get("/dispatch", h.showDispatch)
		r.Get("/receive", h.showReceive)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPurchasingEdit))
		r.Post("/dispatch", h.confirmDispatch)
		r.Post("/receive", h.receiveToWarehouse)
	})
}

// container returns the state container bound to a purchase order,
// creating one on first use. Containers never cross PO boundaries.
func (h *Handler) container(poID int64) *Container {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.containers[poID]
	if !ok {
		c = NewContainer(h.erp)
		h.containers[poID] = c
	}
	return c
}

// workspaceState fetches a fresh summary snapshot for the request.
func (h *Handler) workspaceState(ctx context.Context, poID int64) State {
	c := h.container(poID)
	c.Bind(ctx, poID)
	return c.Snapshot()
}

func (h *Handler) poID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "poID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown purchase order")
		return 0, false
	}
	return id, true
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	state := h.workspaceState(r.Context(), poID)
	if state.Err != "" {
		httpx.Problem(w, http.StatusBadGateway, "Workspace Unavailable", state.Err)
		return
	}
	httpx.JSON(w, http.StatusOK, BuildOverview(state, RouteFromURL(r.URL)))
}

func (h *Handler) listGRNs(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	items, err := h.erp.GRNs(r.Context(), poID)
	if err != nil {
		h.logger.Error("list GRNs", slog.Any("error", err), slog.Int64("po_id", poID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) showGRN(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	grnID, _ := strconv.ParseInt(chi.URLParam(r, "grnID"), 10, 64)
	detail, err := h.erp.GRN(r.Context(), poID, grnID)
	if err != nil {
		h.logger.Error("show GRN", slog.Any("error", err), slog.Int64("grn_id", grnID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	items, err := h.erp.Bills(r.Context(), poID)
	if err != nil {
		h.logger.Error("list bills", slog.Any("error", err), slog.Int64("po_id", poID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) showBill(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	billID, _ := strconv.ParseInt(chi.URLParam(r, "billID"), 10, 64)
	detail, err := h.erp.Bill(r.Context(), poID, billID)
	if err != nil {
		h.logger.Error("show bill", slog.Any("error", err), slog.Int64("bill_id", billID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	items, err := h.erp.Payments(r.Context(), poID)
	if err != nil {
		h.logger.Error("list payments", slog.Any("error", err), slog.Int64("po_id", poID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) showPayment(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	paymentID, _ := strconv.ParseInt(chi.URLParam(r, "paymentID"), 10, 64)
	detail, err := h.erp.Payment(r.Context(), poID, paymentID)
	if err != nil {
		h.logger.Error("show payment", slog.Any("error", err), slog.Int64("payment_id", paymentID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) showDispatch(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	state := h.workspaceState(r.Context(), poID)
	if state.Err != "" || state.Summary == nil {
		httpx.Problem(w, http.StatusBadGateway, "Workspace Unavailable", state.Err)
		return
	}
	httpx.JSON(w, http.StatusOK, BuildDispatchView(*state.Summary))
}

func (h *Handler) confirmDispatch(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	var input DispatchInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body must be valid JSON")
		return
	}
	if err := ValidateDispatchInput(h.validator, input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	state := h.workspaceState(r.Context(), poID)
	if state.Err != "" || state.Summary == nil {
		httpx.Problem(w, http.StatusBadGateway, "Workspace Unavailable", state.Err)
		return
	}
	view := BuildDispatchView(*state.Summary)
	if !view.Applicable {
		httpx.Problem(w, http.StatusConflict, "Dispatch Not Allowed", "not a dropship purchase order")
		return
	}
	if view.Confirmed {
		httpx.Problem(w, http.StatusConflict, "Dispatch Not Allowed", "dispatch already confirmed")
		return
	}
	if !view.FormEnabled {
		httpx.Problem(w, http.StatusConflict, "Dispatch Not Allowed", view.DisabledReason)
		return
	}
	dispatch, err := h.erp.ConfirmDispatch(r.Context(), poID, input)
	if err != nil {
		h.logger.Error("confirm dispatch", slog.Any("error", err), slog.Int64("po_id", poID))
		httpx.RespondError(w, err)
		return
	}
	h.container(poID).Refresh(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok", "dispatch": dispatch})
}

func (h *Handler) showReceive(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	var (
		state State
		whs   []Warehouse
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		state = h.workspaceState(ctx, poID)
		return nil
	})
	g.Go(func() error {
		var err error
		whs, err = h.warehouses.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("load warehouses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if state.Err != "" || state.Summary == nil {
		httpx.Problem(w, http.StatusBadGateway, "Workspace Unavailable", state.Err)
		return
	}
	allowed, reason := ReceiveGate(*state.Summary)
	vm := ReceiveViewModel{Allowed: allowed, Reason: reason}
	if allowed {
		vm.Items = state.Summary.Items
		vm.Warehouses = whs
	}
	httpx.JSON(w, http.StatusOK, vm)
}

func (h *Handler) receiveToWarehouse(w http.ResponseWriter, r *http.Request) {
	poID, ok := h.poID(w, r)
	if !ok {
		return
	}
	var input ReceiveInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body must be valid JSON")
		return
	}
	state := h.workspaceState(r.Context(), poID)
	if state.Err != "" || state.Summary == nil {
		httpx.Problem(w, http.StatusBadGateway, "Workspace Unavailable", state.Err)
		return
	}
	if allowed, reason := ReceiveGate(*state.Summary); !allowed {
		httpx.Problem(w, http.StatusConflict, "Receive Not Allowed", reason)
		return
	}
	if err := ValidateReceiveInput(h.validator, input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	lines, err := BuildReceiveLines(state.Summary.Items, input.Quantities)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	sub := ReceiveSubmission{
		Items:       lines,
		WarehouseID: input.WarehouseID,
		Reason:      input.Reason,
		Notes:       input.Notes,
	}
	if err := h.erp.ReceiveToWarehouse(r.Context(), poID, sub); err != nil {
		h.logger.Error("receive to warehouse", slog.Any("error", err), slog.Int64("po_id", poID))
		httpx.RespondError(w, err)
		return
	}
	h.container(poID).Refresh(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok", "redirect": "overview"})
}
