package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ironbridge-erp/ironbridge-erp/internal/rbac"
	"github.com/ironbridge-erp/ironbridge-erp/internal/shared"
)

type stubERP struct {
	summary      WorkflowSummary
	summaryErr   error
	summaryCalls int

	dispatched []DispatchInput
	received   []ReceiveSubmission

	grns     []GRN
	bills    []Bill
	payments []Payment
}

func (s *stubERP) WorkspaceSummary(ctx context.Context, poID int64) (WorkflowSummary, error) {
	s.summaryCalls++
	if s.summaryErr != nil {
		return WorkflowSummary{}, s.summaryErr
	}
	return s.summary, nil
}

func (s *stubERP) ConfirmDispatch(ctx context.Context, poID int64, input DispatchInput) (*Dispatch, error) {
	s.dispatched = append(s.dispatched, input)
	return &Dispatch{Confirmed: true, DispatchDate: input.DispatchDate, Carrier: input.Carrier}, nil
}

func (s *stubERP) ReceiveToWarehouse(ctx context.Context, poID int64, sub ReceiveSubmission) error {
	s.received = append(s.received, sub)
	return nil
}

func (s *stubERP) GRNs(ctx context.Context, poID int64) ([]GRN, error) { return s.grns, nil }

func (s *stubERP) GRN(ctx context.Context, poID, grnID int64) (GRNDetail, error) {
	return GRNDetail{GRN: GRN{ID: grnID, Number: "GRN-1"}}, nil
}

func (s *stubERP) Bills(ctx context.Context, poID int64) ([]Bill, error) { return s.bills, nil }

func (s *stubERP) Bill(ctx context.Context, poID, billID int64) (BillDetail, error) {
	return BillDetail{Bill: Bill{ID: billID, Number: "BILL-1"}}, nil
}

func (s *stubERP) Payments(ctx context.Context, poID int64) ([]Payment, error) {
	return s.payments, nil
}

func (s *stubERP) Payment(ctx context.Context, poID, paymentID int64) (PaymentDetail, error) {
	return PaymentDetail{Payment: Payment{ID: paymentID, Number: "PAY-1"}}, nil
}

type stubWarehouses struct {
	items []Warehouse
	err   error
}

func (s *stubWarehouses) List(ctx context.Context) ([]Warehouse, error) {
	return s.items, s.err
}

type stubPermissions struct {
	granted []string
	err     error
}

func (s *stubPermissions) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	return s.granted, s.err
}

func newTestRouter(t *testing.T, erp *stubERP, perms []string) (http.Handler, *stubWarehouses) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	warehouses := &stubWarehouses{items: []Warehouse{{ID: 3, Code: "WH-A", Name: "Jebel Ali Yard"}}}
	mw := rbac.Middleware{Source: &stubPermissions{granted: perms}, Logger: logger}
	h := NewHandler(logger, erp, warehouses, mw)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithActor(req.Context(), 42)))
		})
	})
	r.Route("/purchases/po/{poID}", h.MountRoutes)
	return r, warehouses
}

func allPerms() []string {
	return []string{shared.PermPurchasingView, shared.PermPurchasingEdit}
}

func TestOverviewEndpoint(t *testing.T) {
	erp := &stubERP{summary: WorkflowSummary{
		PO:       PurchaseOrder{ID: 7, PONumber: "PO-7", SupplierName: "Baosteel Trading"},
		Workflow: &WorkflowFlags{CreatePO: true},
		Bills:    BillSummary{Count: 1, TotalBilled: 125000.5},
	}}
	router, _ := newTestRouter(t, erp, allPerms())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/purchases/po/7/overview", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var vm OverviewViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	require.Len(t, vm.Stages, 5)
	require.NotNil(t, vm.NextAction)
	require.Equal(t, "Confirm PO", vm.NextAction.Label)
	require.Equal(t, "125,000.50", vm.TotalBilled)

	createPO := vm.Stages[0]
	require.Equal(t, StageCreatePO, createPO.Key)
	require.True(t, createPO.Current)
}

func TestOverviewConfirmQueryFlagActivatesConfirmStage(t *testing.T) {
	erp := &stubERP{summary: summaryWithFlags(WorkflowFlags{CreatePO: true})}
	router, _ := newTestRouter(t, erp, allPerms())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/purchases/po/7/overview?confirm=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var vm OverviewViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	require.True(t, stageByKey(t, vm.Stages, StageConfirm).Current)
	require.False(t, stageByKey(t, vm.Stages, StageCreatePO).Current)
}

func TestOverviewUpstreamFailureBlocksBody(t *testing.T) {
	erp := &stubERP{summaryErr: &upstreamErr{detail: "summary service down"}}
	router, _ := newTestRouter(t, erp, allPerms())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/purchases/po/7/overview", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "summary service down")
}

func TestWorkspaceRequiresViewPermission(t *testing.T) {
	erp := &stubERP{summary: summaryWithFlags(WorkflowFlags{CreatePO: true})}
	router, _ := newTestRouter(t, erp, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/purchases/po/7/overview", nil))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Zero(t, erp.summaryCalls)
}

func TestConfirmDispatchFlow(t *testing.T) {
	erp := &stubERP{summary: summaryWithFlags(WorkflowFlags{
		IsDropship:      true,
		CreatePO:        true,
		ConfirmComplete: true,
		DispatchEnabled: true,
	})}
	router, _ := newTestRouter(t, erp, allPerms())

	body, _ := json.Marshal(DispatchInput{DispatchDate: "2026-03-14", Carrier: "DHL Freight", TrackingNo: "TRK-99"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/purchases/po/7/dispatch", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, erp.dispatched, 1)
	require.Equal(t, "2026-03-14", erp.dispatched[0].DispatchDate)
	// One fetch to gate the request, one refresh after the mutation.
	require.Equal(t, 2, erp.summaryCalls)
}

func TestConfirmDispatchRejectsMissingDate(t *testing.T) {
	erp := &stubERP{summary: summaryWithFlags(WorkflowFlags{IsDropship: true, DispatchEnabled: true})}
	router, _ := newTestRouter(t, erp, allPerms())

	body, _ := json.Marshal(DispatchInput{Carrier: "DHL Freight"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/purchases/po/7/dispatch", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, erp.dispatched)
	// Validation failures never reach the network.
	require.Zero(t, erp.summaryCalls)
}

func TestConfirmDispatchBlockedBeforeConfirmation(t *testing.T) {
	erp := &stubERP{summary: summaryWithFlags(WorkflowFlags{IsDropship: true})}
	router, _ := newTestRouter(t, erp, allPerms())

	body, _ := json.Marshal(DispatchInput{DispatchDate: "2026-03-14"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/purchases/po/7/dispatch", bytes.NewReader(body)))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "Confirm the PO with the supplier before dispatching.")
	require.Empty(t, erp.dispatched)
}

func TestReceiveViewGateFailure(t *testing.T) {
	erp := &stubERP{summary: summaryWithFlags(WorkflowFlags{ConfirmComplete: true})}
	router, _ := newTestRouter(t, erp, allPerms())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/purchases/po/7/receive", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var vm ReceiveViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	require.False(t, vm.Allowed)
	require.NotEmpty(t, vm.Reason)
	require.Empty(t, vm.Warehouses)
	require.Empty(t, vm.Items)
}

func TestReceiveSubmissionClampsQuantities(t *testing.T) {
	sum := summaryWithFlags(WorkflowFlags{IsDropship: true, DispatchComplete: true})
	sum.Items = []LineItem{
		{ItemID: 1, ProductName: "HRC Coil 3mm", DispatchedQty: 10},
		{ItemID: 2, ProductName: "Rebar 12mm", DispatchedQty: 4},
	}
	erp := &stubERP{summary: sum}
	router, _ := newTestRouter(t, erp, allPerms())

	body, _ := json.Marshal(ReceiveInput{
		WarehouseID: 3,
		Reason:      "customer rejected delivery",
		Quantities:  map[int64]float64{1: 15, 2: -3},
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/purchases/po/7/receive", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"redirect":"overview"`)
	require.Len(t, erp.received, 1)
	require.Equal(t, []ReceiveLine{{ItemID: 1, Quantity: 10}}, erp.received[0].Items)
	require.Equal(t, int64(3), erp.received[0].WarehouseID)
}

func TestReceiveSubmissionRejectsAllZero(t *testing.T) {
	sum := summaryWithFlags(WorkflowFlags{IsDropship: true, DispatchComplete: true})
	sum.Items = []LineItem{{ItemID: 1, DispatchedQty: 10}}
	erp := &stubERP{summary: sum}
	router, _ := newTestRouter(t, erp, allPerms())

	body, _ := json.Marshal(ReceiveInput{
		WarehouseID: 3,
		Reason:      "customer rejected delivery",
		Quantities:  map[int64]float64{1: 0},
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/purchases/po/7/receive", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "at least one item must have a quantity greater than 0")
	require.Empty(t, erp.received)
}

func TestDocumentPassthroughs(t *testing.T) {
	erp := &stubERP{
		grns:  []GRN{{ID: 1, Number: "GRN-1", Status: "POSTED"}},
		bills: []Bill{{ID: 2, Number: "BILL-2", Total: 900}},
	}
	router, _ := newTestRouter(t, erp, allPerms())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/purchases/po/7/grn", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "GRN-1")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/purchases/po/7/bills/2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "BILL-1")
}
