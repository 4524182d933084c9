package workspace

import (
	"net/url"
	"strings"
)

// StageKey identifies one of the five canonical workflow stages.
type StageKey string

const (
	StageCreatePO StageKey = "create_po"
	StageConfirm  StageKey = "confirm"
	StageGRN      StageKey = "grn"
	StageBill     StageKey = "bill"
	StagePayment  StageKey = "payment"
)

const (
	tooltipGRNGate     = "Confirm PO first"
	tooltipBillDrop    = "Confirm PO and deliver goods first"
	tooltipBillGRN     = "Receive goods (GRN) first"
	tooltipPaymentGate = "Create supplier bill first"
	tooltipDropshipGRN = "Dropship orders skip GRN unless customer rejects and goods are returned"
)

type stageDef struct {
	key           StageKey
	label         string
	dropshipLabel string
	segment       string
	completed     func(WorkflowFlags) bool
	enabled       func(WorkflowFlags) bool
	gateTooltip   func(isDropship bool) string
}

func alwaysEnabled(WorkflowFlags) bool { return true }

// stageTable order is a functional contract, not cosmetic: next-stage
// resolution is a first-match scan over this slice.
var stageTable = []stageDef{
	{
		key:       StageCreatePO,
		label:     "Create PO",
		segment:   "overview",
		completed: func(f WorkflowFlags) bool { return f.CreatePO },
		enabled:   alwaysEnabled,
	},
	{
		key:       StageConfirm,
		label:     "Confirm",
		segment:   "overview",
		completed: func(f WorkflowFlags) bool { return f.ConfirmComplete },
		enabled:   alwaysEnabled,
	},
	{
		key:           StageGRN,
		label:         "GRN",
		dropshipLabel: "Dropship - GRN (Optional)",
		segment:       "grn",
		completed:     func(f WorkflowFlags) bool { return f.GRNComplete },
		enabled:       func(f WorkflowFlags) bool { return f.GRNEnabled },
		gateTooltip:   func(bool) string { return tooltipGRNGate },
	},
	{
		key:       StageBill,
		label:     "Supplier Bill",
		segment:   "bills",
		completed: func(f WorkflowFlags) bool { return f.BillComplete },
		enabled:   func(f WorkflowFlags) bool { return f.BillEnabled },
		gateTooltip: func(isDropship bool) string {
			if isDropship {
				return tooltipBillDrop
			}
			return tooltipBillGRN
		},
	},
	{
		key:         StagePayment,
		label:       "Payment",
		segment:     "payments",
		completed:   func(f WorkflowFlags) bool { return f.PaymentComplete },
		enabled:     func(f WorkflowFlags) bool { return f.PaymentEnabled },
		gateTooltip: func(bool) string { return tooltipPaymentGate },
	},
}

// Route identifies the active workspace location. Confirm is a modal
// sub-state of the overview screen, disambiguated by the confirm query
// flag rather than a separate path.
type Route struct {
	Path    string
	Confirm bool
}

// RouteFromURL derives the Route from a request URL.
func RouteFromURL(u *url.URL) Route {
	return Route{Path: u.Path, Confirm: u.Query().Get("confirm") == "1"}
}

// StageState is the derived UI state of one workflow stage.
type StageState struct {
	Key       StageKey `json:"key"`
	Label     string   `json:"label"`
	Tooltip   string   `json:"tooltip,omitempty"`
	Completed bool     `json:"completed"`
	Enabled   bool     `json:"enabled"`
	Current   bool     `json:"current"`
	Next      bool     `json:"next"`
}

// Stages derives the full stepper state from a summary and the active
// route. It is a pure function: the summary is never mutated and the
// result is recomputed from scratch on every call.
func Stages(sum WorkflowSummary, route Route) []StageState {
	flags := sum.Flags()
	next, hasNext := NextStage(sum)
	out := make([]StageState, 0, len(stageTable))
	for _, def := range stageTable {
		st := StageState{
			Key:       def.key,
			Label:     def.label,
			Completed: def.completed(flags),
			Enabled:   def.enabled(flags),
			Current:   def.isCurrent(route),
			Next:      hasNext && def.key == next,
		}
		if flags.IsDropship && def.dropshipLabel != "" {
			st.Label = def.dropshipLabel
		}
		switch {
		case !st.Enabled && def.gateTooltip != nil:
			st.Tooltip = def.gateTooltip(flags.IsDropship)
		case flags.IsDropship && def.key == StageGRN && !st.Completed:
			// Informational, not blocking: dropship GRN only matters on
			// the goods-return path.
			st.Tooltip = tooltipDropshipGRN
		}
		out = append(out, st)
	}
	return out
}

func (d stageDef) isCurrent(route Route) bool {
	switch d.key {
	case StageConfirm:
		return strings.Contains(route.Path, "/overview") && route.Confirm
	case StageCreatePO:
		return strings.Contains(route.Path, "/overview") && !route.Confirm
	default:
		return strings.Contains(route.Path, "/"+d.segment)
	}
}

// NextStage scans the stage table in order and returns the first stage
// that is enabled but not completed. Dropship orders skip the GRN stage
// entirely; they move from confirm straight to billing. Returns false
// when the workflow is fully complete or blocked pending server action.
func NextStage(sum WorkflowSummary) (StageKey, bool) {
	flags := sum.Flags()
	for _, def := range stageTable {
		if flags.IsDropship && def.key == StageGRN {
			continue
		}
		if !def.completed(flags) && def.enabled(flags) {
			return def.key, true
		}
	}
	return "", false
}
