package workspace

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// OverviewViewModel is the JSON shape of the workspace overview screen.
type OverviewViewModel struct {
	Summary     *WorkflowSummary `json:"summary,omitempty"`
	Stages      []StageState     `json:"stages,omitempty"`
	NextAction  *NextAction      `json:"next_action,omitempty"`
	Complete    bool             `json:"complete"`
	TotalBilled string           `json:"total_billed,omitempty"`
	TotalPaid   string           `json:"total_paid,omitempty"`
	Loading     bool             `json:"loading"`
	Err         string           `json:"error,omitempty"`
}

// ReceiveViewModel is the JSON shape of the receive-to-warehouse screen.
// When the gate fails only Reason is populated; the form is not rendered.
type ReceiveViewModel struct {
	Allowed    bool        `json:"allowed"`
	Reason     string      `json:"reason,omitempty"`
	Items      []LineItem  `json:"items,omitempty"`
	Warehouses []Warehouse `json:"warehouses,omitempty"`
}

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders a monetary amount with grouping separators.
func FormatMoney(v float64) string {
	return moneyPrinter.Sprintf("%.2f", v)
}

// BuildOverview assembles the overview viewmodel from the container
// state and the active route. Derived state is recomputed from scratch
// on every call; nothing is cached between renders.
func BuildOverview(state State, route Route) OverviewViewModel {
	vm := OverviewViewModel{Loading: state.Loading, Err: state.Err}
	if state.Summary == nil {
		return vm
	}
	sum := *state.Summary
	vm.Summary = state.Summary
	vm.Stages = Stages(sum, route)
	vm.NextAction = ResolveNextAction(sum)
	vm.Complete = vm.NextAction == nil
	vm.TotalBilled = FormatMoney(sum.Bills.TotalBilled)
	vm.TotalPaid = FormatMoney(sum.Payments.TotalPaid)
	return vm
}
