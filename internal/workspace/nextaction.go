package workspace

// NextAction is the single most relevant follow-up, rendered as the
// workspace header call-to-action.
type NextAction struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

// ResolveNextAction derives the call-to-action from raw summary counts.
// It is deliberately coarser than the stage model and does not consult
// the grn/bill gate flags: the stepper and the CTA button encode
// different product intents and are computed independently.
func ResolveNextAction(sum WorkflowSummary) *NextAction {
	flags := sum.Flags()
	switch {
	case !flags.ConfirmComplete:
		return &NextAction{Label: "Confirm PO", Route: "overview?confirm=1"}
	case flags.IsDropship && !flags.DispatchComplete:
		return &NextAction{Label: "Confirm Dispatch", Route: "dispatch"}
	case !flags.IsDropship && sum.GRNs.Count == 0:
		return &NextAction{Label: "Create GRN", Route: "grn"}
	case sum.Bills.Count == 0:
		return &NextAction{Label: "Create Supplier Bill", Route: "bills"}
	case !flags.IsFullyPaid:
		return &NextAction{Label: "Record Payment", Route: "payments"}
	}
	return nil
}
