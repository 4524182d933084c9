package workspace

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ironbridge-erp/ironbridge-erp/internal/shared"
)

// DispatchDisabledMessage is shown while the PO still awaits supplier
// confirmation.
const DispatchDisabledMessage = "Confirm the PO with the supplier before dispatching."

// DispatchInput carries the dispatch confirmation form.
type DispatchInput struct {
	DispatchDate    string `json:"dispatch_date" validate:"required"`
	Carrier         string `json:"carrier"`
	TrackingNo      string `json:"tracking_no"`
	DeliveryNoteRef string `json:"delivery_note_ref"`
	Remarks         string `json:"remarks"`
}

// DispatchView describes what the dispatch screen should render.
type DispatchView struct {
	Applicable     bool      `json:"applicable"`
	Confirmed      bool      `json:"confirmed"`
	Dispatch       *Dispatch `json:"dispatch,omitempty"`
	FormEnabled    bool      `json:"form_enabled"`
	DisabledReason string    `json:"disabled_reason,omitempty"`
}

// BuildDispatchView derives the dispatch screen state. The stage only
// exists on the dropship branch; once confirmed it renders read-only.
func BuildDispatchView(sum WorkflowSummary) DispatchView {
	flags := sum.Flags()
	view := DispatchView{Applicable: flags.IsDropship}
	if !view.Applicable {
		return view
	}
	if sum.Dispatch != nil && sum.Dispatch.Confirmed {
		view.Confirmed = true
		view.Dispatch = sum.Dispatch
		return view
	}
	if flags.DispatchEnabled {
		view.FormEnabled = true
	} else {
		view.DisabledReason = DispatchDisabledMessage
	}
	return view
}

// ValidateDispatchInput checks the form before any upstream call is made.
func ValidateDispatchInput(v *validator.Validate, input DispatchInput) error {
	if err := v.Struct(input); err != nil {
		return fmt.Errorf("%w: dispatch date is required", shared.ErrValidation)
	}
	return nil
}
