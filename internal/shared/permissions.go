package shared

// Permission names recognised by the upstream role service.
const (
	PermPurchasingView = "purchasing.view"
	PermPurchasingEdit = "purchasing.edit"
)
