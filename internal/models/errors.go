package models

import "errors"

// Error taxonomy shared by the store, service and API layers. Lower layers
// wrap these with fmt.Errorf("...: %w", err); the API layer matches with
// errors.Is to pick an HTTP status.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTableOccupied     = errors.New("table already has an active order")
	ErrOrderNotEditable  = errors.New("order is no longer editable")
	ErrValidation        = errors.New("validation failed")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
