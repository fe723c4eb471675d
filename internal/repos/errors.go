package repos

import "errors"

var (
	// ErrSKUConflict means another variant already owns the SKU.
	ErrSKUConflict = errors.New("sku already in use")
	// ErrVariantInUse blocks deleting catalog rows that historical orders
	// still reference.
	ErrVariantInUse = errors.New("variant referenced by orders")
)
