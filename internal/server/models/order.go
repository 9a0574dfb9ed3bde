package models

// OrderRec is a paid purchase of a package, keyed by (owner, order id).
// Credited flips false→true exactly once when the order's duration is moved
// into the owner's time balances; it never reverses.
type OrderRec struct {
	PackageID uint32 `json:"package_id"`
	Credited  bool   `json:"credited"`
}

// UserPackage is the read-model row returned by GetUserPackages: one entry
// per order in purchase order.
type UserPackage struct {
	OrderID   uint64 `json:"order_id"`
	PackageID uint32 `json:"package_id"`
	Credited  bool   `json:"credited"`
}
