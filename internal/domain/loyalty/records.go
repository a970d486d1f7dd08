package loyalty

import "time"

// ScanRecord and RedemptionRecord are append-only audit entries.
type ScanRecord struct {
	CustomerID string
	StoreID    string
	ScannedAt  time.Time
}

type RedemptionRecord struct {
	CustomerID string
	StoreID    string
	RedeemedAt time.Time
}
