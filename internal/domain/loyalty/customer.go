package loyalty

import (
	"time"
)

// Customer is the per-customer stamp card. stampCount stays in
// [0, threshold-1]; reaching the threshold converts the stamps into one
// free item credit.
type Customer struct {
	id            string
	stampCount    int
	freeAvailable int
	lastScanAt    *time.Time
}

// Snapshot is the exported, persistable view of a Customer.
type Snapshot struct {
	ID            string
	StampCount    int
	FreeAvailable int
	LastScanAt    *time.Time
}

func NewCustomer(id string) (*Customer, error) {
	if id == "" {
		return nil, ErrInvalidCustomerID
	}
	return &Customer{id: id}, nil
}

// ReconstructCustomer rebuilds a customer loaded from storage.
func ReconstructCustomer(s Snapshot) (*Customer, error) {
	if s.ID == "" {
		return nil, ErrInvalidCustomerID
	}
	if s.StampCount < 0 || s.FreeAvailable < 0 {
		return nil, ErrCorruptState
	}
	var last *time.Time
	if s.LastScanAt != nil {
		t := *s.LastScanAt
		last = &t
	}
	return &Customer{
		id:            s.ID,
		stampCount:    s.StampCount,
		freeAvailable: s.FreeAvailable,
		lastScanAt:    last,
	}, nil
}

func (c *Customer) ID() string             { return c.id }
func (c *Customer) StampCount() int        { return c.stampCount }
func (c *Customer) FreeAvailable() int     { return c.freeAvailable }
func (c *Customer) LastScanAt() *time.Time { return c.lastScanAt }

func (c *Customer) Snapshot() Snapshot {
	s := Snapshot{
		ID:            c.id,
		StampCount:    c.stampCount,
		FreeAvailable: c.freeAvailable,
	}
	if c.lastScanAt != nil {
		t := *c.lastScanAt
		s.LastScanAt = &t
	}
	return s
}

// CooldownRemaining is how long the customer must wait before the next
// scan counts. Zero means a scan at now would be accepted.
func (c *Customer) CooldownRemaining(p Policy, now time.Time) time.Duration {
	if c.lastScanAt == nil {
		return 0
	}
	elapsed := now.Sub(*c.lastScanAt)
	if elapsed >= p.cooldown {
		return 0
	}
	return p.cooldown - elapsed
}

// StampsToReward is the number of counted scans left until the next credit.
func (c *Customer) StampsToReward(p Policy) int {
	return max(p.threshold-c.stampCount, 0)
}

// ApplyScan counts one scan at now. The reward fires on the scan that would
// bring stampCount to the threshold, so with threshold 5 the fifth scan
// earns a credit and resets the card. A rejected scan leaves c untouched.
func (c *Customer) ApplyScan(p Policy, now time.Time) (earnedReward bool, err error) {
	if c.CooldownRemaining(p, now) > 0 {
		return false, ErrRateLimited
	}

	if c.stampCount+1 >= p.threshold {
		c.stampCount = 0
		c.freeAvailable++
		earnedReward = true
	} else {
		c.stampCount++
	}

	scannedAt := now
	c.lastScanAt = &scannedAt
	return earnedReward, nil
}

// Redeem consumes one free item credit.
func (c *Customer) Redeem() error {
	if c.freeAvailable <= 0 {
		return ErrNoFreeDrinks
	}
	c.freeAvailable--
	return nil
}
