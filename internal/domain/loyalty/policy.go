package loyalty

import "time"

const (
	DefaultThreshold = 5
	DefaultCooldown  = 10 * time.Minute
)

// Policy fixes the reward threshold and the minimum interval between two
// counted scans of the same customer.
type Policy struct {
	threshold int
	cooldown  time.Duration
}

func NewPolicy(threshold int, cooldown time.Duration) (Policy, error) {
	if threshold < 1 {
		return Policy{}, ErrInvalidPolicy
	}
	if cooldown < 0 {
		return Policy{}, ErrInvalidPolicy
	}
	return Policy{threshold: threshold, cooldown: cooldown}, nil
}

func DefaultPolicy() Policy {
	return Policy{threshold: DefaultThreshold, cooldown: DefaultCooldown}
}

func (p Policy) Threshold() int          { return p.threshold }
func (p Policy) Cooldown() time.Duration { return p.cooldown }
