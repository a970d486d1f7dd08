package usecase

import (
	"fmt"

	"coffee-loyalty/internal/pkg/password"
)

// StaffGate checks the shared staff PIN that authorizes redemptions.
type StaffGate interface {
	Authorize(pin string) bool
}

type staffGateImpl struct {
	pinHash string
}

func NewStaffGate(pin string) (StaffGate, error) {
	return NewStaffGateWithCost(pin, password.DefaultCost)
}

func NewStaffGateWithCost(pin string, cost int) (StaffGate, error) {
	hash, err := password.HashSecretWithCost(pin, cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash staff pin: %w", err)
	}
	return &staffGateImpl{pinHash: hash}, nil
}

func (g *staffGateImpl) Authorize(pin string) bool {
	if pin == "" {
		return false
	}
	return password.CompareSecret(g.pinHash, pin) == nil
}
