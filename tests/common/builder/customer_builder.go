//go:build unit || e2e

package builder

import (
	"time"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/usecase/queries"

	"github.com/google/uuid"
)

type CustomerBuilder struct {
	ID            string
	StampCount    int
	FreeAvailable int
	LastScanAt    *time.Time
}

func NewCustomerBuilder() *CustomerBuilder {
	return &CustomerBuilder{
		ID: uuid.NewString(),
	}
}

func (b *CustomerBuilder) With(mutate func(*CustomerBuilder)) *CustomerBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *CustomerBuilder) BuildSnapshot() loyalty.Snapshot {
	return loyalty.Snapshot{
		ID:            b.ID,
		StampCount:    b.StampCount,
		FreeAvailable: b.FreeAvailable,
		LastScanAt:    b.LastScanAt,
	}
}

func (b *CustomerBuilder) BuildDomain() (*loyalty.Customer, error) {
	return loyalty.ReconstructCustomer(b.BuildSnapshot())
}

func (b *CustomerBuilder) BuildView(p loyalty.Policy) *queries.CustomerView {
	return &queries.CustomerView{
		ID:             b.ID,
		StampCount:     b.StampCount,
		FreeAvailable:  b.FreeAvailable,
		LastScanAt:     b.LastScanAt,
		Threshold:      p.Threshold(),
		StampsToReward: max(p.Threshold()-b.StampCount, 0),
	}
}

// Fluent builder methods
func (b *CustomerBuilder) WithID(id string) *CustomerBuilder {
	b.ID = id
	return b
}

func (b *CustomerBuilder) WithStamps(n int) *CustomerBuilder {
	b.StampCount = n
	return b
}

func (b *CustomerBuilder) WithFreeAvailable(n int) *CustomerBuilder {
	b.FreeAvailable = n
	return b
}

func (b *CustomerBuilder) ScannedAt(t time.Time) *CustomerBuilder {
	b.LastScanAt = &t
	return b
}
