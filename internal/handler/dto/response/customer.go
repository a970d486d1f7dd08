package response

import (
	"time"

	"coffee-loyalty/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type CustomerResponse struct {
	ID               string     `json:"id"`
	StampCount       int        `json:"stamp_count"`
	FreeAvailable    int        `json:"free_available"`
	LastScanAt       *time.Time `json:"last_scan_at"`
	Threshold        int        `json:"threshold"`
	StampsToReward   int        `json:"stamps_to_reward"`
	TotalScans       int        `json:"total_scans"`
	TotalRedemptions int        `json:"total_redemptions"`
}

type CustomerEnvelope struct {
	Customer *CustomerResponse `json:"customer"`
}

func FromCustomerView(v *queries.CustomerView) (*CustomerResponse, error) {
	var res CustomerResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}
