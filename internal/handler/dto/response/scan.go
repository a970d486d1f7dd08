package response

type ScanResponse struct {
	Customer     *CustomerResponse `json:"customer"`
	EarnedReward bool              `json:"earned_reward"`
	Message      string            `json:"message"`
}
