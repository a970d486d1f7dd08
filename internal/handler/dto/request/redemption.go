package request

type RedeemRequest struct {
	Pin string `json:"pin" binding:"required,max=72"`
}
