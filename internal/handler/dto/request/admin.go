package request

type AdminSessionRequest struct {
	Key string `json:"key" binding:"required"`
}
