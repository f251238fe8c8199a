package contract

type BulkEmailRequest struct {
	Subject string  `json:"subject" validate:"required,max=255"`
	Message string  `json:"message" validate:"required,max=100000"`
	IDs     []int64 `json:"ids" validate:"omitempty,max=5000,dive,gt=0"`
}

type BulkEmailResponse struct {
	Targeted int `json:"targeted"`
	Sent     int `json:"sent"`
	Failed   int `json:"failed"`
}
