package contract

type RegistrationRequest struct {
	Company       string      `json:"company" form:"company" validate:"required,companyid"`
	Name          string      `json:"name" form:"name" validate:"required,max=255"`
	Email         string      `json:"email" form:"email" validate:"required,email,max=255"`
	Phone         string      `json:"phone" form:"phone" validate:"required,max=50"`
	ShareCount    LooseNumber `json:"share_count" form:"share_count"`
	PurchasePrice LooseNumber `json:"purchase_price" form:"purchase_price"`
	SellPrice     LooseNumber `json:"sell_price" form:"sell_price"`
	Loss          LooseNumber `json:"loss" form:"loss"`
	Remarks       string      `json:"remarks" form:"remarks" validate:"max=5000"`
}

// LegacyMemberRequest is the body of the historical ATOS form, which used
// short keys for the holding fields.
type LegacyMemberRequest struct {
	Name     string      `json:"name" form:"name"`
	Email    string      `json:"email" form:"email"`
	Phone    string      `json:"phone" form:"phone"`
	Stock    LooseNumber `json:"stock" form:"stock"`
	Purchase LooseNumber `json:"purchase" form:"purchase"`
	Sell     LooseNumber `json:"sell" form:"sell"`
	Loss     LooseNumber `json:"loss" form:"loss"`
	Remarks  string      `json:"remarks" form:"remarks"`
}

func (l *LegacyMemberRequest) ToRegistration(company string) *RegistrationRequest {
	return &RegistrationRequest{
		Company:       company,
		Name:          l.Name,
		Email:         l.Email,
		Phone:         l.Phone,
		ShareCount:    l.Stock,
		PurchasePrice: l.Purchase,
		SellPrice:     l.Sell,
		Loss:          l.Loss,
		Remarks:       l.Remarks,
	}
}

// Origin is where a submission came from, as seen by the transport.
type Origin struct {
	IPAddress string
}

type StatsResponse struct {
	Company            string `json:"company"`
	CompanyName        string `json:"company_name"`
	TotalShares        int64  `json:"total_shares"`
	ShareholderCount   int64  `json:"shareholder_count"`
	TotalParticipation string `json:"total_participation"`
}

type RegistrationResponse struct {
	ID      int64          `json:"id"`
	Message string         `json:"message"`
	Stats   *StatsResponse `json:"stats"`
	// AdjustedFields lists optional numeric fields whose value could not be
	// read and was stored as 0.
	AdjustedFields []string `json:"adjusted_fields,omitempty"`
}

type FormFieldResponse struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
}

type FormConfigResponse struct {
	Company        string               `json:"company"`
	CompanyName    string               `json:"company_name"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Fields         []*FormFieldResponse `json:"fields"`
	SubmitText     string               `json:"submit_text"`
	SuccessMessage string               `json:"success_message"`
	Open           bool                 `json:"open"`
}
