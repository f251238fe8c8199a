package contract

type ShareholderResponse struct {
	ID            int64  `json:"id"`
	Company       string `json:"company"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	ShareCount    int64  `json:"share_count"`
	PurchasePrice string `json:"purchase_price"`
	SellPrice     string `json:"sell_price"`
	Loss          string `json:"loss"`
	Participation string `json:"participation"`
	IPAddress     string `json:"ip_address"`
	Country       string `json:"country"`
	Remarks       string `json:"remarks"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// ListShareholdersRequest is read from the query string. Page is 1-based.
type ListShareholdersRequest struct {
	Search  string `query:"search"`
	OrderBy string `query:"orderby"`
	Order   string `query:"order"`
	PerPage int    `query:"per_page"`
	Page    int    `query:"page"`
}

type ListShareholdersResponse struct {
	Shareholders []*ShareholderResponse `json:"shareholders"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	PerPage      int                    `json:"per_page"`
	TotalPages   int                    `json:"total_pages"`
}

// UpdateShareholderRequest only carries the editable fields; absent ones are left as they are.
type UpdateShareholderRequest struct {
	Name          *string      `json:"name" validate:"omitnil,notblank,max=255"`
	Email         *string      `json:"email" validate:"omitnil,notblank,email,max=255"`
	Phone         *string      `json:"phone" validate:"omitnil,notblank,max=50"`
	ShareCount    *LooseNumber `json:"share_count"`
	PurchasePrice *LooseNumber `json:"purchase_price"`
	SellPrice     *LooseNumber `json:"sell_price"`
	Loss          *LooseNumber `json:"loss"`
	Remarks       *string      `json:"remarks" validate:"omitnil,max=5000"`
}

type BulkDeleteRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,max=1000,dive,gt=0"`
}

type BulkDeleteResponse struct {
	Requested int   `json:"requested"`
	Deleted   int64 `json:"deleted"`
}

type CompaniesResponse struct {
	Companies []string `json:"companies"`
	Supported []string `json:"supported"`
}

type CompanyStatsResponse struct {
	Companies          []*StatsResponse `json:"companies"`
	TotalShares        int64            `json:"total_shares"`
	ShareholderCount   int64            `json:"shareholder_count"`
	TotalParticipation string           `json:"total_participation"`
}
