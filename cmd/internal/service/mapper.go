package service

import (
	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/domain/database/repository"
	"classaction/cmd/internal/domain/entity"
	"classaction/cmd/internal/utils"
)

func toShareholderResponse(r *entity.Shareholder) *contract.ShareholderResponse {
	return &contract.ShareholderResponse{
		ID:            r.ID,
		Company:       r.Company,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		ShareCount:    r.ShareCount,
		PurchasePrice: r.PurchasePrice.StringFixed(2),
		SellPrice:     r.SellPrice.StringFixed(2),
		Loss:          r.Loss.StringFixed(2),
		Participation: r.Participation().StringFixed(2),
		IPAddress:     r.IPAddress,
		Country:       r.Country,
		Remarks:       r.Remarks,
		CreatedAt:     utils.FormatEpoch(r.CreatedAt),
		UpdatedAt:     utils.FormatEpoch(r.UpdatedAt),
	}
}

func toStatsResponse(s *repository.ShareholderStats, displayName string) *contract.StatsResponse {
	return &contract.StatsResponse{
		Company:            s.Company,
		CompanyName:        displayName,
		TotalShares:        s.Shares,
		ShareholderCount:   s.Shareholders,
		TotalParticipation: s.Participation.StringFixed(2),
	}
}
