package service

import (
	"context"
	"errors"
	"time"

	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/domain/database/repository"
	"classaction/cmd/internal/domain/entity"
	"classaction/cmd/internal/domain/events"
	"classaction/cmd/internal/domain/registry"
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type CountryResolver interface {
	Country(ctx context.Context, ip string) (string, error)
}

// DefaultIntakeService handles public registrations: validation, duplicate
// check, persistence, then a RegistrationReceived event for the mailers.
type DefaultIntakeService struct {
	Repo     ShareholderRepository
	Guard    *Guard
	Registry *registry.Registry
	Events   *events.Bus
	Now      utils.Clock

	// Geo is optional; without it every country is Unknown.
	Geo        CountryResolver
	GeoTimeout time.Duration

	DefaultCompany string
	DuplicateCheck bool
}

func NewIntakeService(
	repo ShareholderRepository,
	guard *Guard,
	reg *registry.Registry,
	bus *events.Bus,
	defaultCompany string,
) *DefaultIntakeService {
	return &DefaultIntakeService{
		Repo:           repo,
		Guard:          guard,
		Registry:       reg,
		Events:         bus,
		Now:            utils.NowUTC,
		GeoTimeout:     2 * time.Second,
		DefaultCompany: defaultCompany,
		DuplicateCheck: true,
	}
}

func (s *DefaultIntakeService) Submit(ctx context.Context, req *contract.RegistrationRequest, origin contract.Origin) (*contract.RegistrationResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Company = utils.NormalizeCompany(req.Company)
	if req.Company == "" {
		req.Company = s.DefaultCompany
	}
	req.Email = utils.NormalizeEmail(req.Email)

	if se := s.Guard.ValidateSubmission(req); se != nil {
		return nil, se
	}

	if s.DuplicateCheck {
		if apierr := s.Guard.CheckDuplicate(ctx, req.Email, req.Phone, req.Company, 0); apierr != nil {
			return nil, apierr
		}
	}

	record, adjusted := prepareRecord(req)
	record.IPAddress = origin.IPAddress
	if record.IPAddress == "" {
		record.IPAddress = entity.UnknownProvenance
	}
	record.Country = s.resolveCountry(ctx, record.IPAddress)

	now := s.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	// the unique indexes still catch what the check above races with
	err := s.Repo.Insert(ctx, record)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apierror.DuplicateError
	}
	if err != nil {
		log.Errorf("failed to save registration for %s: %v", record.Company, err)
		return nil, apierror.InternalServerError
	}

	snapshot := *record
	s.Events.Publish(ctx, &events.RegistrationReceived{Record: &snapshot})

	resp := &contract.RegistrationResponse{
		ID:             record.ID,
		Message:        s.Registry.Profile(record.Company).SuccessMessage,
		AdjustedFields: adjusted,
	}

	stats, err := s.Repo.Stats(ctx, record.Company)
	if err != nil {
		// the registration itself is safe, only the totals are missing
		log.Errorf("failed to compute statistics of %s after registration #%d: %v", record.Company, record.ID, err)
		return resp, nil
	}
	resp.Stats = toStatsResponse(stats, s.Registry.DisplayName(record.Company))
	return resp, nil
}

func (s *DefaultIntakeService) resolveCountry(ctx context.Context, ip string) string {
	if s.Geo == nil || ip == entity.UnknownProvenance {
		return entity.UnknownProvenance
	}

	if s.GeoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.GeoTimeout)
		defer cancel()
	}

	country, err := s.Geo.Country(ctx, ip)
	if err != nil || country == "" {
		log.Debugf("country lookup for %s failed: %v", ip, err)
		return entity.UnknownProvenance
	}
	return country
}

// prepareRecord coerces the optional numeric fields. Unreadable values
// become 0 and are reported back instead of failing the submission.
func prepareRecord(req *contract.RegistrationRequest) (*entity.Shareholder, []string) {
	var adjusted []string

	shares, ok := req.ShareCount.Int()
	if !ok {
		adjusted = append(adjusted, "share_count")
	}
	purchase, ok := req.PurchasePrice.Amount()
	if !ok {
		adjusted = append(adjusted, "purchase_price")
	}
	sell, ok := req.SellPrice.Amount()
	if !ok {
		adjusted = append(adjusted, "sell_price")
	}
	loss, ok := req.Loss.Amount()
	if !ok {
		adjusted = append(adjusted, "loss")
	}

	return &entity.Shareholder{
		Company:       req.Company,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		ShareCount:    shares,
		PurchasePrice: purchase,
		SellPrice:     sell,
		Loss:          loss,
		Remarks:       req.Remarks,
	}, adjusted
}
