package service

import (
	"context"
	"errors"

	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/domain/database/repository"
	"classaction/cmd/internal/domain/entity"
	"classaction/cmd/internal/domain/events"
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type ShareholderRepository interface {
	Insert(ctx context.Context, record *entity.Shareholder) error
	FindMany(ctx context.Context, filter repository.ShareholderFilter) ([]*entity.Shareholder, int64, error)
	FindAll(ctx context.Context, filter repository.ShareholderFilter) ([]*entity.Shareholder, error)
	FindByID(ctx context.Context, id int64, company string) (*entity.Shareholder, error)
	FindByIDs(ctx context.Context, ids []int64, company string) ([]*entity.Shareholder, error)
	Update(ctx context.Context, id int64, company string, changes *repository.ShareholderChanges) (bool, error)
	Delete(ctx context.Context, id int64, company string) (bool, error)
	DeleteMany(ctx context.Context, ids []int64, company string) (int64, error)
	Stats(ctx context.Context, company string) (*repository.ShareholderStats, error)
	StatsByCompany(ctx context.Context) ([]*repository.ShareholderStats, error)
	FindDuplicate(ctx context.Context, email, phone, company string, excludeID int64) (int64, error)
	ListCompanies(ctx context.Context) ([]string, error)
}

// DefaultShareholderService backs the administrative record screens.
type DefaultShareholderService struct {
	Repo     ShareholderRepository
	Guard    *Guard
	Validate *validator.Validate
	Events   *events.Bus
	Now      utils.Clock

	DefaultPageSize int
	MaxPageSize     int
}

func NewShareholderService(
	repo ShareholderRepository,
	guard *Guard,
	validate *validator.Validate,
	bus *events.Bus,
) *DefaultShareholderService {
	return &DefaultShareholderService{
		Repo:            repo,
		Guard:           guard,
		Validate:        validate,
		Events:          bus,
		Now:             utils.NowUTC,
		DefaultPageSize: 25,
		MaxPageSize:     200,
	}
}

func (s *DefaultShareholderService) ListShareholders(ctx context.Context, company string, req *contract.ListShareholdersRequest) (*contract.ListShareholdersResponse, apierror.ErrorResponse) {
	company, apierr := s.Guard.CheckCompanyID(company)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = s.DefaultPageSize
	}
	if perPage > s.MaxPageSize {
		perPage = s.MaxPageSize
	}
	page := max(req.Page, 1)

	records, total, err := s.Repo.FindMany(ctx, repository.ShareholderFilter{
		Company:   company,
		Search:    req.Search,
		SortField: req.OrderBy,
		SortDir:   req.Order,
		Limit:     perPage,
		Offset:    (page - 1) * perPage,
	})
	if err != nil {
		log.Errorf("failed to list shareholders of %s: %v", company, err)
		return nil, apierror.InternalServerError
	}

	resp := &contract.ListShareholdersResponse{
		Shareholders: make([]*contract.ShareholderResponse, len(records)),
		Total:        total,
		Page:         page,
		PerPage:      perPage,
		TotalPages:   int((total + int64(perPage) - 1) / int64(perPage)),
	}
	for i, r := range records {
		resp.Shareholders[i] = toShareholderResponse(r)
	}
	return resp, nil
}

func (s *DefaultShareholderService) GetShareholder(ctx context.Context, company string, id int64) (*contract.ShareholderResponse, apierror.ErrorResponse) {
	record, apierr := s.find(ctx, company, id)
	if apierr != nil {
		return nil, apierr
	}
	return toShareholderResponse(record), nil
}

// UpdateShareholder applies the editable fields of req. A request that
// changes nothing succeeds without touching the record.
func (s *DefaultShareholderService) UpdateShareholder(ctx context.Context, actor *utils.TokenData, company string, id int64, req *contract.UpdateShareholderRequest) (*contract.ShareholderResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if req.Email != nil {
		email := utils.NormalizeEmail(*req.Email)
		req.Email = &email
	}

	if valerr := s.Validate.Struct(req); valerr != nil {
		if se := apierror.FromValidationError(valerr); se != nil {
			return nil, se
		}
		log.Errorf("unexpected validation failure: %v", valerr)
		return nil, apierror.InternalServerError
	}

	record, apierr := s.find(ctx, company, id)
	if apierr != nil {
		return nil, apierr
	}

	updater := newShareholderUpdater(record)
	updater.apply(req)
	if !updater.dirty() {
		return toShareholderResponse(record), nil
	}

	if updater.contactChanged() {
		email, phone := updater.contact()
		if apierr := s.Guard.CheckDuplicate(ctx, email, phone, record.Company, record.ID); apierr != nil {
			return nil, apierr
		}
	}

	updater.changes.UpdatedAt = s.Now()
	found, err := s.Repo.Update(ctx, record.ID, record.Company, &updater.changes)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apierror.DuplicateError
	}
	if err != nil {
		log.Errorf("failed to update shareholder #%d of %s: %v", record.ID, record.Company, err)
		return nil, apierror.InternalServerError
	}
	if !found {
		return nil, apierror.NotFoundError
	}

	updated, apierr := s.find(ctx, record.Company, record.ID)
	if apierr != nil {
		return nil, apierr
	}

	s.Events.Publish(ctx, &events.ShareholderUpdated{
		Company: record.Company,
		ID:      record.ID,
		Actor:   actorName(actor),
		Fields:  updater.fields,
	})
	return toShareholderResponse(updated), nil
}

// DeleteShareholder is idempotent: deleting a missing record is a success.
func (s *DefaultShareholderService) DeleteShareholder(ctx context.Context, actor *utils.TokenData, company string, id int64) apierror.ErrorResponse {
	company, apierr := s.Guard.CheckCompanyID(company)
	if apierr != nil {
		return apierr
	}

	deleted, err := s.Repo.Delete(ctx, id, company)
	if err != nil {
		log.Errorf("failed to delete shareholder #%d of %s: %v", id, company, err)
		return apierror.InternalServerError
	}

	if deleted {
		s.Events.Publish(ctx, &events.ShareholdersDeleted{
			Company: company,
			IDs:     []int64{id},
			Deleted: 1,
			Actor:   actorName(actor),
		})
	}
	return nil
}

func (s *DefaultShareholderService) BulkDeleteShareholders(ctx context.Context, actor *utils.TokenData, company string, req *contract.BulkDeleteRequest) (*contract.BulkDeleteResponse, apierror.ErrorResponse) {
	company, apierr := s.Guard.CheckCompanyID(company)
	if apierr != nil {
		return nil, apierr
	}

	if valerr := s.Validate.Struct(req); valerr != nil {
		if se := apierror.FromValidationError(valerr); se != nil {
			return nil, se
		}
		return nil, apierror.InternalServerError
	}

	deleted, err := s.Repo.DeleteMany(ctx, req.IDs, company)
	if err != nil {
		log.Errorf("failed to bulk delete %d shareholders of %s: %v", len(req.IDs), company, err)
		return nil, apierror.InternalServerError
	}

	if deleted > 0 {
		s.Events.Publish(ctx, &events.ShareholdersDeleted{
			Company: company,
			IDs:     req.IDs,
			Deleted: deleted,
			Actor:   actorName(actor),
		})
	}
	return &contract.BulkDeleteResponse{Requested: len(req.IDs), Deleted: deleted}, nil
}

func (s *DefaultShareholderService) ListCompanies(ctx context.Context) (*contract.CompaniesResponse, apierror.ErrorResponse) {
	companies, err := s.Repo.ListCompanies(ctx)
	if err != nil {
		log.Errorf("failed to list companies: %v", err)
		return nil, apierror.InternalServerError
	}
	return &contract.CompaniesResponse{
		Companies: companies,
		Supported: s.Guard.Registry.Supported(),
	}, nil
}

func (s *DefaultShareholderService) find(ctx context.Context, company string, id int64) (*entity.Shareholder, apierror.ErrorResponse) {
	company, apierr := s.Guard.CheckCompanyID(company)
	if apierr != nil {
		return nil, apierr
	}

	record, err := s.Repo.FindByID(ctx, id, company)
	if err != nil {
		log.Errorf("failed to fetch shareholder #%d of %s: %v", id, company, err)
		return nil, apierror.InternalServerError
	}

	if record == nil {
		return nil, apierror.NotFoundError
	}
	return record, nil
}

func actorName(actor *utils.TokenData) string {
	switch {
	case actor == nil:
		return "unknown"
	case actor.Email != "":
		return actor.Email
	default:
		return actor.Sub
	}
}
