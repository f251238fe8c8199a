package service

import (
	"context"
	"time"

	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/domain/database/repository"
	"classaction/cmd/internal/domain/entity"
	"classaction/cmd/internal/domain/registry"
	"classaction/cmd/internal/infrastructure/aws/storage"
	"classaction/cmd/internal/service/export"
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// DefaultReportService computes statistics and builds export files. Totals
// are always computed from the current records, never cached.
type DefaultReportService struct {
	Repo     ShareholderRepository
	Guard    *Guard
	Registry *registry.Registry
	Now      utils.Clock

	// Archive, when set, receives a copy of every export.
	Archive storage.S3Client
}

func NewReportService(repo ShareholderRepository, guard *Guard, reg *registry.Registry) *DefaultReportService {
	return &DefaultReportService{
		Repo:     repo,
		Guard:    guard,
		Registry: reg,
		Now:      utils.NowUTC,
	}
}

func (s *DefaultReportService) GetStatistics(ctx context.Context, company string) (*contract.StatsResponse, apierror.ErrorResponse) {
	company, apierr := s.Guard.CheckCompanyID(company)
	if apierr != nil {
		return nil, apierr
	}

	stats, err := s.Repo.Stats(ctx, company)
	if err != nil {
		log.Errorf("failed to compute statistics of %s: %v", company, err)
		return nil, apierror.InternalServerError
	}
	return toStatsResponse(stats, s.Registry.DisplayName(company)), nil
}

func (s *DefaultReportService) GetAllStatistics(ctx context.Context) (*contract.CompanyStatsResponse, apierror.ErrorResponse) {
	all, err := s.Repo.StatsByCompany(ctx)
	if err != nil {
		log.Errorf("failed to compute per company statistics: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := &contract.CompanyStatsResponse{Companies: make([]*contract.StatsResponse, len(all))}
	participation := decimal.Zero
	for i, stats := range all {
		resp.Companies[i] = toStatsResponse(stats, s.Registry.DisplayName(stats.Company))
		resp.TotalShares += stats.Shares
		resp.ShareholderCount += stats.Shareholders
		participation = participation.Add(stats.Participation)
	}
	resp.TotalParticipation = participation.StringFixed(2)
	return resp, nil
}

func (s *DefaultReportService) GetFormConfig(company string) (*contract.FormConfigResponse, apierror.ErrorResponse) {
	company, apierr := s.Guard.CheckCompanyID(company)
	if apierr != nil {
		return nil, apierr
	}

	cfg := s.Registry.FormConfig(company)
	resp := &contract.FormConfigResponse{
		Company:        cfg.Company,
		CompanyName:    cfg.DisplayName,
		Title:          cfg.Title,
		Description:    cfg.Description,
		Fields:         make([]*contract.FormFieldResponse, len(cfg.Fields)),
		SubmitText:     cfg.SubmitText,
		SuccessMessage: cfg.SuccessMessage,
		Open:           s.Registry.IsSupported(company),
	}
	for i, f := range cfg.Fields {
		resp.Fields[i] = &contract.FormFieldResponse{
			Key:         f.Key,
			Label:       f.Label,
			Placeholder: f.Placeholder,
			Type:        string(f.Type),
			Required:    f.Required,
		}
	}
	return resp, nil
}

// ExportShareholders selects the requested records (explicit ids, or every
// record matching the search) and serializes them.
func (s *DefaultReportService) ExportShareholders(ctx context.Context, company string, req *contract.ExportRequest) (*contract.ExportFile, apierror.ErrorResponse) {
	company, apierr := s.Guard.CheckCompanyID(company)
	if apierr != nil {
		return nil, apierr
	}

	format, ok := export.ParseFormat(req.Format)
	if !ok {
		return nil, apierror.NewUnsupportedFormatError(req.Format)
	}

	records, apierr := s.selectRecords(ctx, company, req)
	if apierr != nil {
		return nil, apierr
	}
	if len(records) == 0 {
		return nil, apierror.NoExportDataError
	}

	at := time.UnixMilli(s.Now()).UTC()
	data, err := export.Bytes(format, company, records, at)
	if err != nil {
		log.Errorf("failed to export %d shareholders of %s as %s: %v", len(records), company, format, err)
		return nil, apierror.InternalServerError
	}

	file := &contract.ExportFile{
		Filename:    export.Filename(company, format, at),
		ContentType: format.ContentType(),
		Data:        data,
		Records:     len(records),
	}
	s.archive(ctx, company, file)
	return file, nil
}

func (s *DefaultReportService) selectRecords(ctx context.Context, company string, req *contract.ExportRequest) ([]*entity.Shareholder, apierror.ErrorResponse) {
	var (
		records []*entity.Shareholder
		err     error
	)
	if len(req.IDs) > 0 {
		records, err = s.Repo.FindByIDs(ctx, req.IDs, company)
	} else {
		filter := repository.ShareholderFilter{
			Company:   company,
			Search:    req.Search,
			SortField: req.OrderBy,
			SortDir:   req.Order,
		}
		// without an explicit sort the file follows insertion order
		if filter.SortField == "" && filter.SortDir == "" {
			filter.SortDir = repository.SortAsc
		}
		records, err = s.Repo.FindAll(ctx, filter)
	}
	if err != nil {
		log.Errorf("failed to select shareholders of %s for export: %v", company, err)
		return nil, apierror.InternalServerError
	}
	return records, nil
}

func (s *DefaultReportService) archive(ctx context.Context, company string, file *contract.ExportFile) {
	if s.Archive == nil {
		return
	}

	key, err := s.Archive.UploadFile(ctx, file.Data, storage.ExportKey(company, file.Filename), file.ContentType)
	if err != nil {
		log.Errorf("failed to archive export %s: %v", file.Filename, err)
		return
	}
	log.Infof("export %s archived at %s", file.Filename, key)
}
