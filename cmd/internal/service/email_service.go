package service

import (
	"context"
	"net/http"
	"strings"

	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/domain/database/repository"
	"classaction/cmd/internal/domain/entity"
	"classaction/cmd/internal/domain/events"
	"classaction/cmd/internal/infrastructure/aws/mail"
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultEmailService sends administrator written messages to the
// shareholders of a company.
type DefaultEmailService struct {
	Repo     ShareholderRepository
	Guard    *Guard
	Mailer   mail.Mailer
	Validate *validator.Validate
	Events   *events.Bus

	body    *bluemonday.Policy
	subject *bluemonday.Policy
}

func NewEmailService(repo ShareholderRepository, guard *Guard, mailer mail.Mailer, validate *validator.Validate, bus *events.Bus) *DefaultEmailService {
	return &DefaultEmailService{
		Repo:     repo,
		Guard:    guard,
		Mailer:   mailer,
		Validate: validate,
		Events:   bus,
		body:     bluemonday.UGCPolicy(),
		subject:  bluemonday.StrictPolicy(),
	}
}

// SendBulkEmail mails every selected shareholder once. A failed delivery is
// counted and logged, it never stops the others.
func (s *DefaultEmailService) SendBulkEmail(ctx context.Context, actor *utils.TokenData, company string, req *contract.BulkEmailRequest) (*contract.BulkEmailResponse, apierror.ErrorResponse) {
	company, apierr := s.Guard.CheckCompanyID(company)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	req.Subject = strings.TrimSpace(s.subject.Sanitize(req.Subject))
	req.Message = strings.TrimSpace(s.body.Sanitize(req.Message))
	if valerr := s.Validate.Struct(req); valerr != nil {
		if se := apierror.FromValidationError(valerr); se != nil {
			return nil, se
		}
		return nil, apierror.InternalServerError
	}

	recipients, apierr := s.recipients(ctx, company, req.IDs)
	if apierr != nil {
		return nil, apierr
	}

	resp := &contract.BulkEmailResponse{Targeted: len(recipients)}
	for _, r := range recipients {
		if ctx.Err() != nil {
			log.Warnf("bulk email to %s interrupted after %d/%d messages: %v", company, resp.Sent, resp.Targeted, ctx.Err())
			break
		}

		err := s.Mailer.Send(ctx, &mail.Message{To: r.Email, Subject: req.Subject, HTML: req.Message})
		if err != nil {
			log.Errorf("failed to send bulk email to %s (%s #%d): %v", r.Email, company, r.ID, err)
			continue
		}
		resp.Sent++
	}
	resp.Failed = resp.Targeted - resp.Sent

	s.Events.Publish(ctx, &events.BulkEmailSent{
		Company:  company,
		Subject:  req.Subject,
		Targeted: resp.Targeted,
		Sent:     resp.Sent,
		Actor:    actorName(actor),
	})
	return resp, nil
}

func (s *DefaultEmailService) recipients(ctx context.Context, company string, ids []int64) ([]*entity.Shareholder, apierror.ErrorResponse) {
	var (
		records []*entity.Shareholder
		err     error
	)
	if len(ids) > 0 {
		records, err = s.Repo.FindByIDs(ctx, ids, company)
	} else {
		records, err = s.Repo.FindAll(ctx, repository.ShareholderFilter{Company: company, SortDir: repository.SortAsc})
	}
	if err != nil {
		log.Errorf("failed to load recipients of %s: %v", company, err)
		return nil, apierror.InternalServerError
	}

	if len(records) == 0 {
		return nil, apierror.NewSimple(http.StatusNotFound, "No shareholders to email for %s", company)
	}
	return records, nil
}
