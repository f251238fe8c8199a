package service

import (
	"context"
	"net/http"

	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/domain/registry"
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type DuplicateFinder interface {
	FindDuplicate(ctx context.Context, email, phone, company string, excludeID int64) (int64, error)
}

// Guard validates submissions and enforces one registration per email or
// phone within a company.
type Guard struct {
	Validate *validator.Validate
	Registry *registry.Registry
	Repo     DuplicateFinder
}

func NewGuard(validate *validator.Validate, reg *registry.Registry, repo DuplicateFinder) *Guard {
	return &Guard{Validate: validate, Registry: reg, Repo: repo}
}

// ValidateSubmission reports every violated rule at once, including a
// company that does not accept registrations. Optional numeric fields are
// never rejected here.
func (g *Guard) ValidateSubmission(req *contract.RegistrationRequest) *apierror.StructuredError {
	problems := apierror.NewStructured(http.StatusBadRequest)

	if valerr := g.Validate.Struct(req); valerr != nil {
		se := apierror.FromValidationError(valerr)
		if se == nil {
			log.Errorf("unexpected validation failure: %v", valerr)
			problems.Add("request", "Invalid request")
			return problems
		}
		problems.Merge(se)
	}

	if _, invalid := problems.Errors["company"]; !invalid && !g.Registry.IsSupported(req.Company) {
		problems.Merge(apierror.NewUnsupportedCompanyError(req.Company))
	}

	if problems.Empty() {
		return nil
	}
	return problems
}

// CheckDuplicate never says whether the email or the phone matched.
func (g *Guard) CheckDuplicate(ctx context.Context, email, phone, company string, excludeID int64) apierror.ErrorResponse {
	id, err := g.Repo.FindDuplicate(ctx, email, phone, company, excludeID)
	if err != nil {
		log.Errorf("failed to check duplicates for %s: %v", company, err)
		return apierror.InternalServerError
	}

	if id != 0 {
		log.Debugf("submission for %s collides with shareholder #%d", company, id)
		return apierror.DuplicateError
	}
	return nil
}

// CheckCompanyID normalizes a company taken from the request path.
func (g *Guard) CheckCompanyID(company string) (string, apierror.ErrorResponse) {
	company = utils.NormalizeCompany(company)
	if err := g.Validate.Var(company, "required,companyid"); err != nil {
		se := apierror.NewStructured(http.StatusBadRequest)
		se.Add("company", "Value must be a lowercase company identifier")
		return "", se
	}
	return company, nil
}
