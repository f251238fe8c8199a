package handler

import (
	"context"
	"net/http"
	"slices"

	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/domain/entity"
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type IntakeService interface {
	Submit(ctx context.Context, req *contract.RegistrationRequest, origin contract.Origin) (*contract.RegistrationResponse, apierror.ErrorResponse)
}

type PublicReportService interface {
	GetStatistics(ctx context.Context, company string) (*contract.StatsResponse, apierror.ErrorResponse)
	GetFormConfig(company string) (*contract.FormConfigResponse, apierror.ErrorResponse)
}

type DefaultRegistrationRoute struct {
	IntakeService IntakeService
	ReportService PublicReportService
}

func NewRegistrationRoute(intake IntakeService, reports PublicReportService) *DefaultRegistrationRoute {
	return &DefaultRegistrationRoute{IntakeService: intake, ReportService: reports}
}

// Submit accepts JSON and url-encoded or multipart form bodies.
func (r *DefaultRegistrationRoute) Submit(c echo.Context) error {
	var req contract.RegistrationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := r.IntakeService.Submit(c.Request().Context(), &req, origin(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

// SubmitLegacyMember serves the historical ATOS form: company is always
// atos and validation messages use the wording that form displays.
func (r *DefaultRegistrationRoute) SubmitLegacyMember(c echo.Context) error {
	var legacy contract.LegacyMemberRequest
	if err := c.Bind(&legacy); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := r.IntakeService.Submit(c.Request().Context(), legacy.ToRegistration("atos"), origin(c))
	if se, ok := apierr.(*apierror.StructuredError); ok {
		legacyErr := legacyProblems(se)
		return c.JSON(legacyErr.Code(), legacyErr)
	}
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultRegistrationRoute) GetStatistics(c echo.Context) error {
	stats, apierr := r.ReportService.GetStatistics(c.Request().Context(), c.Param("company"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, stats)
}

func (r *DefaultRegistrationRoute) GetFormConfig(c echo.Context) error {
	cfg, apierr := r.ReportService.GetFormConfig(c.Param("company"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, cfg)
}

func origin(c echo.Context) contract.Origin {
	return contract.Origin{IPAddress: utils.ClientIP(c, entity.UnknownProvenance)}
}

const requiredProblem = "This field is required"

func legacyProblems(se *apierror.StructuredError) *apierror.StructuredError {
	out := apierror.NewStructured(se.Code())
	for field, problems := range se.Errors {
		switch field {
		case "name":
			out.Add(field, "Please enter your name")
		case "email":
			if slices.Contains(problems, requiredProblem) {
				out.Add(field, "Please enter email address")
			} else {
				out.Add(field, "Please enter a valid email address")
			}
		case "phone":
			out.Add(field, "Please enter valid phone number")
		default:
			out.Errors[field] = problems
		}
	}
	return out
}
