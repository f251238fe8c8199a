package handler

import (
	"context"
	"net/http"
	"strconv"

	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ShareholderService interface {
	ListShareholders(ctx context.Context, company string, req *contract.ListShareholdersRequest) (*contract.ListShareholdersResponse, apierror.ErrorResponse)
	GetShareholder(ctx context.Context, company string, id int64) (*contract.ShareholderResponse, apierror.ErrorResponse)
	UpdateShareholder(ctx context.Context, actor *utils.TokenData, company string, id int64, req *contract.UpdateShareholderRequest) (*contract.ShareholderResponse, apierror.ErrorResponse)
	DeleteShareholder(ctx context.Context, actor *utils.TokenData, company string, id int64) apierror.ErrorResponse
	BulkDeleteShareholders(ctx context.Context, actor *utils.TokenData, company string, req *contract.BulkDeleteRequest) (*contract.BulkDeleteResponse, apierror.ErrorResponse)
	ListCompanies(ctx context.Context) (*contract.CompaniesResponse, apierror.ErrorResponse)
}

type DefaultShareholderRoute struct {
	ShareholderService ShareholderService
}

func NewShareholderRoute(shareholderService ShareholderService) *DefaultShareholderRoute {
	return &DefaultShareholderRoute{ShareholderService: shareholderService}
}

func (s *DefaultShareholderRoute) GetCompanies(c echo.Context) error {
	companies, apierr := s.ShareholderService.ListCompanies(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, companies)
}

func (s *DefaultShareholderRoute) GetShareholders(c echo.Context) error {
	var req contract.ListShareholdersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("page, per_page", "int"))
	}

	page, apierr := s.ShareholderService.ListShareholders(c.Request().Context(), c.Param("company"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, page)
}

func (s *DefaultShareholderRoute) GetShareholder(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	record, apierr := s.ShareholderService.GetShareholder(c.Request().Context(), c.Param("company"), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, record)
}

func (s *DefaultShareholderRoute) UpdateShareholder(c echo.Context) error {
	admin, cerr := utils.GetAdminFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	var req contract.UpdateShareholderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	record, apierr := s.ShareholderService.UpdateShareholder(c.Request().Context(), admin, c.Param("company"), id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, record)
}

func (s *DefaultShareholderRoute) DeleteShareholder(c echo.Context) error {
	admin, cerr := utils.GetAdminFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, apierror.InvalidIDError)
	}

	apierr := s.ShareholderService.DeleteShareholder(c.Request().Context(), admin, c.Param("company"), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *DefaultShareholderRoute) BulkDeleteShareholders(c echo.Context) error {
	admin, cerr := utils.GetAdminFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := s.ShareholderService.BulkDeleteShareholders(c.Request().Context(), admin, c.Param("company"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
