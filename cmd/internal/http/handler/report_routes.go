package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ReportService interface {
	GetAllStatistics(ctx context.Context) (*contract.CompanyStatsResponse, apierror.ErrorResponse)
	ExportShareholders(ctx context.Context, company string, req *contract.ExportRequest) (*contract.ExportFile, apierror.ErrorResponse)
}

type EmailService interface {
	SendBulkEmail(ctx context.Context, actor *utils.TokenData, company string, req *contract.BulkEmailRequest) (*contract.BulkEmailResponse, apierror.ErrorResponse)
}

type DefaultReportRoute struct {
	ReportService ReportService
	EmailService  EmailService
}

func NewReportRoute(reports ReportService, emails EmailService) *DefaultReportRoute {
	return &DefaultReportRoute{ReportService: reports, EmailService: emails}
}

func (r *DefaultReportRoute) GetAllStatistics(c echo.Context) error {
	stats, apierr := r.ReportService.GetAllStatistics(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, stats)
}

// Export streams the file as an attachment. Selected ids may be given as
// repeated `ids` parameters, a comma separated list, or both.
func (r *DefaultReportRoute) Export(c echo.Context) error {
	var req contract.ExportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	ids, ok := parseIDList(c.QueryParams()["ids"])
	if !ok {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("ids", "int list"))
	}
	req.IDs = ids

	file, apierr := r.ReportService.ExportShareholders(c.Request().Context(), c.Param("company"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	h := c.Response().Header()
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	h.Set("X-Export-Records", strconv.Itoa(file.Records))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

func (r *DefaultReportRoute) SendBulkEmail(c echo.Context) error {
	admin, cerr := utils.GetAdminFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.BulkEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := r.EmailService.SendBulkEmail(c.Request().Context(), admin, c.Param("company"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func parseIDList(values []string) ([]int64, bool) {
	var ids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, false
			}
			ids = append(ids, id)
		}
	}
	return ids, true
}
