package handler

import (
	"github.com/labstack/echo/v4"
)

type Routes struct {
	Registration *DefaultRegistrationRoute
	Shareholders *DefaultShareholderRoute
	Reports      *DefaultReportRoute
	Util         *DefaultUtilRoute
}

// Register mounts the public routes and, behind admin, the back-office API.
func Register(e *echo.Echo, r *Routes, admin echo.MiddlewareFunc) {
	// Public
	e.POST("/api/registrations", r.Registration.Submit)
	e.POST("/api/legacy/atos/members", r.Registration.SubmitLegacyMember)
	e.GET("/api/companies/:company/stats", r.Registration.GetStatistics)
	e.GET("/api/companies/:company/form", r.Registration.GetFormConfig)

	// Docker Compose healthcheck
	e.GET("/health", r.Util.Health)

	// Back office
	g := e.Group("/api/admin", admin)
	g.GET("/companies", r.Shareholders.GetCompanies)
	g.GET("/stats", r.Reports.GetAllStatistics)

	c := g.Group("/companies/:company")
	c.GET("/shareholders", r.Shareholders.GetShareholders)
	c.GET("/shareholders/:id", r.Shareholders.GetShareholder)
	c.PATCH("/shareholders/:id", r.Shareholders.UpdateShareholder)
	c.DELETE("/shareholders/:id", r.Shareholders.DeleteShareholder)
	c.POST("/shareholders/bulk-delete", r.Shareholders.BulkDeleteShareholders)
	c.GET("/export", r.Reports.Export)
	c.POST("/emails", r.Reports.SendBulkEmail)
}
