package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/attendance/internal/api/v1"
	"github.com/gosuda/attendance/internal/api/ws"
	"github.com/gosuda/attendance/internal/workforce"
)

func registerPublicRoutes(api huma.API, svc *workforce.Service, tokens v1.TokenConfig, officeName string) {
	v1.RegisterAuthRoutes(api, svc, tokens)
	v1.RegisterOfficeRoutes(api, svc, officeName)
}

func registerAPIRoutes(api huma.API, svc *workforce.Service) {
	v1.RegisterSessionRoutes(api, svc)
	v1.RegisterAttendanceRoutes(api, svc)
	v1.RegisterLeaveRoutes(api, svc)
	v1.RegisterPositionRoutes(api, svc)
	v1.RegisterPayrollRoutes(api, svc)
}

func registerAdminRoutes(api huma.API, svc *workforce.Service) {
	v1.RegisterAdminRoutes(api, svc)
	v1.RegisterLeaveAdminRoutes(api, svc)
	v1.RegisterPayrollAdminRoutes(api, svc)
	v1.RegisterPositionAdminRoutes(api, svc)
	v1.RegisterDashboardRoutes(api, svc)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/positions", hub.ServePositions)
}
