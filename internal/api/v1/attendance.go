package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/attendance/internal/attendance"
	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/gate"
	"github.com/gosuda/attendance/internal/server/middleware"
	"github.com/gosuda/attendance/internal/workforce"
)

type AttendanceEventInput struct {
	Body struct {
		Location      domain.Coordinate `json:"location" doc:"Reported device position"`
		Accuracy      float64           `json:"accuracy,omitempty" minimum:"0" doc:"Reported accuracy in meters"`
		NetworkOrigin string            `json:"network_origin,omitempty" maxLength:"64" doc:"Reported network address; defaults to the caller's address"`
	}
}

// AdmissionResult is the check-in/check-out outcome. A gate rejection is a
// normal result with Success false, not an HTTP error.
type AdmissionResult struct {
	Success        bool                     `json:"success"`
	Message        string                   `json:"message"`
	Reason         gate.Reason              `json:"reason,omitempty"`
	DistanceMeters float64                  `json:"distance_meters,omitempty"`
	Record         *domain.AttendanceRecord `json:"record,omitempty"`
}

type AdmissionOutput struct {
	Body AdmissionResult
}

type ListAttendanceInput struct {
	PrincipalID string `query:"principal_id" doc:"Filter by principal (admin only)"`
}

type ListAttendanceOutput struct {
	Body []domain.AttendanceRecord
}

type OfficeOutput struct {
	Body struct {
		Name          string            `json:"name"`
		NetworkPrefix string            `json:"network_prefix"`
		Location      domain.Coordinate `json:"location"`
		RadiusMeters  float64           `json:"radius_meters"`
	}
}

// RegisterOfficeRoutes exposes the configured geofence for map rendering.
func RegisterOfficeRoutes(api huma.API, svc AttendanceService, officeName string) {
	huma.Register(api, huma.Operation{
		OperationID: "get-office",
		Method:      http.MethodGet,
		Path:        "/office",
		Summary:     "Get the office geofence",
		Tags:        []string{"Attendance"},
	}, func(_ context.Context, _ *struct{}) (*OfficeOutput, error) {
		cfg := svc.Office()

		out := &OfficeOutput{}
		out.Body.Name = officeName
		out.Body.NetworkPrefix = cfg.NetworkPrefix
		out.Body.Location = cfg.Office
		out.Body.RadiusMeters = cfg.RadiusMeters
		return out, nil
	})
}

// RegisterAttendanceRoutes registers check-in, check-out and the record list.
// Mount it behind Auth: the actions act for the session the token names.
func RegisterAttendanceRoutes(api huma.API, svc AttendanceService) {
	huma.Register(api, huma.Operation{
		OperationID: "check-in",
		Method:      http.MethodPost,
		Path:        "/attendance/check-in",
		Summary:     "Check in through the access gate",
		Tags:        []string{"Attendance"},
	}, func(ctx context.Context, input *AttendanceEventInput) (*AdmissionOutput, error) {
		sid, err := callerSession(ctx)
		if err != nil {
			return nil, err
		}

		rec, err := svc.CheckIn(ctx, sid, eventFrom(ctx, input))
		if err != nil {
			var rej *gate.RejectionError
			if !errors.As(err, &rej) {
				return nil, apiError(err)
			}
			return &AdmissionOutput{Body: AdmissionResult{
				Success:        false,
				Message:        workforce.Message(err),
				Reason:         rej.Decision.Reason,
				DistanceMeters: rej.Decision.DistanceMeters,
			}}, nil
		}

		return &AdmissionOutput{Body: AdmissionResult{
			Success: true,
			Message: workforce.MsgCheckedIn,
			Record:  rec,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "check-out",
		Method:      http.MethodPost,
		Path:        "/attendance/check-out",
		Summary:     "Check out",
		Tags:        []string{"Attendance"},
	}, func(ctx context.Context, input *AttendanceEventInput) (*AdmissionOutput, error) {
		sid, err := callerSession(ctx)
		if err != nil {
			return nil, err
		}

		rec, err := svc.CheckOut(ctx, sid, eventFrom(ctx, input))
		if err != nil {
			return nil, apiError(err)
		}

		return &AdmissionOutput{Body: AdmissionResult{
			Success: true,
			Message: workforce.MsgCheckedOut,
			Record:  rec,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-attendance",
		Method:      http.MethodGet,
		Path:        "/attendance",
		Summary:     "List attendance records",
		Description: "Employees see their own records. Administrators see every record, optionally filtered by principal.",
		Tags:        []string{"Attendance"},
	}, func(ctx context.Context, input *ListAttendanceInput) (*ListAttendanceOutput, error) {
		id, admin, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		scope := id
		if admin {
			scope = input.PrincipalID
		}

		records := svc.Attendance(scope)
		if records == nil {
			records = []domain.AttendanceRecord{}
		}
		return &ListAttendanceOutput{Body: records}, nil
	})
}

func eventFrom(ctx context.Context, input *AttendanceEventInput) attendance.Event {
	origin := input.Body.NetworkOrigin
	if origin == "" {
		origin, _ = middleware.ClientIPFromContext(ctx)
	}
	return attendance.Event{
		Location:      input.Body.Location,
		Accuracy:      input.Body.Accuracy,
		NetworkOrigin: origin,
	}
}
