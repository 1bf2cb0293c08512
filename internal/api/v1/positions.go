package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/attendance/internal/domain"
)

type RecordPositionInput struct {
	Body struct {
		Location  domain.Coordinate `json:"location" doc:"Device position"`
		Accuracy  float64           `json:"accuracy,omitempty" minimum:"0" doc:"Accuracy in meters"`
		Timestamp *time.Time        `json:"timestamp,omitempty" doc:"Sample time; defaults to receipt time"`
	}
}

type RecordPositionOutput struct {
	Body domain.PositionSample
}

type CurrentPositionsOutput struct {
	Body []domain.PositionSample
}

// RegisterPositionRoutes registers the live-tracking operations. Samples are
// always attributed to the caller.
func RegisterPositionRoutes(api huma.API, svc PositionService) {
	huma.Register(api, huma.Operation{
		OperationID:   "record-position",
		Method:        http.MethodPost,
		Path:          "/positions",
		Summary:       "Report a position sample",
		Tags:          []string{"Positions"},
		DefaultStatus: http.StatusAccepted,
	}, func(ctx context.Context, input *RecordPositionInput) (*RecordPositionOutput, error) {
		id, _, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		ts := time.Now().UTC()
		if input.Body.Timestamp != nil {
			ts = *input.Body.Timestamp
		}
		sample := domain.PositionSample{
			PrincipalID: id,
			Location:    input.Body.Location,
			Accuracy:    input.Body.Accuracy,
			Timestamp:   ts,
		}

		if err := svc.RecordPosition(ctx, sample); err != nil {
			return nil, apiError(err)
		}
		return &RecordPositionOutput{Body: sample}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "current-positions",
		Method:      http.MethodGet,
		Path:        "/positions",
		Summary:     "Latest position per principal",
		Description: "Administrators see every principal; employees only themselves.",
		Tags:        []string{"Positions"},
	}, func(ctx context.Context, _ *struct{}) (*CurrentPositionsOutput, error) {
		id, admin, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		all := svc.CurrentPositions()
		out := make([]domain.PositionSample, 0, len(all))
		for _, s := range all {
			if admin || s.PrincipalID == id {
				out = append(out, s)
			}
		}
		return &CurrentPositionsOutput{Body: out}, nil
	})
}

type PositionHistoryInput struct {
	PrincipalID string `query:"principal_id" doc:"Filter by principal"`
}

// RegisterPositionAdminRoutes registers the retained sample history. Mount it
// behind RequireAdmin.
func RegisterPositionAdminRoutes(api huma.API, svc PositionHistoryService) {
	huma.Register(api, huma.Operation{
		OperationID: "position-history",
		Method:      http.MethodGet,
		Path:        "/positions/history",
		Summary:     "Retained position samples, oldest first",
		Tags:        []string{"Positions"},
	}, func(_ context.Context, input *PositionHistoryInput) (*CurrentPositionsOutput, error) {
		out := svc.PositionHistory(input.PrincipalID)
		if out == nil {
			out = []domain.PositionSample{}
		}
		return &CurrentPositionsOutput{Body: out}, nil
	})
}
