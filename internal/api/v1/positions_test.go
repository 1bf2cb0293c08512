package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/attendance/internal/api/v1"
	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/workforce"
)

func TestRecordPosition(t *testing.T) {
	t.Parallel()

	t.Run("attributed_to_caller", func(t *testing.T) {
		t.Parallel()

		ts := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
		_, api := humatest.New(t)
		svc := &mockPositionService{
			recordFunc: func(_ context.Context, s domain.PositionSample) error {
				assert.Equal(t, "E1234", s.PrincipalID)
				assert.True(t, ts.Equal(s.Timestamp))
				assert.InDelta(t, 12.0, s.Accuracy, 1e-9)
				return nil
			},
		}
		v1.RegisterPositionRoutes(api, svc)

		resp := api.PostCtx(employeeCtx("E1234"), "/positions", map[string]any{
			"location":  map[string]any{"lat": 40.7129, "lng": -74.0061},
			"accuracy":  12,
			"timestamp": ts.Format(time.RFC3339),
		})
		require.Equal(t, http.StatusAccepted, resp.Code, resp.Body.String())

		var s domain.PositionSample
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &s))
		assert.Equal(t, "E1234", s.PrincipalID)
	})

	t.Run("timestamp_defaults_to_now", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockPositionService{
			recordFunc: func(_ context.Context, s domain.PositionSample) error {
				assert.WithinDuration(t, time.Now(), s.Timestamp, 5*time.Second)
				return nil
			},
		}
		v1.RegisterPositionRoutes(api, svc)

		resp := api.PostCtx(employeeCtx("E1234"), "/positions", map[string]any{
			"location": map[string]any{"lat": 40.7129, "lng": -74.0061},
		})
		assert.Equal(t, http.StatusAccepted, resp.Code, resp.Body.String())
	})

	t.Run("not_collecting", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockPositionService{
			recordFunc: func(context.Context, domain.PositionSample) error {
				return fmt.Errorf("workforce.RecordPosition: %w", workforce.ErrNotCollecting)
			},
		}
		v1.RegisterPositionRoutes(api, svc)

		resp := api.PostCtx(employeeCtx("E1234"), "/positions", map[string]any{
			"location": map[string]any{"lat": 40.7129, "lng": -74.0061},
		})
		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Contains(t, resp.Body.String(), workforce.MsgNotCollecting)
	})

	t.Run("invalid_coordinate", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockPositionService{
			recordFunc: func(context.Context, domain.PositionSample) error {
				return fmt.Errorf("tracking.Record: %w", domain.ErrValidation)
			},
		}
		v1.RegisterPositionRoutes(api, svc)

		resp := api.PostCtx(employeeCtx("E1234"), "/positions", map[string]any{
			"location": map[string]any{"lat": 123, "lng": 0},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestCurrentPositions(t *testing.T) {
	t.Parallel()

	samples := []domain.PositionSample{
		{PrincipalID: "E1234", Location: domain.Coordinate{Lat: 1, Lng: 1}},
		{PrincipalID: "E5678", Location: domain.Coordinate{Lat: 2, Lng: 2}},
	}
	svc := &mockPositionService{currentFunc: func() []domain.PositionSample { return samples }}

	tests := []struct {
		name    string
		ctx     context.Context
		wantIDs []string
	}{
		{name: "admin_sees_everyone", ctx: adminCtx("E0001"), wantIDs: []string{"E1234", "E5678"}},
		{name: "employee_sees_self", ctx: employeeCtx("E5678"), wantIDs: []string{"E5678"}},
		{name: "employee_without_samples", ctx: employeeCtx("E4321"), wantIDs: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			v1.RegisterPositionRoutes(api, svc)

			resp := api.GetCtx(tc.ctx, "/positions")
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			var got []domain.PositionSample
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
			ids := make([]string, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.PrincipalID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestPositionHistory(t *testing.T) {
	t.Parallel()

	t.Run("filter_passed_through", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		var gotScope string
		svc := &mockPositionHistoryService{
			historyFunc: func(principalID string) []domain.PositionSample {
				gotScope = principalID
				return []domain.PositionSample{
					{PrincipalID: "E1234", Location: domain.Coordinate{Lat: 1, Lng: 1}},
					{PrincipalID: "E1234", Location: domain.Coordinate{Lat: 1.5, Lng: 1}},
				}
			},
		}
		v1.RegisterPositionAdminRoutes(api, svc)

		resp := api.GetCtx(adminCtx("E0001"), "/positions/history?principal_id=E1234")
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		assert.Equal(t, "E1234", gotScope)

		var got []domain.PositionSample
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.InDelta(t, 1.5, got[1].Location.Lat, 1e-9)
	})

	t.Run("empty_is_array", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockPositionHistoryService{
			historyFunc: func(string) []domain.PositionSample { return nil },
		}
		v1.RegisterPositionAdminRoutes(api, svc)

		resp := api.GetCtx(adminCtx("E0001"), "/positions/history")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, "[]", resp.Body.String())
	})
}
