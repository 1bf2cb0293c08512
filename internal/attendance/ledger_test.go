package attendance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/attendance/internal/attendance"
	"github.com/gosuda/attendance/internal/audit"
	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/gate"
)

// stubSessions implements attendance.SessionSource with a fixed principal.
type stubSessions struct {
	principal *domain.Principal
}

func (s *stubSessions) Current() *domain.Principal { return s.principal }

var (
	office   = domain.Coordinate{Lat: 40.7128, Lng: -74.0060}
	farAway  = domain.Coordinate{Lat: 41.0, Lng: -75.0}
	employee = &domain.Principal{ID: "E1001", Name: "John Smith", Role: domain.RoleEmployee}
)

func newLedger(t *testing.T, p *domain.Principal, opts ...attendance.Option) (*attendance.Ledger, *audit.Trail) {
	t.Helper()

	trail := audit.NewTrail(100)
	g := gate.New(gate.Config{NetworkPrefix: "192.168.1", Office: office, RadiusMeters: 100})
	return attendance.NewLedger(g, &stubSessions{principal: p}, trail, opts...), trail
}

func TestCheckIn_Admitted(t *testing.T) {
	t.Parallel()

	ledger, trail := newLedger(t, employee)

	rec, err := ledger.CheckIn(attendance.Event{Location: office, Accuracy: 10, NetworkOrigin: "192.168.1.52"})

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "E1001", rec.PrincipalID)
	assert.Equal(t, domain.DirectionCheckIn, rec.Direction)
	assert.Equal(t, domain.OutcomeSuccess, rec.Outcome)
	assert.Equal(t, office, rec.Location)
	assert.InDelta(t, 10, rec.Accuracy, 0)
	assert.Equal(t, "192.168.1.52", rec.NetworkOrigin)
	assert.Empty(t, rec.Reason)

	assert.Equal(t, 1, ledger.Len(), "exactly one new record")
	entries := trail.Query()
	require.Len(t, entries, 1, "exactly one new audit entry")
	assert.Equal(t, domain.SeverityLow, entries[0].Severity)
	assert.Equal(t, domain.ActionAttendanceSuccess, entries[0].Action)
	assert.Equal(t, "E1001", entries[0].ActorID)
}

func TestCheckIn_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  string
		at      domain.Coordinate
		wantErr error
		detail  string
	}{
		{"network mismatch at office", "10.0.0.1", office, gate.ErrNetworkMismatch, "Outside network (10.0.0.1)"},
		{"network mismatch far away", "10.0.0.1", farAway, gate.ErrNetworkMismatch, "Outside network"},
		{"outside geofence", "192.168.1.52", farAway, gate.ErrOutsideGeofence, "Outside geo-fence"},
		{"invalid location", "192.168.1.52", domain.Coordinate{Lat: 200, Lng: 0}, gate.ErrInvalidLocation, "Invalid location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger, trail := newLedger(t, employee)

			rec, err := ledger.CheckIn(attendance.Event{Location: tt.at, Accuracy: 5, NetworkOrigin: tt.origin})

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, rec)
			assert.Zero(t, ledger.Len(), "rejections must not create records")

			entries := trail.Query()
			require.Len(t, entries, 1)
			assert.Equal(t, domain.ActionAttendanceDenied, entries[0].Action)
			assert.Equal(t, domain.SeverityMedium, entries[0].Severity)
			assert.Contains(t, entries[0].Detail, tt.detail)
		})
	}
}

func TestCheckIn_RejectedRecordsKept(t *testing.T) {
	t.Parallel()

	ledger, _ := newLedger(t, employee, attendance.WithRejectedRecords())

	_, err := ledger.CheckIn(attendance.Event{Location: office, NetworkOrigin: "10.0.0.1"})
	require.ErrorIs(t, err, gate.ErrNetworkMismatch)

	records := ledger.Records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeFailed, records[0].Outcome)
	assert.Equal(t, string(gate.ReasonNetworkMismatch), records[0].Reason)
}

func TestCheckOut_SkipsGate(t *testing.T) {
	t.Parallel()

	ledger, trail := newLedger(t, employee)

	rec, err := ledger.CheckOut(attendance.Event{Location: farAway, Accuracy: 30, NetworkOrigin: "10.0.0.1"})

	require.NoError(t, err)
	assert.Equal(t, domain.DirectionCheckOut, rec.Direction)
	assert.Equal(t, domain.OutcomeSuccess, rec.Outcome)
	assert.Equal(t, farAway, rec.Location)
	assert.Equal(t, "10.0.0.1", rec.NetworkOrigin)
	assert.Equal(t, domain.SeverityLow, trail.Query()[0].Severity)
}

func TestUnauthenticated(t *testing.T) {
	t.Parallel()

	ledger, trail := newLedger(t, nil)

	_, err := ledger.CheckIn(attendance.Event{Location: office, NetworkOrigin: "192.168.1.52"})
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = ledger.CheckOut(attendance.Event{Location: office, NetworkOrigin: "192.168.1.52"})
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)

	assert.Zero(t, ledger.Len())
	assert.Zero(t, trail.Len())
}

func TestRecords_AppendOrderNoDedup(t *testing.T) {
	t.Parallel()

	ledger, _ := newLedger(t, employee)
	ev := attendance.Event{Location: office, NetworkOrigin: "192.168.1.52"}

	_, err := ledger.CheckIn(ev)
	require.NoError(t, err)
	_, err = ledger.CheckIn(ev)
	require.NoError(t, err)
	_, err = ledger.CheckOut(ev)
	require.NoError(t, err)

	records := ledger.Records()
	require.Len(t, records, 3)
	assert.Equal(t, domain.DirectionCheckIn, records[0].Direction)
	assert.Equal(t, domain.DirectionCheckIn, records[1].Direction)
	assert.Equal(t, domain.DirectionCheckOut, records[2].Direction)
	assert.NotEqual(t, records[0].ID, records[1].ID)
	assert.False(t, records[1].Timestamp.Before(records[0].Timestamp))

	assert.Len(t, ledger.RecordsFor("E1001"), 3)
	assert.Empty(t, ledger.RecordsFor("E1002"))
}
