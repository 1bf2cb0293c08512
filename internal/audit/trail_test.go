package audit_test

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/attendance/internal/audit"
	"github.com/gosuda/attendance/internal/domain"
)

func fixedClock() func() time.Time {
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	var n int
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestRecord_PopulatesEntry(t *testing.T) {
	t.Parallel()

	trail := audit.NewTrail(10, audit.WithClock(fixedClock()), audit.WithIDGenerator(func() string { return "a-1" }))

	actor := domain.Actor{ID: "E1001", Name: "John Smith"}
	got := trail.Record(actor, domain.ActionUserLogin, "User John Smith logged in", domain.SeverityLow)

	assert.Equal(t, "a-1", got.ID)
	assert.Equal(t, "E1001", got.ActorID)
	assert.Equal(t, "John Smith", got.ActorName)
	assert.Equal(t, domain.ActionUserLogin, got.Action)
	assert.Equal(t, domain.SeverityLow, got.Severity)
	assert.False(t, got.Timestamp.IsZero())

	entries := trail.Query()
	require.Len(t, entries, 1)
	assert.Equal(t, got, entries[0])
}

func TestRecord_EmptyActorIsSystem(t *testing.T) {
	t.Parallel()

	trail := audit.NewTrail(10)
	got := trail.Record(domain.Actor{}, domain.ActionFailedLogin, "Failed login attempt", domain.SeverityMedium)

	assert.Equal(t, domain.SystemActor.ID, got.ActorID)
	assert.Equal(t, domain.SystemActor.Name, got.ActorName)
}

func TestQuery_NewestFirst(t *testing.T) {
	t.Parallel()

	trail := audit.NewTrail(10, audit.WithClock(fixedClock()))
	for i := range 5 {
		trail.Record(domain.SystemActor, "A"+strconv.Itoa(i), "", domain.SeverityLow)
	}

	entries := trail.Query()
	require.Len(t, entries, 5)
	assert.Equal(t, "A4", entries[0].Action)
	assert.Equal(t, "A0", entries[4].Action)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].Timestamp.After(entries[i].Timestamp))
	}
}

func TestRecord_RetentionBound(t *testing.T) {
	t.Parallel()

	trail := audit.NewTrail(audit.DefaultRetention)
	for i := range 2500 {
		trail.Record(domain.SystemActor, "A"+strconv.Itoa(i), "", domain.SeverityLow)
		require.LessOrEqual(t, trail.Len(), audit.DefaultRetention)
	}

	entries := trail.Query()
	require.Len(t, entries, audit.DefaultRetention)
	assert.Equal(t, "A2499", entries[0].Action, "newest entry must be first")
	assert.Equal(t, "A1500", entries[len(entries)-1].Action, "oldest entries must be dropped first")
}

func TestNewTrail_DefaultRetention(t *testing.T) {
	t.Parallel()

	assert.Equal(t, audit.DefaultRetention, audit.NewTrail(0).Retention())
	assert.Equal(t, 7, audit.NewTrail(7).Retention())
}

func TestQuery_ReturnsSnapshot(t *testing.T) {
	t.Parallel()

	trail := audit.NewTrail(10)
	trail.Record(domain.SystemActor, "A", "original", domain.SeverityLow)

	snapshot := trail.Query()
	snapshot[0].Detail = "tampered"

	assert.Equal(t, "original", trail.Query()[0].Detail)
}

func TestRecord_Concurrent(t *testing.T) {
	t.Parallel()

	trail := audit.NewTrail(50)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				trail.Record(domain.SystemActor, "A", "", domain.SeverityLow)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 50, trail.Len())
}
