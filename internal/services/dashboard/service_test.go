package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/database"
	"github.com/xelth-com/asbuiltgo/internal/models"
	"github.com/xelth-com/asbuiltgo/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	db, err := database.OpenSQLite("file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	st := store.New(db, zap.NewNop())
	return NewService(st, zap.NewNop()), st
}

var jan15 = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func room(building, name, status string) models.Room {
	return models.Room{Building: building, Floor: "T", Sector: "S", Name: name, RoomNumber: "1", Status: status}
}

func issues(building, roomName string, n int, date time.Time) []models.Issue {
	out := make([]models.Issue, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Issue{
			Number:     i + 1,
			Date:       date,
			Building:   building,
			Floor:      "T",
			Sector:     "S",
			RoomName:   roomName,
			Discipline: "Civil",
		})
	}
	return out
}

func seed(t *testing.T, st *store.Store, rooms []models.Room, iss []models.Issue) {
	t.Helper()
	require.NoError(t, st.ReplaceDataset(context.Background(), rooms, iss, nil))
}

func TestCriticalRoomOverridesVerifiedStatus(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seed(t, st,
		[]models.Room{room("A", "A", "VERIFICADA"), room("A", "B", "PENDENTE")},
		issues("A", "A", 11, jan15))

	k, err := svc.KPIs(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), k.TotalRooms)
	assert.Equal(t, int64(1), k.VerifiedRooms)
	assert.Equal(t, 50.0, k.VerificationRate)
	assert.Equal(t, int64(11), k.TotalIssues)
	assert.Equal(t, int64(1), k.CriticalRooms)
	assert.Equal(t, 50.0, k.CriticalRate)
	assert.Equal(t, 11.0, k.AverageIssues)

	dist, err := svc.StatusDistribution(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []StatusBucket{
		{Status: BucketVerified, Count: 0, Color: ColorVerified},
		{Status: BucketReview, Count: 0, Color: ColorReview},
		{Status: BucketCritical, Count: 1, Color: ColorCritical},
		{Status: BucketPending, Count: 1, Color: ColorPending},
	}, dist)
}

func TestKPIsEmptyDataset(t *testing.T) {
	svc, _ := newTestService(t)

	k, err := svc.KPIs(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, k.TotalRooms)
	assert.Zero(t, k.VerificationRate)
	assert.Zero(t, k.ReleaseRate)
	assert.Zero(t, k.CriticalRate)
	assert.Zero(t, k.AverageIssues)
}

func TestKPIsNormalizesStatuses(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	released := " liberado para obra "
	blocked := "BLOQUEADO"
	rooms := []models.Room{
		room("A", "R1", " verificada "),
		room("A", "R2", "Em Revisão"),
		room("A", "R3", "revisar"),
		room("A", "R4", "PENDENTE"),
		room("B", "R5", "VERIFICADA"),
	}
	rooms[0].StatusRA = &released
	rooms[1].StatusRA = &blocked
	seed(t, st, rooms, issues("A", "R4", 2, jan15))

	k, err := svc.KPIs(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(4), k.TotalRooms)
	assert.Equal(t, int64(3), k.VerifiedRooms)
	assert.Equal(t, int64(1), k.ReleasedRooms)
	assert.Equal(t, 75.0, k.VerificationRate)
	assert.Equal(t, 25.0, k.ReleaseRate)
	assert.InDelta(t, 2.0/3.0, k.AverageIssues, 1e-9)
	assert.Empty(t, k.Building)

	kb, err := svc.KPIsByBuilding(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "B", kb.Building)
	assert.Equal(t, int64(1), kb.TotalRooms)
	assert.Zero(t, kb.TotalIssues)
}

func TestStatusDistributionIsPartition(t *testing.T) {
	svc, st := newTestService(t)

	statuses := []string{"VERIFICADA", "REVISAR", "EM REVISÃO", "PENDENTE", "", "qualquer", "VERIFICADA"}
	rooms := make([]models.Room, 0, len(statuses))
	for i, status := range statuses {
		rooms = append(rooms, room("A", fmt.Sprintf("R%d", i), status))
	}
	seed(t, st, rooms, issues("A", "R6", 12, jan15))

	dist, err := svc.StatusDistribution(context.Background(), "")
	require.NoError(t, err)

	var total int64
	got := map[string]int64{}
	for _, b := range dist {
		total += b.Count
		got[b.Status] = b.Count
	}
	assert.Equal(t, int64(len(rooms)), total)
	assert.Equal(t, int64(1), got[BucketVerified])
	assert.Equal(t, int64(2), got[BucketReview])
	assert.Equal(t, int64(1), got[BucketCritical])
	assert.Equal(t, int64(3), got[BucketPending])
}

func TestRankings(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	var iss []models.Issue
	for i := 0; i < 12; i++ {
		iss = append(iss, issues("A", fmt.Sprintf("R%02d", i), i+1, jan15)...)
	}
	div := "Tomada fora de posição"
	iss[0].Divergence = &div
	iss[0].Discipline = ""
	seed(t, st, []models.Room{room("A", "R00", "PENDENTE")}, iss)

	top, err := svc.TopImpactedRooms(ctx, "")
	require.NoError(t, err)
	require.Len(t, top, TopRoomsLimit)
	assert.Equal(t, "R11", top[0].RoomName)
	assert.Equal(t, int64(12), top[0].Count)
	assert.Equal(t, "A", top[0].Building)

	byRoom, err := svc.IssuesByRoom(ctx)
	require.NoError(t, err)
	require.Len(t, byRoom, IssuesByRoomLimit)
	assert.Equal(t, RoomCount{Room: "R11", Count: 12}, byRoom[0])

	byDiscipline, err := svc.IssuesByDiscipline(ctx, "A")
	require.NoError(t, err)
	require.Len(t, byDiscipline, 2)
	assert.Equal(t, DisciplineCount{Discipline: "Civil", Count: int64(len(iss) - 1)}, byDiscipline[0])
	assert.Equal(t, DisciplineCount{Discipline: store.NoDiscipline, Count: 1}, byDiscipline[1])

	divergences, err := svc.TopDivergences(ctx)
	require.NoError(t, err)
	assert.Equal(t, []DivergenceCount{{Divergence: div, Count: 1}}, divergences)

	empty, err := svc.TopImpactedRooms(ctx, "Z")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestBuildingViews(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seed(t, st,
		[]models.Room{room("B", "R2", "PENDENTE"), room("A", "R1", "PENDENTE"), room("A", "R3", "PENDENTE")},
		append(issues("A", "R1", 3, jan15), issues("A", "nowhere", 2, jan15)...))

	buildings, err := svc.Buildings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, buildings)

	rooms, err := svc.RoomsPerBuilding(ctx)
	require.NoError(t, err)
	assert.Equal(t, []BuildingCount{{Building: "A", Count: 2}, {Building: "B", Count: 1}}, rooms)

	iss, err := svc.IssuesPerBuilding(ctx)
	require.NoError(t, err)
	assert.Equal(t, []BuildingCount{{Building: "A", Count: 3}, {Building: "B", Count: 0}}, iss)
}

func TestWeekKey(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{jan15, "2026-W03"},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "2025-W01"},
		{time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), "2020-W53"},
		{time.Date(2026, 1, 5, 1, 0, 0, 0, time.FixedZone("BRT", -3*3600)), "2026-W02"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeekKey(tt.in), tt.in.String())
	}
}

func TestMergeWeeks(t *testing.T) {
	w2 := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	w3 := jan15
	w5 := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)

	got := MergeWeeks(
		[]time.Time{w3, w3, w5},
		[]time.Time{w2, w3},
	)
	assert.Equal(t, []WeekPoint{
		{Week: "2026-W02", Count: 0, VerifiedRooms: 1},
		{Week: "2026-W03", Count: 2, VerifiedRooms: 1},
		{Week: "2026-W05", Count: 1, VerifiedRooms: 0},
	}, got)

	assert.Empty(t, MergeWeeks(nil, nil))
}

func TestWeeklyTrend(t *testing.T) {
	svc, st := newTestService(t)

	verified := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	rooms := []models.Room{room("A", "R1", "VERIFICADA"), room("A", "R2", "PENDENTE"), room("B", "R3", "VERIFICADA")}
	rooms[0].VerifiedAt = &verified
	rooms[2].VerifiedAt = &verified
	seed(t, st, rooms, append(issues("A", "R1", 2, jan15), issues("B", "R3", 1, jan15)...))

	got, err := svc.WeeklyTrend(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, []WeekPoint{
		{Week: "2026-W02", Count: 0, VerifiedRooms: 1},
		{Week: "2026-W03", Count: 2, VerifiedRooms: 0},
	}, got)
}

func TestIntegrity(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seed(t, st, []models.Room{room("A", "R1", "PENDENTE")}, issues("A", "R1", 4, jan15))

	report, err := svc.Integrity(ctx)
	require.NoError(t, err)
	assert.False(t, report.HasProblems)
	assert.Zero(t, report.UnmappedIssues)
	assert.Empty(t, report.Items)

	iss := append(issues("A", "R1", 1, jan15), issues("A", "ghost", 3, jan15)...)
	iss = append(iss, issues("B", "ghost", 1, jan15)...)
	seed(t, st, []models.Room{room("A", "R1", "PENDENTE")}, iss)

	report, err = svc.Integrity(ctx)
	require.NoError(t, err)
	assert.True(t, report.HasProblems)
	assert.Equal(t, int64(4), report.UnmappedIssues)
	assert.Equal(t, 2, report.UnmappedRooms)
	assert.Contains(t, report.Items, UnmappedRoom{Room: "ghost", Building: "A", Issues: 3})
	assert.Contains(t, report.Items, UnmappedRoom{Room: "ghost", Building: "B", Issues: 1})
}

func TestClassifyAndRoomColor(t *testing.T) {
	assert.Equal(t, BucketCritical, Classify("VERIFICADA", 11))
	assert.Equal(t, BucketVerified, Classify(" verificada", 10))
	assert.Equal(t, BucketReview, Classify("em revisão", 0))
	assert.Equal(t, BucketPending, Classify("VERIFICADA PARCIAL", 0))

	assert.Equal(t, ColorCritical, RoomColor("VERIFICADA", 11))
	assert.Equal(t, ColorVerified, RoomColor("VERIFICADA PARCIAL", 0))
	assert.Equal(t, ColorReview, RoomColor("A REVISAR", 0))
	assert.Equal(t, ColorCritical, RoomColor("CRÍTICO", 0))
	assert.Equal(t, ColorPending, RoomColor("", 0))
}
