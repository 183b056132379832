// Package dashboard computes the derived views over the current rooms and
// issues. Nothing is cached; every call reads the live tables.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/store"
)

// Result limits
const (
	TopRoomsLimit       = 5
	IssuesByRoomLimit   = 10
	TopDivergencesLimit = 5
)

// Service computes dashboard views
type Service struct {
	store *store.Store
	log   *zap.Logger
}

// NewService creates a dashboard service
func NewService(st *store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, log: log}
}

// KPIs are the headline indicators. Rates are percentages of TotalRooms.
type KPIs struct {
	Building         string  `json:"edificacao,omitempty"`
	TotalRooms       int64   `json:"totalSalas"`
	VerifiedRooms    int64   `json:"salasVerificadas"`
	ReleasedRooms    int64   `json:"salasLiberadas"`
	TotalIssues      int64   `json:"totalApontamentos"`
	CriticalRooms    int64   `json:"salasCriticas"`
	VerificationRate float64 `json:"taxaVerificacao"`
	ReleaseRate      float64 `json:"taxaLiberacao"`
	CriticalRate     float64 `json:"taxaCriticidade"`
	AverageIssues    float64 `json:"mediaApontamentos"`
}

// StatusBucket is one slice of the status distribution
type StatusBucket struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
	Color  string `json:"color"`
}

// DisciplineCount is an issue count per discipline
type DisciplineCount struct {
	Discipline string `json:"disciplina"`
	Count      int64  `json:"count"`
}

// RoomCount is an issue count per room name
type RoomCount struct {
	Room  string `json:"sala"`
	Count int64  `json:"count"`
}

// DivergenceCount is an issue count per divergence text
type DivergenceCount struct {
	Divergence string `json:"divergencia"`
	Count      int64  `json:"count"`
}

// BuildingCount is a count per building
type BuildingCount struct {
	Building string `json:"edificacao"`
	Count    int64  `json:"count"`
}

// WeekPoint is one week of the trend series
type WeekPoint struct {
	Week          string `json:"semana"`
	Count         int64  `json:"count"`
	VerifiedRooms int64  `json:"verifiedRooms"`
}

// UnmappedRoom is an issue group whose room name has no Room record
type UnmappedRoom struct {
	Room     string `json:"sala"`
	Building string `json:"edificacao"`
	Issues   int64  `json:"totalApontamentos"`
}

// Integrity reports issues that reference unknown rooms
type Integrity struct {
	HasProblems    bool           `json:"temProblemas"`
	UnmappedIssues int64          `json:"totalApontamentosNaoMapeados"`
	UnmappedRooms  int            `json:"totalSalasNaoMapeadas"`
	Items          []UnmappedRoom `json:"apontamentosNaoMapeados"`
}

// issueCounts maps room name to its number of issues
func (s *Service) issueCounts(ctx context.Context, building string) (map[string]int64, int64, error) {
	rows, err := s.store.IssueCountsByRoomName(ctx, building, 0)
	if err != nil {
		return nil, 0, err
	}
	counts := make(map[string]int64, len(rows))
	var total int64
	for _, r := range rows {
		counts[r.Label] = r.Count
		total += r.Count
	}
	return counts, total, nil
}

// KPIs computes the indicators, optionally for one building
func (s *Service) KPIs(ctx context.Context, building string) (*KPIs, error) {
	rooms, err := s.store.ListRooms(ctx, building)
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	counts, totalIssues, err := s.issueCounts(ctx, building)
	if err != nil {
		return nil, fmt.Errorf("failed to count issues: %w", err)
	}

	k := &KPIs{
		TotalRooms:  int64(len(rooms)),
		TotalIssues: totalIssues,
	}
	for _, r := range rooms {
		if IsVerified(r.Status) {
			k.VerifiedRooms++
		}
		if IsReleased(r.StatusRA) {
			k.ReleasedRooms++
		}
		if IsCritical(counts[r.Name]) {
			k.CriticalRooms++
		}
	}

	k.VerificationRate = percent(k.VerifiedRooms, k.TotalRooms)
	k.ReleaseRate = percent(k.ReleasedRooms, k.TotalRooms)
	k.CriticalRate = percent(k.CriticalRooms, k.TotalRooms)
	if k.VerifiedRooms > 0 {
		k.AverageIssues = float64(k.TotalIssues) / float64(k.VerifiedRooms)
	}
	return k, nil
}

// KPIsByBuilding is KPIs labelled with the building
func (s *Service) KPIsByBuilding(ctx context.Context, building string) (*KPIs, error) {
	k, err := s.KPIs(ctx, building)
	if err != nil {
		return nil, err
	}
	k.Building = building
	return k, nil
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// StatusDistribution partitions the rooms into the four status buckets. The
// bucket counts always sum to the number of rooms.
func (s *Service) StatusDistribution(ctx context.Context, building string) ([]StatusBucket, error) {
	rooms, err := s.store.ListRooms(ctx, building)
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	counts, _, err := s.issueCounts(ctx, building)
	if err != nil {
		return nil, fmt.Errorf("failed to count issues: %w", err)
	}

	tally := make(map[string]int64, len(bucketOrder))
	for _, r := range rooms {
		tally[Classify(r.Status, counts[r.Name])]++
	}

	out := EmptyDistribution()
	for i := range out {
		out[i].Count = tally[out[i].Status]
	}
	return out, nil
}

// TopImpactedRooms returns the rooms with most issues
func (s *Service) TopImpactedRooms(ctx context.Context, building string) ([]store.RoomIssueCount, error) {
	rows, err := s.store.IssueCountsByRoom(ctx, building, TopRoomsLimit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.RoomIssueCount{}
	}
	return rows, nil
}

// IssuesByDiscipline counts issues per discipline
func (s *Service) IssuesByDiscipline(ctx context.Context, building string) ([]DisciplineCount, error) {
	rows, err := s.store.IssueCountsByDiscipline(ctx, building)
	if err != nil {
		return nil, err
	}
	out := make([]DisciplineCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, DisciplineCount{Discipline: r.Label, Count: r.Count})
	}
	return out, nil
}

// IssuesByRoom counts issues per room name
func (s *Service) IssuesByRoom(ctx context.Context) ([]RoomCount, error) {
	rows, err := s.store.IssueCountsByRoomName(ctx, "", IssuesByRoomLimit)
	if err != nil {
		return nil, err
	}
	out := make([]RoomCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, RoomCount{Room: r.Label, Count: r.Count})
	}
	return out, nil
}

// TopDivergences returns the most frequent divergence descriptions
func (s *Service) TopDivergences(ctx context.Context) ([]DivergenceCount, error) {
	rows, err := s.store.TopDivergences(ctx, TopDivergencesLimit)
	if err != nil {
		return nil, err
	}
	out := make([]DivergenceCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, DivergenceCount{Divergence: r.Label, Count: r.Count})
	}
	return out, nil
}

// Buildings lists the building labels present in the room table
func (s *Service) Buildings(ctx context.Context) ([]string, error) {
	return s.store.ListBuildings(ctx)
}

// RoomsPerBuilding counts rooms per building
func (s *Service) RoomsPerBuilding(ctx context.Context) ([]BuildingCount, error) {
	rows, err := s.store.RoomCountsByBuilding(ctx)
	if err != nil {
		return nil, err
	}
	return buildingCounts(rows), nil
}

// IssuesPerBuilding counts issues per building through room names
func (s *Service) IssuesPerBuilding(ctx context.Context) ([]BuildingCount, error) {
	rows, err := s.store.IssueCountsByBuilding(ctx)
	if err != nil {
		return nil, err
	}
	return buildingCounts(rows), nil
}

func buildingCounts(rows []store.LabelCount) []BuildingCount {
	out := make([]BuildingCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, BuildingCount{Building: r.Label, Count: r.Count})
	}
	return out
}

// WeekKey formats the ISO-8601 year and week of t in UTC, e.g. 2026-W03
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// WeeklyTrend merges issues per week with rooms verified per week
func (s *Service) WeeklyTrend(ctx context.Context, building string) ([]WeekPoint, error) {
	issueDates, err := s.store.IssueDates(ctx, building)
	if err != nil {
		return nil, fmt.Errorf("failed to load issue dates: %w", err)
	}
	verifiedDates, err := s.store.VerificationDates(ctx, building)
	if err != nil {
		return nil, fmt.Errorf("failed to load verification dates: %w", err)
	}
	return MergeWeeks(issueDates, verifiedDates), nil
}

// MergeWeeks buckets both date series by WeekKey and merges them, sorted by
// week. The side missing a week reports 0.
func MergeWeeks(issueDates, verifiedDates []time.Time) []WeekPoint {
	weeks := make(map[string]*WeekPoint)
	point := func(key string) *WeekPoint {
		p, ok := weeks[key]
		if !ok {
			p = &WeekPoint{Week: key}
			weeks[key] = p
		}
		return p
	}

	for _, d := range issueDates {
		point(WeekKey(d)).Count++
	}
	for _, d := range verifiedDates {
		point(WeekKey(d)).VerifiedRooms++
	}

	out := make([]WeekPoint, 0, len(weeks))
	for _, p := range weeks {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

// Integrity finds issue groups whose room name is missing from the rooms
func (s *Service) Integrity(ctx context.Context) (*Integrity, error) {
	groups, err := s.store.IssueCountsByRoom(ctx, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to group issues: %w", err)
	}
	names, err := s.store.RoomNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load room names: %w", err)
	}

	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	report := &Integrity{Items: []UnmappedRoom{}}
	for _, g := range groups {
		if known[g.RoomName] {
			continue
		}
		report.Items = append(report.Items, UnmappedRoom{Room: g.RoomName, Building: g.Building, Issues: g.Count})
		report.UnmappedIssues += g.Count
	}
	report.UnmappedRooms = len(report.Items)
	report.HasProblems = report.UnmappedIssues > 0

	if report.HasProblems {
		s.log.Warn("issues reference unknown rooms",
			zap.Int("rooms", report.UnmappedRooms),
			zap.Int64("issues", report.UnmappedIssues))
	}
	return report, nil
}
