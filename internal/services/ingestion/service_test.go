package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/database"
	"github.com/xelth-com/asbuiltgo/internal/ingest"
	"github.com/xelth-com/asbuiltgo/internal/lock"
	"github.com/xelth-com/asbuiltgo/internal/models"
	"github.com/xelth-com/asbuiltgo/internal/store"
)

func newTestService(t *testing.T, locker lock.Locker) (*Service, *store.Store) {
	t.Helper()

	db, err := database.OpenSQLite("file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	st := store.New(db, zap.NewNop())
	return NewService(st, locker, zap.NewNop()), st
}

func workbook(t *testing.T, rooms, issues int) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(ingest.RoomSheet)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(ingest.RoomSheet, "A1", &[]any{"Edificação", "Sala", "Status"}))
	for i := 0; i < rooms; i++ {
		require.NoError(t, f.SetSheetRow(ingest.RoomSheet, fmt.Sprintf("A%d", i+2), &[]any{"Bloco A", fmt.Sprintf("Sala %d", i), "VERIFICADA"}))
	}
	// one row without a room name is skipped
	require.NoError(t, f.SetSheetRow(ingest.RoomSheet, fmt.Sprintf("A%d", rooms+2), &[]any{"Bloco A", "", "PENDENTE"}))

	_, err = f.NewSheet(ingest.IssueSheet)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(ingest.IssueSheet, "A1", &[]any{"Número Apontamento", "Data", "Sala", "Disciplina"}))
	for i := 0; i < issues; i++ {
		require.NoError(t, f.SetSheetRow(ingest.IssueSheet, fmt.Sprintf("A%d", i+2), &[]any{i + 1, "15/01/2026", "Sala 0", "Civil"}))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestIngestRoundTrip(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.Ingest(ctx, "verificacao.xlsx", workbook(t, 3, 4), 0)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.TotalRooms)
	assert.Equal(t, 4, res.TotalIssues)
	assert.Equal(t, 1, res.Summary.SkippedRooms)
	assert.NotEmpty(t, res.BatchID)
	assert.NotZero(t, res.UploadID)

	rooms, err := st.ListRooms(ctx, "")
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, res.BatchID, rooms[0].BatchID)

	issues, err := st.ListIssues(ctx, "")
	require.NoError(t, err)
	require.Len(t, issues, 4)
	assert.Equal(t, res.BatchID, issues[0].BatchID)

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.UploadStatusProcessed, history[0].Status)
	assert.Equal(t, models.SystemUserID, history[0].UploadedBy)
	assert.Equal(t, "verificacao.xlsx", history[0].FileName)

	var summary ingest.Summary
	require.NoError(t, json.Unmarshal(history[0].Details, &summary))
	assert.Equal(t, []string{ingest.RoomSheet, ingest.IssueSheet}, summary.Sheets)

	// a second ingestion replaces the first generation
	_, err = svc.Ingest(ctx, "", workbook(t, 1, 0), 0)
	require.NoError(t, err)
	rooms, err = st.ListRooms(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	issues, err = st.ListIssues(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, issues)

	history, err = svc.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, DefaultFileName, history[0].FileName)
}

func TestIngestMalformedRecordsFailure(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "ok.xlsx", workbook(t, 2, 1), 0)
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, "broken.xlsx", []byte("not a workbook"), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrMalformedWorkbook)

	rooms, err := st.ListRooms(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rooms, 2, "previous dataset survives")

	history, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	statuses := []string{history[0].Status, history[1].Status}
	assert.ElementsMatch(t, []string{models.UploadStatusProcessed, models.UploadStatusFailed}, statuses)
	for _, u := range history {
		if u.Status == models.UploadStatusFailed {
			assert.Equal(t, "broken.xlsx", u.FileName)
			assert.NotEmpty(t, u.ErrorMessage)
		}
	}
}

func TestIngestRejectedWhileLocked(t *testing.T) {
	locker := lock.NewMemory()
	svc, _ := newTestService(t, locker)
	ctx := context.Background()

	release, err := locker.Acquire(ctx)
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, "a.xlsx", workbook(t, 1, 0), 0)
	assert.ErrorIs(t, err, lock.ErrLocked)

	history, err := svc.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	release()
	_, err = svc.Ingest(ctx, "a.xlsx", workbook(t, 1, 0), 0)
	assert.NoError(t, err)
}
