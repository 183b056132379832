package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/database"
	"github.com/xelth-com/asbuiltgo/internal/models"
	"github.com/xelth-com/asbuiltgo/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := database.OpenSQLite("file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	svc := NewService(store.New(db, zap.NewNop()), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func validInput() Input {
	return Input{
		DocumentName:       "As-built Elétrico Bloco A",
		DocumentType:       "dwg",
		Building:           "Bloco A",
		Discipline:         "Elétrica",
		ResponsibleCompany: "ACME Engenharia",
		ExpectedAt:         "2026-02-01",
	}
}

func TestSaveCreatesAndUpdates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Save(ctx, validInput())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, models.DeliveryStatusAwaiting, created.Status)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), created.ExpectedAt)

	in := validInput()
	in.ID = created.ID
	in.Status = "recebido"
	received := "05/02/2026"
	in.ReceivedAt = &received
	updated, err := svc.Save(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusReceived, got.Status)
	require.NotNil(t, got.ReceivedAt)
	assert.Equal(t, 5, got.ReceivedAt.Day())

	list, err := svc.List(ctx, "Bloco A", "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveUnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(t)

	in := validInput()
	in.ID = 404
	_, err := svc.Save(context.Background(), in)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		edit  func(*Input)
		field string
	}{
		{"missing name", func(in *Input) { in.DocumentName = " " }, "nomeDocumento"},
		{"missing company", func(in *Input) { in.ResponsibleCompany = "" }, "empresaResponsavel"},
		{"missing expected date", func(in *Input) { in.ExpectedAt = "" }, "dataPrevista"},
		{"bad expected date", func(in *Input) { in.ExpectedAt = "amanhã" }, "dataPrevista"},
		{"bare year", func(in *Input) { in.ExpectedAt = "2026" }, "dataPrevista"},
		{"serial number", func(in *Input) { in.ExpectedAt = "46037" }, "dataPrevista"},
		{"bad received date", func(in *Input) { s := "???"; in.ReceivedAt = &s }, "dataRecebimento"},
		{"unknown status", func(in *Input) { in.Status = "PERDIDO" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.edit(&in)

			_, err := svc.Save(ctx, in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	list, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	save := func(building, status, expected string) {
		in := validInput()
		in.Building = building
		in.Status = status
		in.ExpectedAt = expected
		_, err := svc.Save(ctx, in)
		require.NoError(t, err)
	}
	save("Bloco A", models.DeliveryStatusAwaiting, "2026-02-01") // overdue
	save("Bloco A", models.DeliveryStatusAwaiting, "2026-03-01") // not yet due
	save("Bloco A", models.DeliveryStatusReceived, "2026-01-01") // late but received
	save("Bloco A", models.DeliveryStatusReviewing, "2026-01-01")
	save("Bloco B", models.DeliveryStatusValidated, "2026-01-01")
	save("Bloco B", models.DeliveryStatusRejected, "2026-01-01")

	all, err := svc.Stats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, &Stats{Total: 6, Awaiting: 2, Received: 1, Reviewing: 1, Validated: 1, Rejected: 1, Overdue: 1}, all)

	a, err := svc.Stats(ctx, "Bloco A")
	require.NoError(t, err)
	assert.Equal(t, 4, a.Total)
	assert.Equal(t, 1, a.Overdue)
	assert.Zero(t, a.Validated)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	d, err := svc.Save(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, d.ID))
	assert.ErrorIs(t, svc.Delete(ctx, d.ID), store.ErrNotFound)
}
