package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xelth-com/asbuiltgo/internal/ingest"
	"github.com/xelth-com/asbuiltgo/internal/services/dashboard"
	"github.com/xelth-com/asbuiltgo/internal/services/ingestion"
)

func setupEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "asbuilt.db"))
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func writeWorkbook(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(ingest.RoomSheet)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(ingest.RoomSheet, "A1", &[]any{"Edificação", "Sala", "Status"}))
	require.NoError(t, f.SetSheetRow(ingest.RoomSheet, "A2", &[]any{"Bloco A", "Copa", "VERIFICADA"}))

	_, err = f.NewSheet(ingest.IssueSheet)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(ingest.IssueSheet, "A1", &[]any{"Número Apontamento", "Data", "Sala", "Disciplina"}))
	require.NoError(t, f.SetSheetRow(ingest.IssueSheet, "A2", &[]any{1, "15/01/2026", "Copa", "Civil"}))
	require.NoError(t, f.SetSheetRow(ingest.IssueSheet, "A3", &[]any{2, "16/01/2026", "Depósito", "Civil"}))

	require.NoError(t, f.SaveAs(path))
}

func TestCommands(t *testing.T) {
	dir := setupEnv(t)

	assert.Contains(t, run(t, "migrate"), "schema up to date (sqlite)")

	book := filepath.Join(dir, "verificacao.xlsx")
	writeWorkbook(t, book)

	var res ingestion.Result
	require.NoError(t, json.Unmarshal([]byte(run(t, "ingest", book)), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.TotalRooms)
	assert.Equal(t, 2, res.TotalIssues)

	var integrity dashboard.Integrity
	require.NoError(t, json.Unmarshal([]byte(run(t, "integrity")), &integrity))
	assert.True(t, integrity.HasProblems)
	require.Len(t, integrity.Items, 1)
	assert.Equal(t, "Depósito", integrity.Items[0].Room)

	weeks := run(t, "weeks")
	assert.Contains(t, weeks, "SEMANA")
	assert.Contains(t, weeks, "2026-W03")

	out := filepath.Join(dir, "apontamentos.xlsx")
	assert.Contains(t, run(t, "report", "excel", "--out", out), "wrote "+out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestReportRejectsUnknownFormat(t *testing.T) {
	setupEnv(t)

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "docx"})
	assert.Error(t, cmd.Execute())
}

func TestDemoDataset(t *testing.T) {
	rooms, issues := demoDataset("batch", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	assert.Len(t, rooms, len(demoBuildings)*len(demoFloors)*4)
	require.NotEmpty(t, issues)

	names := map[string]bool{}
	perRoom := map[string]int{}
	for _, r := range rooms {
		assert.False(t, names[r.Name], "room names are unique")
		names[r.Name] = true
	}
	for _, i := range issues {
		assert.True(t, names[i.RoomName])
		perRoom[i.RoomName]++
	}

	critical := 0
	for _, c := range perRoom {
		if dashboard.IsCritical(int64(c)) {
			critical++
		}
	}
	assert.Equal(t, 1, critical)
}

func TestSeedRequiresForce(t *testing.T) {
	setupEnv(t)

	assert.Contains(t, run(t, "seed"), "seeded 36 rooms")

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"seed"})
	assert.Error(t, cmd.Execute())

	assert.Contains(t, run(t, "seed", "--force"), "seeded")
}
