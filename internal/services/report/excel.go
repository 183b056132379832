package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// IssueSheet is the single sheet of the Excel export
const IssueSheet = "Relatório de Apontamentos"

var issueColumns = []struct {
	header string
	width  float64
}{
	{"Edificação", 20},
	{"Pavimento", 15},
	{"Setor", 10},
	{"Sala", 25},
	{"Disciplina", 20},
	{"Divergência", 50},
	{"Data", 15},
}

// Excel renders the flat issue listing
func (s *Service) Excel(ctx context.Context, building string) (*File, error) {
	issues, err := s.store.ListIssues(ctx, building)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", IssueSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E0E0E0"},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range issueColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(IssueSheet, cell, col.header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(IssueSheet, name, name, col.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(issueColumns), 1)
	if err := f.SetCellStyle(IssueSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, issue := range issues {
		divergence := ""
		if issue.Divergence != nil {
			divergence = *issue.Divergence
		}
		date := ""
		if !issue.Date.IsZero() {
			date = issue.Date.UTC().Format("02/01/2006")
		}

		row := []interface{}{
			issue.Building,
			issue.Floor,
			issue.Sector,
			issue.RoomName,
			issue.Discipline,
			divergence,
			date,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(IssueSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(IssueSheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &File{
		FileName:    s.fileName(building, "xlsx"),
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}
