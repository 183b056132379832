// Package ingest turns an uploaded verification workbook into room and issue
// records. Header names vary between workbook revisions, so every column is
// resolved through an ordered chain of matchers (see columns.go).
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/models"
)

// Fixed sheet names. Either sheet may be absent.
const (
	RoomSheet  = "Mapeamento Salas"
	IssueSheet = "Apontamentos RA Obra"
)

// ErrMalformedWorkbook is returned when the bytes are not a readable workbook
var ErrMalformedWorkbook = errors.New("failed to process Excel file")

// ErrLegacyWorkbook is returned for BIFF .xls files, which must be saved as
// .xlsx before upload
var ErrLegacyWorkbook = errors.New("legacy .xls workbook is not supported, save it as .xlsx")

// OLE2 compound file signature that wraps BIFF workbooks
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Summary describes what was read from the workbook
type Summary struct {
	Sheets        []string `json:"sheets"`
	RoomRows      int      `json:"roomRows"`
	IssueRows     int      `json:"issueRows"`
	SkippedRooms  int      `json:"skippedRooms"`
	SkippedIssues int      `json:"skippedIssues"`
}

// Result holds the normalized records in sheet order
type Result struct {
	Rooms   []models.Room
	Issues  []models.Issue
	Summary Summary
}

// Parser reads workbooks. The zero value is ready to use.
type Parser struct {
	// Now supplies the issue date when the Data cell is blank or unreadable
	Now func() time.Time
	Log *zap.Logger
}

// Parse reads a workbook with the default parser
func Parse(data []byte) (*Result, error) {
	var p Parser
	return p.Parse(data)
}

// Parse reads both sheets of the workbook
func (p *Parser) Parse(data []byte) (*Result, error) {
	if bytes.HasPrefix(data, oleSignature) {
		return nil, ErrLegacyWorkbook
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	defer f.Close()

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	res := &Result{
		Rooms:  []models.Room{},
		Issues: []models.Issue{},
	}
	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}

	if sheets[RoomSheet] {
		res.Summary.Sheets = append(res.Summary.Sheets, RoomSheet)
		records, err := readSheet(f, RoomSheet)
		if err != nil {
			return nil, err
		}
		p.logHeader(RoomSheet, records)
		for _, rec := range records {
			res.Summary.RoomRows++
			room, ok := roomFromRecord(rec, date1904)
			if !ok {
				res.Summary.SkippedRooms++
				continue
			}
			res.Rooms = append(res.Rooms, room)
		}
	}

	if sheets[IssueSheet] {
		res.Summary.Sheets = append(res.Summary.Sheets, IssueSheet)
		records, err := readSheet(f, IssueSheet)
		if err != nil {
			return nil, err
		}
		p.logHeader(IssueSheet, records)
		for _, rec := range records {
			res.Summary.IssueRows++
			issue, ok := issueFromRecord(rec, date1904, p.now)
			if !ok {
				res.Summary.SkippedIssues++
				continue
			}
			res.Issues = append(res.Issues, issue)
		}
	}

	return res, nil
}

func (p *Parser) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

func (p *Parser) logHeader(sheet string, records []record) {
	if p.Log == nil || len(records) == 0 {
		return
	}
	p.Log.Debug("workbook sheet header",
		zap.String("sheet", sheet),
		zap.Strings("keys", records[0].keys),
		zap.Int("rows", len(records)))
}

// readSheet returns the data rows of a sheet keyed by header
func readSheet(f *excelize.File, sheet string) ([]record, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrMalformedWorkbook, sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	keys := headerKeys(rows[0])
	records := make([]record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rec, ok := newRecord(keys, row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func roomFromRecord(rec record, date1904 bool) (models.Room, bool) {
	name := colRoom.value(rec)
	if name == "" {
		return models.Room{}, false
	}

	room := models.Room{
		Building:          colBuilding.value(rec),
		Floor:             colFloor.value(rec),
		Sector:            colSector.value(rec),
		Name:              name,
		RoomNumber:        colRoomNumber.value(rec),
		Augin:             truthy(colAugin.value(rec)),
		Status:            colStatus.value(rec),
		StatusRA:          optional(colStatusRA.value(rec)),
		VerifiedAt:        normalizeDate(colVerifiedAt.value(rec), date1904),
		MissingDiscipline: optional(colMissingDiscipline.value(rec)),
		Review:            optional(colReview.value(rec)),
		Notes:             optional(colNotes.value(rec)),
	}
	if room.Status == "" {
		room.Status = models.RoomStatusPending
	}
	return room, true
}

func issueFromRecord(rec record, date1904 bool, now func() time.Time) (models.Issue, bool) {
	raw := colIssueNumber.value(rec)
	if raw == "" {
		return models.Issue{}, false
	}

	issue := models.Issue{
		Number:     toInt(raw),
		Building:   colBuilding.value(rec),
		Floor:      colFloor.value(rec),
		Sector:     colSector.value(rec),
		RoomName:   colRoom.value(rec),
		Discipline: colDiscipline.value(rec),
		Divergence: optional(colDivergence.value(rec)),
	}
	if d := normalizeDate(colIssueDate.value(rec), date1904); d != nil {
		issue.Date = *d
	} else {
		issue.Date = now()
	}
	return issue, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// truthy marks any non-empty Augin? cell
func truthy(s string) int {
	if s == "" {
		return 0
	}
	return 1
}

// toInt reads a numeric cell; anything unreadable counts as 0
func toInt(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
