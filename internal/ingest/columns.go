package ingest

import (
	"fmt"
	"strings"
)

// record is one data row keyed by header. keys keeps column order so that
// heuristic matchers are deterministic.
type record struct {
	keys   []string
	values map[string]string
}

func (r record) get(key string) string {
	return r.values[key]
}

// placeholderKey names an unlabeled column by its 0-based position, so the
// blank header in column G becomes "__EMPTY_6".
func placeholderKey(index int) string {
	return fmt.Sprintf("__EMPTY_%d", index)
}

// headerKeys turns a header row into unique lookup keys.
func headerKeys(header []string) []string {
	keys := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = placeholderKey(i)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		} else {
			seen[h] = 0
		}
		keys[i] = h
	}
	return keys
}

// newRecord binds a raw row to the header keys. Cells past the end of the
// header get placeholder keys. Returns false for a fully blank row.
func newRecord(keys []string, row []string) (record, bool) {
	rec := record{values: make(map[string]string, len(row))}
	blank := true
	for i, cell := range row {
		key := placeholderKey(i)
		if i < len(keys) {
			key = keys[i]
		}
		v := strings.TrimSpace(cell)
		if v != "" {
			blank = false
		}
		rec.keys = append(rec.keys, key)
		rec.values[key] = v
	}
	return rec, !blank
}

// matcher finds a column value in a record
type matcher interface {
	find(rec record) (string, bool)
}

// exactHeaders matches any of a fixed set of header names, in order
type exactHeaders []string

func (m exactHeaders) find(rec record) (string, bool) {
	for _, h := range m {
		if v := rec.get(h); v != "" {
			return v, true
		}
	}
	return "", false
}

// headerContains matches the first header (in column order) whose lower-case
// text contains all of `all` and at least one of `any`.
type headerContains struct {
	all []string
	any []string
}

func (m headerContains) find(rec record) (string, bool) {
	for _, key := range rec.keys {
		lower := strings.ToLower(key)
		if !containsAll(lower, m.all) || !containsAny(lower, m.any) {
			continue
		}
		if v := rec.get(key); v != "" {
			return v, true
		}
	}
	return "", false
}

// positional matches the placeholder key of an unlabeled column
type positional int

func (m positional) find(rec record) (string, bool) {
	v := rec.get(placeholderKey(int(m)))
	return v, v != ""
}

// columnRule tries its matchers in sequence and returns the first hit
type columnRule []matcher

func (r columnRule) value(rec record) string {
	for _, m := range r {
		if v, ok := m.find(rec); ok {
			return v
		}
	}
	return ""
}

func exact(names ...string) columnRule {
	return columnRule{exactHeaders(names)}
}

func containsAll(s string, parts []string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

func containsAny(s string, parts []string) bool {
	if len(parts) == 0 {
		return true
	}
	for _, p := range parts {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Room sheet columns
var (
	colBuilding          = exact("Edificação", "Edificacao")
	colFloor             = exact("Pavimento")
	colSector            = exact("Setor")
	colRoom              = exact("Sala")
	colRoomNumber        = exact("Número Sala", "Numero Sala")
	colAugin             = exact("Augin?")
	colStatus            = exact("Status")
	colMissingDiscipline = exact("Faltou Disciplina?")
	colReview            = exact("Revisar")
	colNotes             = exact("Obs")

	// Column G; the header is missing or spelled differently across workbooks.
	colStatusRA = columnRule{
		exactHeaders{"Status RA", "statusRa", "statusRA", "StatusRA", "STATUS RA"},
		headerContains{all: []string{"status"}, any: []string{"ra", "obra"}},
		positional(6),
	}

	// Column H
	colVerifiedAt = columnRule{
		exactHeaders{"Data Verificada", "Data de Verificação", "Data Verif", "DataVerificada", "DATA VERIFICADA"},
		headerContains{all: []string{"data"}, any: []string{"verif", "progresso"}},
		positional(7),
	}
)

// Issue sheet columns
var (
	colIssueNumber = exact("Número Apontamento", "Numero Apontamento")
	colIssueDate   = exact("Data")
	colDiscipline  = exact("Disciplina")
	colDivergence  = exact("Divergência", "Divergencia")
)
