// Package report renders PDF and Excel snapshots of the dashboard
package report

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/config"
	"github.com/xelth-com/asbuiltgo/internal/services/dashboard"
	"github.com/xelth-com/asbuiltgo/internal/store"
	"github.com/xelth-com/asbuiltgo/internal/utils"
)

// Content types of the rendered files
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AllBuildings labels reports without a building filter
const AllBuildings = "Todas as Edificações"

// File is a rendered report
type File struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// Service renders reports from the live dashboard views
type Service struct {
	dashboard *dashboard.Service
	store     *store.Store
	cfg       config.ReportConfig
	log       *zap.Logger
	now       func() time.Time
}

// NewService creates a report service
func NewService(dash *dashboard.Service, st *store.Store, cfg config.ReportConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		dashboard: dash,
		store:     st,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func buildingLabel(building string) string {
	if building == "" {
		return AllBuildings
	}
	return building
}

// fileName builds e.g. relatorio-asbuilt_Bloco_A_20260115.pdf
func (s *Service) fileName(building, ext string) string {
	scope := "todas"
	if building != "" {
		scope = utils.SanitizeFileName(building)
	}
	return fmt.Sprintf("relatorio-asbuilt_%s_%s.%s", scope, s.now().Format("20060102"), ext)
}
