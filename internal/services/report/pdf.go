package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	pageMargin = 20.0
	qrSize     = 30.0
)

// PDF renders the executive report: KPIs, top rooms and status distribution
func (s *Service) PDF(ctx context.Context, building string) (*File, error) {
	kpis, err := s.dashboard.KPIs(ctx, building)
	if err != nil {
		return nil, err
	}
	topRooms, err := s.dashboard.TopImpactedRooms(ctx, building)
	if err != nil {
		return nil, err
	}
	dist, err := s.dashboard.StatusDistribution(ctx, building)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	// core fonts are cp1252; accents need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, tr("Relatório Executivo As Built"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s - %s", s.cfg.ProjectName, buildingLabel(building))), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	section := func(title string) {
		pdf.SetFont("Arial", "BU", 15)
		pdf.CellFormat(0, 9, tr(title), "", 1, "L", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 11)
	}
	line := func(text string) {
		pdf.CellFormat(0, 7, tr(text), "", 1, "L", false, 0, "")
	}

	section("Indicadores Chave (KPIs)")
	line(fmt.Sprintf("Total de Salas Mapeadas: %d", kpis.TotalRooms))
	line(fmt.Sprintf("Taxa de Verificação: %.1f%% (%d salas)", kpis.VerificationRate, kpis.VerifiedRooms))
	line(fmt.Sprintf("Liberado para Obra: %.1f%% (%d salas)", kpis.ReleaseRate, kpis.ReleasedRooms))
	line(fmt.Sprintf("Total de Apontamentos: %d", kpis.TotalIssues))
	line(fmt.Sprintf("Salas Críticas (>10 apontamentos): %d", kpis.CriticalRooms))
	line(fmt.Sprintf("Média de Apontamentos por Sala: %.1f", kpis.AverageIssues))
	pdf.Ln(8)

	if len(topRooms) > 0 {
		section("Top 5 Salas com Maior Impacto")
		for i, r := range topRooms {
			b := r.Building
			if b == "" {
				b = "N/A"
			}
			line(fmt.Sprintf("%d. %s (%s): %d apontamentos", i+1, r.RoomName, b, r.Count))
		}
		pdf.Ln(8)
	}

	section("Distribuição de Status")
	for _, d := range dist {
		line(fmt.Sprintf("%s: %d salas", d.Status, d.Count))
	}
	pdf.Ln(12)

	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, tr("Gerado automaticamente em "+s.now().Format("02/01/2006 15:04:05")), "", 1, "R", false, 0, "")

	if s.cfg.DashboardURL != "" {
		if err := s.drawDashboardQR(pdf); err != nil {
			// the report stays useful without the link
			s.log.Warn("could not render dashboard QR code", zap.Error(err))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return &File{
		FileName:    s.fileName(building, "pdf"),
		ContentType: ContentTypePDF,
		Data:        buf.Bytes(),
	}, nil
}

// drawDashboardQR places a QR code linking to the live dashboard in the
// bottom right corner of the current page
func (s *Service) drawDashboardQR(pdf *gofpdf.Fpdf) error {
	png, err := qrcode.Encode(s.cfg.DashboardURL, qrcode.Medium, 256)
	if err != nil {
		return err
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("dashboard_qr", opts, bytes.NewReader(png))
	if err := pdf.Error(); err != nil {
		return err
	}

	pageW, pageH := pdf.GetPageSize()
	x := pageW - pageMargin - qrSize
	y := pageH - pageMargin - qrSize - 6
	pdf.ImageOptions("dashboard_qr", x, y, qrSize, qrSize, false, opts, 0, s.cfg.DashboardURL)

	pdf.SetXY(x-20, y+qrSize)
	pdf.SetFont("Arial", "", 7)
	pdf.CellFormat(qrSize+20, 5, "Dashboard", "", 0, "C", false, 0, s.cfg.DashboardURL)
	return nil
}
