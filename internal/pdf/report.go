package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"tasktracker/internal/models"
	"tasktracker/internal/pagination"
)

// Generator is an interface so handlers can be tested with a mock.
type Generator interface {
	GenerateTaskReport(data ReportData) (string, error)
}

// ReportGenerator renders an owner's task listing into a PDF on disk.
type ReportGenerator struct {
	RootDir string // storage root, e.g. "./files"
}

type ReportData struct {
	OwnerName   string
	OwnerID     int64
	Tasks       []models.Task
	Stats       models.TaskStats
	Page        models.Pagination
	GeneratedAt time.Time
	Filename    string // base name only; generated when empty
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{RootDir: filepath.Clean(rootDir)}
}

// GenerateTaskReport writes the report and returns the absolute path of the
// produced file.
func (g *ReportGenerator) GenerateTaskReport(data ReportData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("tasks_owner_%d.pdf", data.OwnerID)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task report", false)
	pdf.SetAuthor("Task Tracker", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Task Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("%s — %s", data.OwnerName, data.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// Summary across the owner's whole task set, not just this page.
	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total", fmt.Sprintf("%d", data.Stats.Total))
	g.kvLine(pdf, "Pending", fmt.Sprintf("%d", data.Stats.Pending))
	g.kvLine(pdf, "In progress", fmt.Sprintf("%d", data.Stats.InProgress))
	g.kvLine(pdf, "Done", fmt.Sprintf("%d", data.Stats.Done))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Tasks")
	if pagination.ShouldRender(data.Page.TotalPages, data.Page.TotalCount) {
		start, end := pagination.ItemRange(data.Page.CurrentPage, data.Page.PageSize, data.Page.TotalCount)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6,
			fmt.Sprintf("Showing %d-%d of %d tasks (page %d of %d)",
				start, end, data.Page.TotalCount, data.Page.CurrentPage, data.Page.TotalPages),
			"", 1, "L", false, 0, "")
		pdf.Ln(1)
	}

	if len(data.Tasks) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, "No tasks match the current filter.", "", 1, "L", false, 0, "")
	}
	for _, t := range data.Tasks {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, t.Title, "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		line := fmt.Sprintf("[%s]  created %s", t.Status, t.CreatedAt.Format("2006-01-02"))
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		if t.Description != "" {
			pdf.MultiCell(0, 5, t.Description, "", "L", false)
		}
		pdf.Ln(2)
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // strip any path components
	return filepath.Join(g.RootDir, filename), nil
}
