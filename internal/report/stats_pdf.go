// Package report renders statistics summaries as printable documents.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/pkordes/product-registry/internal/stats"
)

// rankingRows caps each ranking table.
const rankingRows = 10

// StatsPDF renders s as a single A4 document. generated is printed in the
// header as given.
func StatsPDF(s stats.Summary, generated string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Product Registry Statistics", false)
	pdf.SetCreationDate(time.Now())
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Product Registry Statistics")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Generated: "+tr(generated))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Totals")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range [][2]string{
		{"Registrations", fmt.Sprint(s.Total)},
		{"Distinct users", fmt.Sprint(s.DistinctUsers)},
		{"Distinct products", fmt.Sprint(s.DistinctProducts)},
		{"Distinct locations", fmt.Sprint(s.DistinctLocations)},
		{"Top user", topName(s.TopUser)},
		{"Top product", topName(s.TopProduct)},
	} {
		pdf.Cell(60, 7, row[0])
		pdf.Cell(120, 7, fitText(pdf, tr, row[1], 120))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Last %d days", len(s.Daily)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, d := range s.Daily {
		pdf.Cell(60, 7, tr(d.Date))
		pdf.Cell(30, 7, fmt.Sprint(d.Count))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	for _, sec := range []struct {
		title string
		rows  []stats.Count
	}{
		{"Users", s.Users},
		{"Products", s.Products},
		{"Locations", s.Locations},
		{"Purposes", s.Purposes},
	} {
		rankingTable(pdf, tr, sec.title, sec.rows)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report.StatsPDF: %w", err)
	}
	return buf.Bytes(), nil
}

func rankingTable(pdf *gofpdf.Fpdf, tr func(string) string, title string, rows []stats.Count) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 7, "No registrations yet")
		pdf.Ln(10)
		return
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(100, 7, "Name", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Count", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	if len(rows) > rankingRows {
		rows = rows[:rankingRows]
	}
	for _, r := range rows {
		pdf.CellFormat(100, 7, fitText(pdf, tr, r.Name, 100), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprint(r.Count), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

// fitText translates s and shortens it with a trailing "..." until it fits a
// cell of width w in the current font.
func fitText(pdf *gofpdf.Fpdf, tr func(string) string, s string, w float64) string {
	room := w - 2*pdf.GetCellMargin()
	out := tr(s)
	if pdf.GetStringWidth(out) <= room {
		return out
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		out = tr(string(runes)) + "..."
		if pdf.GetStringWidth(out) <= room {
			return out
		}
	}
	return "..."
}

func topName(c *stats.Count) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", c.Name, c.Count)
}
