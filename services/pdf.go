package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
)

// WatchlistRow is one genre row as printed in the watchlist.
type WatchlistRow struct {
	Genre  string
	Movies []Movie
}

type PDFData struct {
	ViewerName  string
	Emotion     string
	Weather     string
	Temperature int
	Location    string
	Genres      string
	Binge       *Movie
	Rows        []WatchlistRow
	GeneratedAt time.Time
	IsEstimated bool // true when rows came from the fallback catalog
}

// maxMoviesPerRow keeps each genre section to a readable length.
const maxMoviesPerRow = 8

// GenerateWatchlistPDF renders a watchlist and returns the raw bytes.
func GenerateWatchlistPDF(data PDFData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// ── Footer ────────────────────────────────────────────────
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 8,
			fmt.Sprintf("Generated by cinemood - page %d", pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(20, 16, 36)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "cinemood", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(245, 158, 11)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Your mood-matched watchlist", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	if data.IsEstimated {
		pdf.SetFillColor(255, 248, 225)
		pdf.SetDrawColor(245, 158, 11)
		pdf.SetTextColor(130, 90, 20)
		pdf.SetFont("Helvetica", "I", 8)
		y := pdf.GetY()
		pdf.Rect(20, y, 170, 10, "FD")
		pdf.SetXY(23, y+3)
		pdf.CellFormat(164, 4, "Offline picks: the movie database was unavailable, titles come from a built-in list.", "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetDrawColor(0, 0, 0)
		pdf.Ln(6)
	}

	sectionHeader := func(title string) {
		pdf.SetFillColor(20, 16, 36)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(125, 7, tr(value), "", 1, "L", false, 0, "")
	}

	// ── Context ───────────────────────────────────────────────
	sectionHeader("Tonight's Context")
	name := data.ViewerName
	if name == "" {
		name = "Movie Lover"
	}
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	row("Viewer", name)
	row("Mood", titleCase(data.Emotion))
	row("Weather", fmt.Sprintf("%s, %d°", data.Weather, data.Temperature))
	if data.Location != "" {
		row("Location", data.Location)
	}
	row("Genres", data.Genres)
	row("Generated", generated.UTC().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	// ── Binge of the Day ──────────────────────────────────────
	if data.Binge != nil {
		sectionHeader("Binge of the Day")
		pdf.SetFillColor(245, 158, 11)
		pdf.SetTextColor(20, 16, 36)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(170, 9, tr(movieHeading(*data.Binge)), "", 1, "L", true, 0, "")
		pdf.SetTextColor(40, 40, 40)
		if data.Binge.Synopsis != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(170, 5, tr(data.Binge.Synopsis), "", "L", false)
		}
		pdf.Ln(4)
	}

	// ── Genre Rows ────────────────────────────────────────────
	for _, r := range data.Rows {
		sectionHeader(r.Genre + " Movies")
		if len(r.Movies) == 0 {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(170, 6, tr("No "+strings.ToLower(r.Genre)+" movies found"), "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(3)
			continue
		}
		for i, m := range r.Movies {
			if i >= maxMoviesPerRow {
				break
			}
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(20, 20, 20)
			pdf.CellFormat(150, 6, tr(fmt.Sprintf("%d. %s", i+1, movieHeading(m))), "", 0, "L", false, 0, "")
			pdf.SetTextColor(100, 100, 100)
			pdf.CellFormat(20, 6, fmt.Sprintf("%.1f/10", m.Rating), "", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func movieHeading(m Movie) string {
	if m.Year > 0 {
		return fmt.Sprintf("%s (%d)", m.Title, m.Year)
	}
	return m.Title
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
