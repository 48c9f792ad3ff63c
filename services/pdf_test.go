package services

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf8"
)

func TestGenerateWatchlistPDF(t *testing.T) {
	binge := FallbackMovies([]int{35})[0]
	out, err := GenerateWatchlistPDF(PDFData{
		ViewerName:  "Zoë",
		Emotion:     "happy",
		Weather:     "Clear",
		Temperature: 72,
		Location:    "São Paulo",
		Genres:      "Comedy, Adventure, Family",
		Binge:       &binge,
		Rows: []WatchlistRow{
			{Genre: "Comedy", Movies: FallbackMovies([]int{35})},
			{Genre: "Western"},
		},
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
		IsEstimated: true,
	})
	if err != nil {
		t.Fatalf("GenerateWatchlistPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", out[:min(len(out), 8)])
	}
}

func TestGenerateWatchlistPDFManyPages(t *testing.T) {
	var rows []WatchlistRow
	for _, id := range []int{28, 12, 35, 18, 27, 53, 10751, 99, 9648, 10749, 10752, 80} {
		rows = append(rows, WatchlistRow{Genre: GenreName(id), Movies: FallbackMovies([]int{id})})
	}
	out, err := GenerateWatchlistPDF(PDFData{Emotion: "calm", Weather: "Rain", Rows: rows})
	if err != nil {
		t.Fatalf("GenerateWatchlistPDF: %v", err)
	}
	if len(out) == 0 {
		t.Error("empty output")
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"happy", "Happy"},
		{"SAD", "Sad"},
		{"élan", "Élan"},
		{"ÉTÉ", "Été"},
		{"über", "Über"},
		{"ñ", "Ñ"},
		{"日本", "日本"},
	}
	for _, tt := range tests {
		got := titleCase(tt.in)
		if got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("titleCase(%q) produced invalid UTF-8 %q", tt.in, got)
		}
	}
}
