package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"cinemood/database"
	"cinemood/logging"
	"cinemood/services"
)

type WatchlistRequest struct {
	SessionID  string `json:"session_id" binding:"required"`
	ViewerName string `json:"viewer_name" binding:"max=80"`
}

type WatchlistResponse struct {
	WatchlistID string `json:"watchlist_id"`
	PDFURL      string `json:"pdf_url"`
	Message     string `json:"message"`
}

// GenerateWatchlist renders a stored session as a PDF and keeps the bytes in
// the store for /api/download/:id.
func (h *Handler) GenerateWatchlist(c *gin.Context) {
	var req WatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	ctx := c.Request.Context()

	sess, err := h.store.GetSession(ctx, req.SessionID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to load session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	var rows []GenreRow
	if sess.RowsJSON != "" {
		if err := json.Unmarshal([]byte(sess.RowsJSON), &rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse stored movie rows"})
			return
		}
	}
	var binge *services.Movie
	if sess.BingeJSON != "" {
		if err := json.Unmarshal([]byte(sess.BingeJSON), &binge); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse stored binge pick"})
			return
		}
	}

	pdfRows := make([]services.WatchlistRow, len(rows))
	for i, r := range rows {
		pdfRows[i] = services.WatchlistRow{Genre: r.Genre, Movies: r.Movies}
	}

	pdfBytes, err := services.GenerateWatchlistPDF(services.PDFData{
		ViewerName:  strings.TrimSpace(req.ViewerName),
		Emotion:     sess.Emotion,
		Weather:     sess.Weather,
		Temperature: sess.Temperature,
		Location:    sess.Location,
		Genres:      sess.Genres,
		Binge:       binge,
		Rows:        pdfRows,
		GeneratedAt: h.now(),
		IsEstimated: sess.Source == services.SourceEstimated,
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("PDF generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	id := uuid.New().String()
	if err := h.store.SaveWatchlist(ctx, &database.Watchlist{
		ID:         id,
		SessionID:  sess.ID,
		ViewerName: req.ViewerName,
		PDFData:    pdfBytes,
	}); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to save watchlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save generated PDF"})
		return
	}

	logging.Ctx(ctx).Info().Str("watchlist_id", id).Int("bytes", len(pdfBytes)).Msg("watchlist PDF generated")

	c.JSON(http.StatusOK, WatchlistResponse{
		WatchlistID: id,
		PDFURL:      "/api/download/" + id,
		Message:     "PDF generated successfully",
	})
}

func (h *Handler) Download(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing watchlist ID"})
		return
	}

	w, err := h.store.GetWatchlist(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Watchlist not found"})
		return
	}
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to load watchlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load watchlist"})
		return
	}
	if len(w.PDFData) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDF has not been generated for this watchlist"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=cinemood-watchlist.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", w.PDFData)
}
