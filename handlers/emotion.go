package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinemood/logging"
	"cinemood/metrics"
	"cinemood/services"
)

// maxAudioBytes bounds voice uploads (about a minute of 16-bit 44.1kHz wav).
const maxAudioBytes = 10 << 20

type EmotionResponse struct {
	*services.EmotionResult
	Genres     string   `json:"genres,omitempty"`
	GenreList  []string `json:"genre_list,omitempty"`
	WeatherKey string   `json:"weather_key,omitempty"`
}

// DetectEmotion classifies an uploaded voice clip (multipart field "file").
// When the form also carries weather or location, genres for the detected
// emotion are returned alongside.
func (h *Handler) DetectEmotion(c *gin.Context) {
	if h.emotion == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Emotion detection is not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxAudio)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Audio file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read audio file"})
		return
	}
	defer f.Close()
	audio, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read audio file"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.emotion.Detect(ctx, fh.Filename, audio)
	if err != nil {
		var apiErr *services.APIError
		switch {
		case errors.Is(err, services.ErrEmptyAudio):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Audio file is empty"})
		case errors.Is(err, services.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Emotion detection is not configured"})
		case errors.As(err, &apiErr) && apiErr.Status < 500:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported audio format. Please try recording again."})
		default:
			logging.Ctx(ctx).Error().Err(err).Msg("emotion detection failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Emotion detection failed"})
		}
		return
	}

	resp := EmotionResponse{EmotionResult: result}
	weather, location := c.PostForm("weather"), c.PostForm("location")
	if weather != "" || location != "" {
		rec := services.RecommendGenres(result.Emotion, weather, location)
		metrics.RecommendationsTotal.WithLabelValues(rec.EmotionKey, rec.WeatherKey).Inc()
		resp.Genres = rec.String()
		resp.GenreList = rec.Genres
		resp.WeatherKey = rec.WeatherKey
	}

	logging.Ctx(ctx).Info().
		Str("emotion", result.Emotion).
		Float64("confidence", result.Confidence).
		Str("detector", result.Detector).
		Msg("emotion detected")
	c.JSON(http.StatusOK, resp)
}
