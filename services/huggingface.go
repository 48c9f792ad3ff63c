package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"cinemood/logging"
)

const hfInferenceURL = "https://api-inference.huggingface.co/models"

// HuggingFaceDetector runs speech-emotion audio classification on the
// HuggingFace inference API.
type HuggingFaceDetector struct {
	providerTransport
	apiKey  string
	model   string
	baseURL string
}

func NewHuggingFaceDetector(apiKey, model string, timeout time.Duration) *HuggingFaceDetector {
	d := &HuggingFaceDetector{
		providerTransport: newProviderTransport("huggingface", timeout),
		apiKey:            apiKey,
		model:             model,
		baseURL:           hfInferenceURL,
	}
	logging.Info().Str("model", model).Msg("HuggingFace emotion detector initialized")
	return d
}

func (d *HuggingFaceDetector) Name() string { return "huggingface" }

type hfClassification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (d *HuggingFaceDetector) Detect(ctx context.Context, filename string, audio []byte) (*EmotionResult, error) {
	if d.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(d.baseURL, "/"), d.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", audioContentType(filename))
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	body, err := d.do(req)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable {
			return nil, fmt.Errorf("emotion model is loading, please retry in a few seconds: %w", err)
		}
		return nil, err
	}

	var scores []hfClassification
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, fmt.Errorf("failed to parse classification: %w", err)
	}
	if len(scores) == 0 {
		return nil, errors.New("empty response from emotion model")
	}

	best := 0
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = s.Score
		if s.Score > scores[best].Score {
			best = i
		}
	}

	gender, emotion := splitLabel(scores[best].Label)
	return &EmotionResult{
		Gender:         gender,
		Emotion:        emotion,
		LabelRaw:       scores[best].Label,
		Probabilities:  probs,
		Confidence:     scores[best].Score,
		PredictedClass: best,
		Detector:       d.Name(),
	}, nil
}

func audioContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	case ".flac":
		return "audio/flac"
	default:
		return "audio/wav"
	}
}
