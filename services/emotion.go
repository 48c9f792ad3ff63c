package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"cinemood/logging"
)

// EmotionResult is what a voice-emotion backend reports for one clip.
// Emotion is passed to the recommender untouched.
type EmotionResult struct {
	Gender         string    `json:"gender"`
	Emotion        string    `json:"emotion"`
	LabelRaw       string    `json:"label_raw"`
	Probabilities  []float64 `json:"probabilities,omitempty"`
	Confidence     float64   `json:"confidence"`
	PredictedClass int       `json:"predicted_class"`
	Detector       string    `json:"detector"`
}

// EmotionDetector classifies a recorded voice clip.
type EmotionDetector interface {
	Detect(ctx context.Context, filename string, audio []byte) (*EmotionResult, error)
	Name() string
}

// ErrEmptyAudio is returned for zero-length uploads.
var ErrEmptyAudio = errors.New("audio clip is empty")

// splitLabel separates "female_angry" style labels; labels without a gender
// prefix report gender "unknown".
func splitLabel(label string) (gender, emotion string) {
	if g, e, ok := strings.Cut(label, "_"); ok {
		return g, e
	}
	return "unknown", label
}

// ─── Predict service ──────────────────────────────────────────────────────────

// PredictService calls a self-hosted model server exposing POST /predict with
// a multipart "file" field.
type PredictService struct {
	providerTransport
	baseURL string
}

func NewPredictService(baseURL string, timeout time.Duration) *PredictService {
	return &PredictService{
		providerTransport: newProviderTransport("emotion-predict", timeout),
		baseURL:           strings.TrimRight(baseURL, "/"),
	}
}

func (p *PredictService) Name() string { return "predict" }

type predictResponse struct {
	Gender         string    `json:"gender"`
	Emotion        string    `json:"emotion"`
	LabelRaw       string    `json:"label_raw"`
	Probabilities  []float64 `json:"probabilities"`
	Confidence     float64   `json:"confidence"`
	PredictedClass int       `json:"predicted_class"`
	Error          string    `json:"error"`
}

func (p *PredictService) Detect(ctx context.Context, filename string, audio []byte) (*EmotionResult, error) {
	if p.baseURL == "" {
		return nil, ErrNotConfigured
	}
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}
	if filename == "" {
		filename = "voice_sample.wav"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	respBody, err := p.do(req)
	if err != nil {
		return nil, fmt.Errorf("emotion prediction failed: %w", err)
	}

	var resp predictResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse prediction: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("emotion prediction failed: %s", resp.Error)
	}
	if resp.Emotion == "" {
		return nil, errors.New("invalid prediction response: no emotion")
	}

	gender := resp.Gender
	if gender == "" {
		gender, _ = splitLabel(resp.LabelRaw)
	}
	return &EmotionResult{
		Gender:         gender,
		Emotion:        resp.Emotion,
		LabelRaw:       resp.LabelRaw,
		Probabilities:  resp.Probabilities,
		Confidence:     resp.Confidence,
		PredictedClass: resp.PredictedClass,
		Detector:       p.Name(),
	}, nil
}

// ─── Chain ────────────────────────────────────────────────────────────────────

// DetectorChain tries each detector in order and returns the first success.
type DetectorChain []EmotionDetector

func (c DetectorChain) Name() string {
	names := make([]string, len(c))
	for i, d := range c {
		names[i] = d.Name()
	}
	return strings.Join(names, ",")
}

func (c DetectorChain) Detect(ctx context.Context, filename string, audio []byte) (*EmotionResult, error) {
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}
	var errs []error
	for _, d := range c {
		res, err := d.Detect(ctx, filename, audio)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrNotConfigured) {
			logging.Ctx(ctx).Warn().Err(err).Str("detector", d.Name()).Msg("emotion detector failed")
		}
		errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
	}
	if len(errs) == 0 {
		return nil, ErrNotConfigured
	}
	return nil, errors.Join(errs...)
}

// NewEmotionDetector prefers the HuggingFace backend when a key is set and
// keeps the self-hosted predict service as the next option.
func NewEmotionDetector(predictURL, hfKey, hfModel string, timeout time.Duration) DetectorChain {
	var chain DetectorChain
	if hfKey != "" {
		chain = append(chain, NewHuggingFaceDetector(hfKey, hfModel, timeout))
	}
	if predictURL != "" {
		chain = append(chain, NewPredictService(predictURL, timeout))
	}
	if len(chain) == 0 {
		logging.Warn().Msg("no emotion detector configured, voice uploads will be rejected")
	}
	return chain
}
