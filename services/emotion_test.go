package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSplitLabel(t *testing.T) {
	tests := []struct {
		label, gender, emotion string
	}{
		{"female_angry", "female", "angry"},
		{"male_sad", "male", "sad"},
		{"neutral", "unknown", "neutral"},
		{"", "unknown", ""},
	}
	for _, tt := range tests {
		g, e := splitLabel(tt.label)
		if g != tt.gender || e != tt.emotion {
			t.Errorf("splitLabel(%q) = %q, %q; want %q, %q", tt.label, g, e, tt.gender, tt.emotion)
		}
	}
}

func TestPredictServiceDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "RIFF-audio" || hdr.Filename != "clip.webm" {
			t.Errorf("upload = %q (%s)", data, hdr.Filename)
		}
		_, _ = w.Write([]byte(`{"gender":"female","emotion":"sad","label_raw":"female_sad","probabilities":[0.1,0.9],"confidence":0.9,"predicted_class":1}`))
	}))
	defer srv.Close()

	p := NewPredictService(srv.URL+"/", time.Second)
	res, err := p.Detect(context.Background(), "/tmp/clip.webm", []byte("RIFF-audio"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Emotion != "sad" || res.Gender != "female" || res.Confidence != 0.9 || res.Detector != "predict" {
		t.Errorf("result = %+v", res)
	}
}

func TestPredictServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Unsupported audio format. Please try recording again."}`))
	}))
	defer srv.Close()

	p := NewPredictService(srv.URL, time.Second)
	_, err := p.Detect(context.Background(), "a.wav", []byte("x"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Errorf("err = %v, want 400 APIError", err)
	}

	if _, err := p.Detect(context.Background(), "a.wav", nil); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("empty audio err = %v", err)
	}
}

func TestPredictServiceMissingEmotion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"label_raw":"?"}`))
	}))
	defer srv.Close()

	if _, err := NewPredictService(srv.URL, time.Second).Detect(context.Background(), "a.wav", []byte("x")); err == nil {
		t.Error("expected error when response has no emotion")
	}
}

func TestHuggingFaceDetector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer hf-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "audio/webm" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if !strings.HasSuffix(r.URL.Path, "/org/emotion-model") {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"label":"calm","score":0.2},{"label":"angry","score":0.7},{"label":"sad","score":0.1}]`))
	}))
	defer srv.Close()

	d := NewHuggingFaceDetector("hf-key", "org/emotion-model", time.Second)
	d.baseURL = srv.URL
	res, err := d.Detect(context.Background(), "voice.webm", []byte("audio"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Emotion != "angry" || res.PredictedClass != 1 || res.Gender != "unknown" || len(res.Probabilities) != 3 {
		t.Errorf("result = %+v", res)
	}
}

func TestHuggingFaceModelLoading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := NewHuggingFaceDetector("hf-key", "m", time.Second)
	d.baseURL = srv.URL
	_, err := d.Detect(context.Background(), "v.wav", []byte("audio"))
	if err == nil || !strings.Contains(err.Error(), "loading") {
		t.Errorf("err = %v, want model loading error", err)
	}
}

type stubDetector struct {
	name string
	res  *EmotionResult
	err  error
}

func (s stubDetector) Name() string { return s.name }

func (s stubDetector) Detect(context.Context, string, []byte) (*EmotionResult, error) {
	return s.res, s.err
}

func TestDetectorChain(t *testing.T) {
	ok := &EmotionResult{Emotion: "happy", Detector: "second"}
	chain := DetectorChain{
		stubDetector{name: "first", err: errors.New("boom")},
		stubDetector{name: "second", res: ok},
	}
	res, err := chain.Detect(context.Background(), "a.wav", []byte("x"))
	if err != nil || res != ok {
		t.Fatalf("Detect = %+v, %v", res, err)
	}
	if chain.Name() != "first,second" {
		t.Errorf("Name = %q", chain.Name())
	}

	failing := DetectorChain{stubDetector{name: "only", err: errors.New("down")}}
	if _, err := failing.Detect(context.Background(), "a.wav", []byte("x")); err == nil || !strings.Contains(err.Error(), "only: down") {
		t.Errorf("err = %v", err)
	}

	var empty DetectorChain
	if _, err := empty.Detect(context.Background(), "a.wav", []byte("x")); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("empty chain err = %v, want ErrNotConfigured", err)
	}
}

func TestNewEmotionDetectorOrder(t *testing.T) {
	chain := NewEmotionDetector("http://predict", "key", "model", time.Second)
	if chain.Name() != "huggingface,predict" {
		t.Errorf("chain = %q", chain.Name())
	}
	if got := NewEmotionDetector("", "", "", time.Second); len(got) != 0 {
		t.Errorf("chain = %q, want empty", got.Name())
	}
}
