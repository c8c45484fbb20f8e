// Package whisper implements transcription.Engine against a faster-whisper
// HTTP sidecar. The sidecar loads the model once at startup; this client
// holds the fixed model-size identifier and forwards decode options with
// each request.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	apperrors "github.com/skillsenselab/lisan/errors"
	"github.com/skillsenselab/lisan/transcription"
)

const (
	// EngineName is the registered name for the Whisper engine.
	EngineName = "whisper"

	defaultWhisperURL     = "http://localhost:8387"
	defaultWhisperModel   = "tiny"
	defaultWhisperTimeout = 120 * time.Second
)

// Config holds configuration for the Whisper transcription engine.
type Config struct {
	URL         string        `json:"url" yaml:"url"`
	Model       string        `json:"model" yaml:"model"`
	Device      string        `json:"device,omitempty" yaml:"device"`
	ComputeType string        `json:"compute_type,omitempty" yaml:"compute_type"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// Engine implements transcription.Engine using a faster-whisper HTTP sidecar.
type Engine struct {
	cfg    Config
	client *http.Client
}

// NewEngine creates a new Whisper transcription engine.
func NewEngine(cfg Config) *Engine {
	if cfg.URL == "" {
		cfg.URL = defaultWhisperURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultWhisperModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultWhisperTimeout
	}
	return &Engine{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Factory returns a transcription.Factory that creates Whisper engines
// from a generic config map.
func Factory() transcription.Factory {
	return func(cfg map[string]any) (transcription.Engine, error) {
		wc := Config{}
		if v, ok := cfg["url"].(string); ok {
			wc.URL = v
		}
		if v, ok := cfg["model"].(string); ok {
			wc.Model = v
		}
		if v, ok := cfg["device"].(string); ok {
			wc.Device = v
		}
		if v, ok := cfg["compute_type"].(string); ok {
			wc.ComputeType = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			wc.Timeout = v
		}
		return NewEngine(wc), nil
	}
}

// Name returns the engine name.
func (e *Engine) Name() string { return EngineName }

// ModelSize returns the configured model identifier.
func (e *Engine) ModelSize() string { return e.cfg.Model }

// IsAvailable checks if the Whisper sidecar is reachable.
func (e *Engine) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.URL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Transcribe sends an audio file to the Whisper sidecar and returns the
// transcription. All decode options are forwarded as form fields; the
// sidecar applies them as-is.
func (e *Engine) Transcribe(ctx context.Context, path string, opts transcription.Options) (*transcription.Result, error) {
	audioData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	_ = writer.WriteField("model", e.cfg.Model)
	if e.cfg.Device != "" {
		_ = writer.WriteField("device", e.cfg.Device)
	}
	if e.cfg.ComputeType != "" {
		_ = writer.WriteField("compute_type", e.cfg.ComputeType)
	}
	if opts.Language != "" {
		_ = writer.WriteField("language", opts.Language)
	}
	if opts.Task != "" {
		_ = writer.WriteField("task", opts.Task)
	}
	_ = writer.WriteField("temperature", strconv.FormatFloat(opts.Temperature, 'f', -1, 64))
	_ = writer.WriteField("beam_size", strconv.Itoa(opts.BeamSize))
	if opts.InitialPrompt != "" {
		_ = writer.WriteField("initial_prompt", opts.InitialPrompt)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL+"/transcribe", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	// A transport-level failure means the sidecar itself is unreachable,
	// distinct from the sidecar rejecting the request.
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.ExternalServiceError("whisper", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("whisper error (status %d): %s", resp.StatusCode, string(body))
	}

	var result whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}

	return toResult(&result), nil
}

// --- internal Whisper API response types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toResult(resp *whisperResponse) *transcription.Result {
	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
	}

	var duration float64
	if len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}

	return &transcription.Result{
		Text:     resp.Text,
		Segments: segments,
		Duration: duration,
		Language: resp.Language,
	}
}
