// Package service implements the transcription workflow: request
// validation, temp file handling, engine invocation, and Arabic dialect
// annotation.
package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/skillsenselab/lisan/dialect"
	"github.com/skillsenselab/lisan/errors"
	"github.com/skillsenselab/lisan/logger"
	"github.com/skillsenselab/lisan/observability"
	"github.com/skillsenselab/lisan/transcription"
	"github.com/skillsenselab/lisan/validation"
)

// InitialPromptLevantine steers the model toward Levantine Arabic with
// colloquial vocabulary.
const InitialPromptLevantine = "نص عربي يحتوي على لهجات شامية مع بعض الكلمات العامية."

// AllowedExtensions lists the accepted audio file extensions, lowercase
// with leading dot.
var AllowedExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac"}

// Request carries one transcription job.
type Request struct {
	Filename           string
	Data               []byte
	Language           string
	IncludeDialectInfo bool
	Temperature        float64
	BeamSize           int
}

// Response is the transcription result returned to API clients.
type Response struct {
	Text                  string                  `json:"text"`
	Segments              []transcription.Segment `json:"segments"`
	Language              string                  `json:"language"`
	ProcessingTimeSeconds float64                 `json:"processing_time_seconds"`
	ModelUsed             string                  `json:"model_used"`
}

// TranscribeService runs transcriptions against a single engine loaded
// at startup.
type TranscribeService struct {
	engine    transcription.Engine
	annotator *dialect.Annotator
	metrics   *observability.Metrics
	log       *logger.Logger
}

// New creates a TranscribeService. metrics may be nil when metrics are
// disabled.
func New(engine transcription.Engine, annotator *dialect.Annotator, metrics *observability.Metrics) *TranscribeService {
	return &TranscribeService{
		engine:    engine,
		annotator: annotator,
		metrics:   metrics,
		log:       logger.WithComponent("service"),
	}
}

// ModelSize reports the size of the engine's loaded model.
func (s *TranscribeService) ModelSize() string {
	return s.engine.ModelSize()
}

// Transcribe validates the request, writes the audio to a temp file,
// runs the engine, and applies dialect annotation for Arabic when
// requested. The temp file is removed before returning on every path.
func (s *TranscribeService) Transcribe(ctx context.Context, req *Request) (*Response, error) {
	if err := validation.New().Required("filename", req.Filename).Validate(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !extensionAllowed(ext) {
		s.metrics.RecordError(ctx, string(errors.ErrCodeUnsupportedFormat), "service")
		return nil, errors.UnsupportedFormat(ext, AllowedExtensions)
	}

	ctx, op, span := observability.StartOperation(ctx, "lisan", "transcribe", s.metrics)

	result, err := s.run(ctx, req, ext)
	if err != nil {
		op.End(ctx, span, "error", err)
		fields := logger.ErrorFields("transcribe", err)
		fields["filename"] = req.Filename
		s.log.Error("transcription failed", fields)
		s.metrics.RecordError(ctx, string(errors.ErrCodeProcessingFailed), "service")
		return nil, errors.Processing(err)
	}

	text := result.Text
	segments := append([]transcription.Segment(nil), result.Segments...)
	if req.Language == "ar" && req.IncludeDialectInfo {
		text = s.annotator.Annotate(text)
		for i := range segments {
			segments[i].Text = s.annotator.Annotate(segments[i].Text)
		}
	}

	// Processing time covers the whole cycle including the dialect pass.
	elapsed := op.End(ctx, span, "success", nil)

	fields := logger.DurationFields("transcribe", elapsed)
	fields["language"] = req.Language
	fields["segments"] = len(segments)
	s.log.Info("transcription complete", fields)

	// The response echoes the requested language; the engine contract
	// does not report a detected one.
	return &Response{
		Text:                  text,
		Segments:              segments,
		Language:              req.Language,
		ProcessingTimeSeconds: elapsed.Seconds(),
		ModelUsed:             s.engine.ModelSize(),
	}, nil
}

// run stages the audio bytes into a temp file and invokes the engine.
func (s *TranscribeService) run(ctx context.Context, req *Request, ext string) (*transcription.Result, error) {
	tmp, err := os.CreateTemp("", "lisan-*"+ext)
	if err != nil {
		return nil, err
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(req.Data); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	opts := transcription.Options{
		Language:      req.Language,
		Task:          transcription.TaskTranscribe,
		Temperature:   req.Temperature,
		BeamSize:      req.BeamSize,
		InitialPrompt: InitialPromptLevantine,
	}

	return s.engine.Transcribe(ctx, path, opts)
}

func extensionAllowed(ext string) bool {
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
