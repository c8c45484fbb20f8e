// Package mock provides an in-memory transcription.Engine for tests.
package mock

import (
	"context"
	"sync"

	"github.com/skillsenselab/lisan/transcription"
)

// EngineName is the registered name for the mock engine.
const EngineName = "mock"

// Engine is a configurable in-memory engine. The zero value returns a
// canned transcript; set Result, Err or TranscribeFunc to steer behavior.
type Engine struct {
	Model  string
	Result *transcription.Result
	Err    error

	// TranscribeFunc, when set, overrides Result/Err entirely.
	TranscribeFunc func(ctx context.Context, path string, opts transcription.Options) (*transcription.Result, error)

	mu    sync.Mutex
	calls []Call
}

// Call records the arguments of one Transcribe invocation.
type Call struct {
	Path string
	Opts transcription.Options
}

// Factory returns a transcription.Factory that creates mock engines.
func Factory() transcription.Factory {
	return func(cfg map[string]any) (transcription.Engine, error) {
		e := &Engine{}
		if v, ok := cfg["model"].(string); ok {
			e.Model = v
		}
		return e, nil
	}
}

// Name returns the engine name.
func (e *Engine) Name() string { return EngineName }

// ModelSize returns the configured model identifier.
func (e *Engine) ModelSize() string {
	if e.Model == "" {
		return "mock"
	}
	return e.Model
}

// IsAvailable always reports ready.
func (e *Engine) IsAvailable(ctx context.Context) bool { return true }

// Transcribe records the call and returns the configured result.
func (e *Engine) Transcribe(ctx context.Context, path string, opts transcription.Options) (*transcription.Result, error) {
	e.mu.Lock()
	e.calls = append(e.calls, Call{Path: path, Opts: opts})
	e.mu.Unlock()

	if e.TranscribeFunc != nil {
		return e.TranscribeFunc(ctx, path, opts)
	}
	if e.Err != nil {
		return nil, e.Err
	}
	if e.Result != nil {
		// Copy so callers mutating the result do not leak into later calls.
		res := *e.Result
		res.Segments = append([]transcription.Segment(nil), e.Result.Segments...)
		return &res, nil
	}
	return &transcription.Result{
		Text: "mock transcript",
		Segments: []transcription.Segment{
			{ID: 0, Start: 0, End: 1, Text: "mock transcript"},
		},
		Language: opts.Language,
	}, nil
}

// Calls returns all recorded invocations.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}
