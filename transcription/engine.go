package transcription

import "context"

// Engine is the interface speech-to-text backends must implement.
type Engine interface {
	// Name returns the engine's unique name.
	Name() string

	// ModelSize returns the identifier of the loaded model (e.g. "tiny",
	// "large-v3"). It is fixed for the lifetime of the engine.
	ModelSize() string

	// IsAvailable checks if the engine is ready to handle requests.
	IsAvailable(ctx context.Context) bool

	// Transcribe sends the audio file at path for transcription. The call
	// blocks until the backend returns or fails; no timeout is imposed
	// beyond the engine's own.
	Transcribe(ctx context.Context, path string, opts Options) (*Result, error)
}

// Factory creates an engine instance from a generic config map.
type Factory func(cfg map[string]any) (Engine, error)
