// Package transcription defines the engine interface and common types
// for interacting with speech-to-text backends.
//
// The engine is a black box: it is constructed once at startup, holds the
// loaded model, and exposes a single Transcribe call. Backends register
// factories in a Registry so the shipped engine is selected by name from
// configuration.
//
// # Backends
//
//   - transcription/whisper: faster-whisper HTTP sidecar
//   - transcription/mock: in-memory engine for tests
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory(whisper.EngineName, whisper.Factory())
//	engine, err := reg.Create("whisper", cfg)
//	result, err := engine.Transcribe(ctx, path, opts)
package transcription
