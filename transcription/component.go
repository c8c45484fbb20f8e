package transcription

import (
	"context"
	"fmt"

	"github.com/skillsenselab/lisan/component"
)

// EngineComponent adapts an Engine to the component lifecycle so the
// service refuses to start without a reachable engine.
type EngineComponent struct {
	engine Engine
}

// NewComponent wraps an engine for lifecycle management.
func NewComponent(engine Engine) *EngineComponent {
	return &EngineComponent{engine: engine}
}

// Name returns the component name.
func (ec *EngineComponent) Name() string { return "engine-" + ec.engine.Name() }

// Start verifies the engine is reachable. The model must be loaded
// before the server accepts traffic.
func (ec *EngineComponent) Start(ctx context.Context) error {
	if !ec.engine.IsAvailable(ctx) {
		return fmt.Errorf("engine %s (model %s) is not available", ec.engine.Name(), ec.engine.ModelSize())
	}
	return nil
}

// Stop is a no-op; engines hold no local resources.
func (ec *EngineComponent) Stop(ctx context.Context) error { return nil }

// Health reports engine availability.
func (ec *EngineComponent) Health(ctx context.Context) component.Health {
	status := component.StatusHealthy
	message := "engine available"
	if !ec.engine.IsAvailable(ctx) {
		status = component.StatusUnhealthy
		message = "engine unreachable"
	}
	return component.Health{
		Name:    ec.Name(),
		Status:  status,
		Message: message,
	}
}
