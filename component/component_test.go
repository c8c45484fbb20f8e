package component

import (
	"context"
	"fmt"
	"testing"
)

type fakeComponent struct {
	name    string
	failOn  string // "start" or "stop"
	events  *[]string
	healthy bool
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(ctx context.Context) error {
	*f.events = append(*f.events, "start:"+f.name)
	if f.failOn == "start" {
		return fmt.Errorf("start failed")
	}
	return nil
}

func (f *fakeComponent) Stop(ctx context.Context) error {
	*f.events = append(*f.events, "stop:"+f.name)
	if f.failOn == "stop" {
		return fmt.Errorf("stop failed")
	}
	return nil
}

func (f *fakeComponent) Health(ctx context.Context) Health {
	status := StatusHealthy
	if !f.healthy {
		status = StatusUnhealthy
	}
	return Health{Name: f.name, Status: status}
}

func TestRegistry_StartStopOrder(t *testing.T) {
	var events []string
	reg := NewRegistry()
	for _, name := range []string{"engine", "server"} {
		if err := reg.Register(&fakeComponent{name: name, events: &events, healthy: true}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	ctx := context.Background()
	if err := reg.StartAll(ctx); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := reg.StopAll(ctx); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{"start:engine", "start:server", "stop:server", "stop:engine"}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), events)
	}
	for i, e := range want {
		if events[i] != e {
			t.Errorf("event %d: expected %s, got %s", i, e, events[i])
		}
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	var events []string
	reg := NewRegistry()
	c := &fakeComponent{name: "engine", events: &events}
	if err := reg.Register(c); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register(c); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistry_StartAll_StopsAtFailure(t *testing.T) {
	var events []string
	reg := NewRegistry()
	_ = reg.Register(&fakeComponent{name: "a", events: &events})
	_ = reg.Register(&fakeComponent{name: "b", failOn: "start", events: &events})
	_ = reg.Register(&fakeComponent{name: "c", events: &events})

	if err := reg.StartAll(context.Background()); err == nil {
		t.Fatal("expected StartAll to fail")
	}
	for _, e := range events {
		if e == "start:c" {
			t.Error("component after the failure should not have started")
		}
	}
}

func TestRegistry_StopAll_SkipsUnstarted(t *testing.T) {
	var events []string
	reg := NewRegistry()
	_ = reg.Register(&fakeComponent{name: "a", events: &events})
	_ = reg.Register(&fakeComponent{name: "b", failOn: "start", events: &events})

	ctx := context.Background()
	_ = reg.StartAll(ctx)
	events = events[:0]
	if err := reg.StopAll(ctx); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	// Only "a" started successfully; "b" returned an error from Start.
	if len(events) != 1 || events[0] != "stop:a" {
		t.Errorf("expected only stop:a, got %v", events)
	}
}

func TestRegistry_HealthAll(t *testing.T) {
	var events []string
	reg := NewRegistry()
	_ = reg.Register(&fakeComponent{name: "a", events: &events, healthy: true})
	_ = reg.Register(&fakeComponent{name: "b", events: &events, healthy: false})

	results := reg.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy || results[1].Status != StatusUnhealthy {
		t.Errorf("unexpected health results: %v", results)
	}
}
