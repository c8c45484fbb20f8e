package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skillsenselab/lisan/dialect"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != "lisan" {
		t.Errorf("Name = %q, want lisan", cfg.Name)
	}
	if cfg.Engine.Provider != "whisper" {
		t.Errorf("Engine.Provider = %q, want whisper", cfg.Engine.Provider)
	}
	if cfg.Engine.Model != "tiny" {
		t.Errorf("Engine.Model = %q, want tiny", cfg.Engine.Model)
	}
	if cfg.Engine.TimeoutSeconds != 120 {
		t.Errorf("Engine.TimeoutSeconds = %d, want 120", cfg.Engine.TimeoutSeconds)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if !cfg.Model.ArabicDialectsSupport {
		// Default is false unless configured; the YAML shipped with the
		// service enables it explicitly.
		t.Log("arabic dialect support disabled by default")
	}
	if cfg.Model.Status != "active" {
		t.Errorf("Model.Status = %q, want active", cfg.Model.Status)
	}
	if cfg.Logging.ServiceName != "lisan" {
		t.Errorf("Logging.ServiceName = %q, want lisan", cfg.Logging.ServiceName)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("Tracing.SampleRate = %v, want 1.0", cfg.Tracing.SampleRate)
	}
	if cfg.Tracing.Endpoint != "localhost:4318" {
		t.Errorf("Tracing.Endpoint = %q", cfg.Tracing.Endpoint)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{Name: "custom"}
	cfg.Engine.Model = "large-v3"
	cfg.ApplyDefaults()

	if cfg.Name != "custom" {
		t.Errorf("Name = %q, want custom", cfg.Name)
	}
	if cfg.Engine.Model != "large-v3" {
		t.Errorf("Engine.Model = %q, want large-v3", cfg.Engine.Model)
	}
	if cfg.Logging.ServiceName != "custom" {
		t.Errorf("Logging.ServiceName = %q, want custom", cfg.Logging.ServiceName)
	}
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() after defaults: %v", err)
	}

	bad := cfg
	bad.Server.Port = -1
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted negative port")
	}

	bad = cfg
	bad.Engine.Provider = ""
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted empty engine provider")
	}

	bad = cfg
	bad.Dialect.Mappings = append(bad.Dialect.Mappings, dialect.Entry{Dialect: "كتير"})
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted dialect mapping with empty fusha")
	}
}

func TestEngineFactoryConfig(t *testing.T) {
	ec := EngineConfig{
		URL:            "http://whisper:8387",
		Model:          "small",
		Device:         "cuda",
		ComputeType:    "float16",
		TimeoutSeconds: 60,
	}
	m := ec.FactoryConfig()

	if m["url"] != "http://whisper:8387" {
		t.Errorf("url = %v", m["url"])
	}
	if m["model"] != "small" {
		t.Errorf("model = %v", m["model"])
	}
	if m["device"] != "cuda" {
		t.Errorf("device = %v", m["device"])
	}
	if m["compute_type"] != "float16" {
		t.Errorf("compute_type = %v", m["compute_type"])
	}

	empty := EngineConfig{}
	if got := empty.FactoryConfig(); len(got) != 0 {
		t.Errorf("empty FactoryConfig() = %v, want empty map", got)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := `
name: lisan
environment: test
engine:
  provider: mock
  model: base
server:
  port: 9090
model:
  arabic_dialects_support: true
dialect:
  mappings:
    - dialect: "كتير"
      fusha: "كثير"
    - dialect: "هلق"
      fusha: "الآن"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("lisan", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Environment != "test" {
		t.Errorf("Environment = %q, want test", cfg.Environment)
	}
	if cfg.Engine.Provider != "mock" {
		t.Errorf("Engine.Provider = %q, want mock", cfg.Engine.Provider)
	}
	if cfg.Engine.Model != "base" {
		t.Errorf("Engine.Model = %q, want base", cfg.Engine.Model)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Model.ArabicDialectsSupport {
		t.Error("Model.ArabicDialectsSupport = false, want true")
	}
	if len(cfg.Dialect.Mappings) != 2 {
		t.Fatalf("Dialect.Mappings = %v, want 2 entries", cfg.Dialect.Mappings)
	}
	if cfg.Dialect.Mappings[0].Dialect != "كتير" || cfg.Dialect.Mappings[0].Fusha != "كثير" {
		t.Errorf("first mapping = %+v", cfg.Dialect.Mappings[0])
	}
	if cfg.Dialect.Mappings[1].Dialect != "هلق" {
		t.Errorf("mapping order not preserved: %+v", cfg.Dialect.Mappings)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("name: lisan\nengine:\n  model: tiny\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ENGINE_MODEL", "medium")

	cfg, err := Load("lisan", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Model != "medium" {
		t.Errorf("Engine.Model = %q, want medium (env override)", cfg.Engine.Model)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	variants := generateEnvKeyVariants("ENGINE_MODEL")
	want := map[string]bool{"engine_model": true, "engine.model": true}
	for _, v := range variants {
		delete(want, v)
	}
	if len(want) != 0 {
		t.Errorf("missing variants: %v (got %v)", want, variants)
	}

	single := generateEnvKeyVariants("DEBUG")
	if len(single) != 1 || single[0] != "debug" {
		t.Errorf("single-part variants = %v", single)
	}
}
