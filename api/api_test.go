package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/lisan/dialect"
	"github.com/skillsenselab/lisan/service"
	"github.com/skillsenselab/lisan/transcription"
	"github.com/skillsenselab/lisan/transcription/mock"
)

func newTestRouter(engine *mock.Engine, entries []dialect.Entry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.New(engine, dialect.New(entries), nil)
	a := New(svc, ModelInfo{
		ModelSize:             engine.ModelSize(),
		SupportedLanguages:    "Arabic (all dialects), English, and 97 other languages",
		ArabicDialectsSupport: true,
		Status:                "active",
	})
	r := gin.New()
	a.Register(r)
	return r
}

func multipartUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write([]byte("fake audio")); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func doUpload(t *testing.T, r *gin.Engine, filename string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartUpload(t, filename, fields)
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTranscribeEndpoint(t *testing.T) {
	engine := &mock.Engine{
		Model: "tiny",
		Result: &transcription.Result{
			Text:     "مرحبا بكم",
			Language: "ar",
			Segments: []transcription.Segment{
				{ID: 0, Start: 0, End: 1.2, Text: "مرحبا بكم"},
			},
		},
	}
	r := newTestRouter(engine, nil)

	rec := doUpload(t, r, "audio.wav", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Status                string                  `json:"status"`
		Text                  string                  `json:"text"`
		Segments              []transcription.Segment `json:"segments"`
		Language              string                  `json:"language"`
		ProcessingTimeSeconds float64                 `json:"processing_time_seconds"`
		ModelUsed             string                  `json:"model_used"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Status != "success" {
		t.Errorf("status = %q, want success", body.Status)
	}
	if body.Text != "مرحبا بكم" {
		t.Errorf("text = %q", body.Text)
	}
	if body.Language != "ar" {
		t.Errorf("language = %q", body.Language)
	}
	if body.ModelUsed != "tiny" {
		t.Errorf("model_used = %q", body.ModelUsed)
	}
	if len(body.Segments) != 1 || body.Segments[0].Text != "مرحبا بكم" {
		t.Errorf("segments = %+v", body.Segments)
	}
}

func TestTranscribeEndpointDefaults(t *testing.T) {
	engine := &mock.Engine{}
	r := newTestRouter(engine, nil)

	rec := doUpload(t, r, "audio.mp3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	calls := engine.Calls()
	if len(calls) != 1 {
		t.Fatalf("engine called %d times", len(calls))
	}
	opts := calls[0].Opts
	if opts.Language != "ar" {
		t.Errorf("default language = %q, want ar", opts.Language)
	}
	if opts.Temperature != 0.2 {
		t.Errorf("default temperature = %v, want 0.2", opts.Temperature)
	}
	if opts.BeamSize != 5 {
		t.Errorf("default beam_size = %v, want 5", opts.BeamSize)
	}
}

func TestTranscribeEndpointFormParams(t *testing.T) {
	engine := &mock.Engine{}
	r := newTestRouter(engine, nil)

	rec := doUpload(t, r, "audio.wav", map[string]string{
		"language":             "en",
		"include_dialect_info": "false",
		"temperature":          "0.8",
		"beam_size":            "2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	opts := engine.Calls()[0].Opts
	if opts.Language != "en" {
		t.Errorf("language = %q", opts.Language)
	}
	if opts.Temperature != 0.8 {
		t.Errorf("temperature = %v", opts.Temperature)
	}
	if opts.BeamSize != 2 {
		t.Errorf("beam_size = %v", opts.BeamSize)
	}
}

func TestTranscribeEndpointDialectAnnotation(t *testing.T) {
	engine := &mock.Engine{
		Result: &transcription.Result{Text: "الجو كتير حلو", Language: "ar"},
	}
	r := newTestRouter(engine, []dialect.Entry{{Dialect: "كتير", Fusha: "كثير"}})

	rec := doUpload(t, r, "audio.wav", nil)
	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if want := "الجو كتير (كثير) حلو"; body.Text != want {
		t.Errorf("text = %q, want %q", body.Text, want)
	}
}

func TestTranscribeEndpointUnsupportedFormat(t *testing.T) {
	engine := &mock.Engine{}
	r := newTestRouter(engine, nil)

	rec := doUpload(t, r, "notes.txt", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "UNSUPPORTED_FORMAT" {
		t.Errorf("code = %q", body.Error.Code)
	}
	if len(engine.Calls()) != 0 {
		t.Error("engine was called for a rejected upload")
	}
}

func TestTranscribeEndpointMissingFile(t *testing.T) {
	r := newTestRouter(&mock.Engine{}, nil)

	rec := doUpload(t, r, "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTranscribeEndpointBadNumericParam(t *testing.T) {
	r := newTestRouter(&mock.Engine{}, nil)

	rec := doUpload(t, r, "audio.wav", map[string]string{"temperature": "warm"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("temperature: status = %d, want 400", rec.Code)
	}

	rec = doUpload(t, r, "audio.wav", map[string]string{"beam_size": "many"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("beam_size: status = %d, want 400", rec.Code)
	}
}

func TestTranscribeEndpointEngineFailure(t *testing.T) {
	engine := &mock.Engine{Err: errors.New("model crashed")}
	r := newTestRouter(engine, nil)

	rec := doUpload(t, r, "audio.flac", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "PROCESSING_FAILED" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

func TestModelInfoEndpoint(t *testing.T) {
	engine := &mock.Engine{Model: "tiny"}
	r := newTestRouter(engine, nil)

	// Responses are static and unaffected by transcription traffic.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/model-info", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var body ModelInfo
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.ModelSize != "tiny" {
			t.Errorf("model_size = %q", body.ModelSize)
		}
		if !body.ArabicDialectsSupport {
			t.Error("arabic_dialects_support = false")
		}
		if body.Status != "active" {
			t.Errorf("status = %q", body.Status)
		}

		doUpload(t, r, "audio.wav", nil)
	}
}
