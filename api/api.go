// Package api exposes the transcription HTTP endpoints.
package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/lisan/errors"
	"github.com/skillsenselab/lisan/logger"
	"github.com/skillsenselab/lisan/server"
	"github.com/skillsenselab/lisan/service"
)

// Default request parameter values.
const (
	DefaultLanguage    = "ar"
	DefaultTemperature = 0.2
	DefaultBeamSize    = 5
)

// ModelInfo is the static model description served by GET /model-info.
type ModelInfo struct {
	ModelSize             string `json:"model_size"`
	SupportedLanguages    string `json:"supported_languages"`
	ArabicDialectsSupport bool   `json:"arabic_dialects_support"`
	Status                string `json:"status"`
}

// API wires the transcription service to HTTP routes.
type API struct {
	svc       *service.TranscribeService
	modelInfo ModelInfo
	log       *logger.Logger
}

// New creates the API layer.
func New(svc *service.TranscribeService, modelInfo ModelInfo) *API {
	return &API{
		svc:       svc,
		modelInfo: modelInfo,
		log:       logger.WithComponent("api"),
	}
}

// Register mounts the API routes on the gin engine.
func (a *API) Register(r *gin.Engine) {
	r.POST("/transcribe", a.handleTranscribe)
	r.GET("/model-info", a.handleModelInfo)
}

// transcribeResponse is the flat success body for POST /transcribe.
type transcribeResponse struct {
	Status string `json:"status"`
	*service.Response
}

func (a *API) handleTranscribe(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		server.RespondWithError(c, errors.MissingField("file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		server.RespondWithError(c, errors.Internal(err))
		return
	}
	data, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		server.RespondWithError(c, errors.Internal(err))
		return
	}

	req := &service.Request{
		Filename: fileHeader.Filename,
		Data:     data,
		Language: param(c, "language", DefaultLanguage),
	}
	if req.IncludeDialectInfo, err = boolParam(c, "include_dialect_info", true); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if req.Temperature, err = floatParam(c, "temperature", DefaultTemperature); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if req.BeamSize, err = intParam(c, "beam_size", DefaultBeamSize); err != nil {
		server.RespondWithError(c, err)
		return
	}

	resp, err := a.svc.Transcribe(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	server.RespondOK(c, transcribeResponse{Status: "success", Response: resp})
}

func (a *API) handleModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, a.modelInfo)
}

// param reads a request parameter from the form body, falling back to
// the query string, then the default.
func param(c *gin.Context, name, def string) string {
	if v, ok := c.GetPostForm(name); ok && v != "" {
		return v
	}
	if v, ok := c.GetQuery(name); ok && v != "" {
		return v
	}
	return def
}

func boolParam(c *gin.Context, name string, def bool) (bool, error) {
	raw := param(c, name, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.InvalidInput(name, "must be a boolean")
	}
	return v, nil
}

func floatParam(c *gin.Context, name string, def float64) (float64, error) {
	raw := param(c, name, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.InvalidInput(name, "must be a number")
	}
	return v, nil
}

func intParam(c *gin.Context, name string, def int) (int, error) {
	raw := param(c, name, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput(name, "must be an integer")
	}
	return v, nil
}
