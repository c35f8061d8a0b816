package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/topic"
	"github.com/rs/zerolog"
)

var (
	errUnavailable  = errors.New("guardrail service is not correctly configured")
	errReloadFailed = errors.New("topic index reload failed, current index kept")
)

type DecisionRunner interface {
	Run(ctx context.Context, requestID string, query string) (models.Decision, error)
}

type IndexReloader interface {
	Reload(ctx context.Context) (*topic.Index, error)
}

type Handler struct {
	runner   DecisionRunner
	reloader IndexReloader
	holder   *topic.Holder
	logger   *zerolog.Logger
}

func NewHandler(runner DecisionRunner, reloader IndexReloader, holder *topic.Holder, logger *zerolog.Logger) *Handler {
	return &Handler{
		runner:   runner,
		reloader: reloader,
		holder:   holder,
		logger:   logger,
	}
}

// POST /api/v1/ask
// Body: AskRequest
// Returns: Decision
func (h *Handler) Ask(req *restful.Request, resp *restful.Response) {
	var askRequest models.AskRequest
	if err := req.ReadEntity(&askRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	requestID := strings.TrimSpace(askRequest.RequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	decision, err := h.runner.Run(req.Request.Context(), requestID, askRequest.Question)
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("Guardrail pipeline failed")
		if errors.Is(err, guardrails.ErrConfiguration) {
			middleware.HandleError(resp, errUnavailable, http.StatusServiceUnavailable)
			return
		}
		middleware.HandleError(resp, nil, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, decision)
}

// POST /api/v1/admin/topic-index/reload
func (h *Handler) ReloadTopicIndex(req *restful.Request, resp *restful.Response) {
	idx, err := h.reloader.Reload(req.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Topic index reload failed")
		middleware.HandleError(resp, errReloadFailed, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, ReloadResponse{
		Exemplars: idx.Len(),
		Dimension: idx.Dimension(),
	})
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
		Index:   "loaded",
	}

	if h.holder == nil || h.holder.Load() == nil {
		healthResponse.Status = "degraded"
		healthResponse.Index = "empty"
		resp.WriteHeaderAndEntity(http.StatusServiceUnavailable, healthResponse)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
