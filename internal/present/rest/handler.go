package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/totegamma/rdmc-registry/internal/domain"
	"github.com/totegamma/rdmc-registry/internal/present/rest/presenter"
	"github.com/totegamma/rdmc-registry/internal/service"
	"github.com/totegamma/rdmc-registry/internal/usecase"
)

type Handler struct {
	rdmc   *usecase.RdmcUsecase
	signal *service.SignalService
	logger *zap.Logger
}

func NewHandler(
	rdmc *usecase.RdmcUsecase,
	signal *service.SignalService,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		rdmc:   rdmc,
		signal: signal,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.handleHealth)
	e.POST("/rdmcs", h.handleIngest)
	e.GET("/rdmcs", h.handleList)
	e.GET("/rdmcs/by-contributor", h.handleByContributor)
	e.GET("/rdmcs/:external_id", h.handleGet)
	e.GET("/rdmcs/:external_id/contributors", h.handleContributors)
	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

type ingestRequest struct {
	ExternalID       string          `json:"external_id"`
	ExternalIDScheme *string         `json:"external_id_scheme"`
	PID              *string         `json:"pid"`
	PIDScheme        *string         `json:"pid_scheme"`
	Manifest         json.RawMessage `json:"manifest"`
}

func (h *Handler) handleIngest(c echo.Context) error {
	ctx := c.Request().Context()

	var req ingestRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, errors.Wrap(err, "invalid request body"))
	}
	if strings.TrimSpace(req.ExternalID) == "" {
		return presenter.BadRequestMessage(c, "external_id is required")
	}

	result, err := h.rdmc.Upsert(ctx, usecase.UpsertInput{
		ExternalID:       req.ExternalID,
		ExternalIDScheme: req.ExternalIDScheme,
		PID:              req.PID,
		PIDScheme:        req.PIDScheme,
		Manifest:         req.Manifest,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, newDetailResponse(result.Rdmc))
}

func (h *Handler) handleList(c echo.Context) error {
	ctx := c.Request().Context()

	license := c.QueryParam("license_")
	if license == "" {
		license = c.QueryParam("license")
	}

	summaries, err := h.rdmc.List(ctx, domain.ListFilter{
		Subject:          c.QueryParam("subject"),
		License:          license,
		ContainerConcept: c.QueryParam("container_concept"),
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, newSummaryResponses(summaries))
}

func (h *Handler) handleByContributor(c echo.Context) error {
	ctx := c.Request().Context()

	summaries, err := h.rdmc.FindByContributor(ctx, domain.ContributorFilter{
		ORCID: c.QueryParam("orcid"),
		Email: c.QueryParam("email"),
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, newSummaryResponses(summaries))
}

func (h *Handler) handleGet(c echo.Context) error {
	ctx := c.Request().Context()

	externalID, err := externalIDParam(c)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	rdmc, err := h.rdmc.Get(ctx, externalID)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, newDetailResponse(rdmc))
}

func (h *Handler) handleContributors(c echo.Context) error {
	ctx := c.Request().Context()

	externalID, err := externalIDParam(c)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	contributors, err := h.rdmc.Contributors(ctx, externalID)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, contributors)
}

// externalIDParam returns the decoded :external_id path segment, so ids
// containing "/" can be addressed as %2F.
func externalIDParam(c echo.Context) (string, error) {
	externalID, err := url.PathUnescape(c.Param("external_id"))
	if err != nil {
		return "", errors.Wrap(err, "invalid external_id")
	}
	return externalID, nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleRealtime relays ingest events to a websocket client until either
// side goes away.
func (h *Handler) handleRealtime(c echo.Context) error {
	if !h.signal.Enabled() {
		return presenter.ServiceUnavailable(c, "realtime events are not configured")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket", zap.Error(err))
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.logger.Debug("websocket closed", zap.Error(err))
				}
				return
			}
		}
	}()

	err = h.signal.Subscribe(ctx, func(payload []byte) error {
		return ws.WriteMessage(websocket.TextMessage, payload)
	})
	if err != nil {
		h.logger.Error("realtime relay failed", zap.Error(err))
	}
	return nil
}
