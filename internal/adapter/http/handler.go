package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"molttactics/internal/app/action"
	"molttactics/internal/app/auth"
	"molttactics/internal/app/leaderboard"
	"molttactics/internal/app/lobby"
	"molttactics/internal/app/matches"
	"molttactics/internal/app/observe"
	"molttactics/internal/app/ports"
	"molttactics/internal/app/replay"
	"molttactics/internal/app/turn"
	"molttactics/internal/domain/arena"
	"molttactics/internal/logger"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	agentIDHeader   = "X-Agent-Id"
	timestampHeader = "X-Timestamp"
	signatureHeader = "X-Signature"
)

var ErrInvalidJSON = errors.New("invalid json")

type Handler struct {
	RegisterUC    auth.RegisterUseCase
	SubmitUC      action.UseCase
	StateUC       observe.UseCase
	ReplayUC      replay.UseCase
	LeaderboardUC leaderboard.UseCase
	MatchesUC     matches.UseCase
	DebugUC       matches.DebugUseCase
	Turns         turn.Service
	Rules         arena.Rules
	DebugResolve  bool
	KPI           kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/register", h.register)
	api.POST("/submit", h.submit)
	api.GET("/state", h.state)
	api.GET("/replay/:match_id", h.replay)
	api.GET("/leaderboard", h.leaderboard)
	api.GET("/matches", h.matches)
	api.GET("/classes", h.classes)
	api.GET("/debug", h.debug)
	if h.DebugResolve {
		api.POST("/debug/resolve", h.debugResolve)
	}

	s.GET("/ops/kpi", h.kpi)
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	var body auth.RegisterRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.RegisterUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

// submit hands the raw body to the use case so the signature is checked
// over the exact bytes the client signed.
func (h Handler) submit(c context.Context, ctx *app.RequestContext) {
	raw := append([]byte(nil), ctx.Request.Body()...)
	var body action.Body
	if err := json.Unmarshal(raw, &body); err != nil {
		writeError(ctx, ErrInvalidJSON)
		return
	}
	resp, err := h.SubmitUC.Execute(c, action.Request{
		Body: body,
		Signed: auth.SignedRequest{
			AgentID:   strings.TrimSpace(string(ctx.GetHeader(agentIDHeader))),
			Timestamp: strings.TrimSpace(string(ctx.GetHeader(timestampHeader))),
			Signature: strings.TrimSpace(string(ctx.GetHeader(signatureHeader))),
			Body:      raw,
		},
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StateUC.Execute(c, observe.Request{MatchID: string(ctx.Query("match_id"))})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ReplayUC.Execute(c, replay.Request{MatchID: ctx.Param("match_id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) leaderboard(c context.Context, ctx *app.RequestContext) {
	resp, err := h.LeaderboardUC.Execute(c, leaderboard.Request{Season: string(ctx.Query("season"))})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) matches(c context.Context, ctx *app.RequestContext) {
	limit := 0
	if raw := strings.TrimSpace(string(ctx.Query("limit"))); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, matches.ErrInvalidRequest)
			return
		}
		limit = n
	}
	resp, err := h.MatchesUC.Execute(c, matches.ListRequest{Limit: limit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) classes(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"classes": h.Rules.Classes})
}

func (h Handler) debug(c context.Context, ctx *app.RequestContext) {
	resp, err := h.DebugUC.Execute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) debugResolve(c context.Context, ctx *app.RequestContext) {
	matchID := strings.TrimSpace(string(ctx.Query("match_id")))
	if matchID == "" {
		writeError(ctx, arena.ErrInvalidRequest)
		return
	}
	out, err := h.Turns.ResolveMatch(c, matchID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"match_id": matchID,
		"turn":     out.Turn,
		"events":   out.Events,
		"finished": out.Finished,
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return ErrInvalidJSON
	}
	return nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, arena.ErrInvalidClass):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_class", err.Error())
	case errors.Is(err, arena.ErrAgentAlreadyRegistered):
		writeErrorBody(ctx, consts.StatusConflict, "agent_already_registered", err.Error())
	case errors.Is(err, lobby.ErrMatchNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "match_not_found", err.Error())
	case errors.Is(err, arena.ErrAgentNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "agent_not_found", err.Error())
	case errors.Is(err, auth.ErrInvalidSignature):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_signature", err.Error())
	case errors.Is(err, arena.ErrStaleTurn):
		writeErrorBody(ctx, consts.StatusBadRequest, "stale_turn", err.Error())
	case errors.Is(err, arena.ErrMatchFinished):
		writeErrorBody(ctx, consts.StatusConflict, "match_finished", err.Error())
	case errors.Is(err, arena.ErrMatchNotStarted):
		writeErrorBody(ctx, consts.StatusConflict, "match_not_started", err.Error())
	case errors.Is(err, arena.ErrMatchFull):
		writeErrorBody(ctx, consts.StatusConflict, "match_full", err.Error())
	case errors.Is(err, ErrInvalidJSON),
		errors.Is(err, arena.ErrInvalidRequest),
		errors.Is(err, auth.ErrInvalidRequest),
		errors.Is(err, action.ErrInvalidRequest),
		errors.Is(err, observe.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, leaderboard.ErrInvalidRequest),
		errors.Is(err, matches.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		logger.Error("request failed", "path", string(ctx.Path()), "error", err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
