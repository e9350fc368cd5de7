package action

import (
	"context"
	"errors"
	"strings"

	"molttactics/internal/app/auth"
	"molttactics/internal/app/lobby"
	"molttactics/internal/app/ports"
	"molttactics/internal/domain/arena"
)

var ErrInvalidRequest = errors.New("invalid submit request")

type UseCase struct {
	Hub      *lobby.Hub
	Verifier auth.Verifier
	Metrics  ports.TurnMetrics
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	resp, err := u.execute(ctx, req)
	if u.Metrics != nil {
		u.Metrics.RecordSubmission(outcomeCode(err))
	}
	return resp, err
}

func (u UseCase) execute(_ context.Context, req Request) (Response, error) {
	body := req.Body
	body.MatchID = strings.TrimSpace(body.MatchID)
	body.AgentID = strings.TrimSpace(body.AgentID)
	if body.MatchID == "" || body.AgentID == "" {
		return Response{}, ErrInvalidRequest
	}
	if h := strings.TrimSpace(req.Signed.AgentID); h != "" && h != body.AgentID {
		return Response{}, auth.ErrInvalidSignature
	}

	sub := arena.Submission{
		Action:  DecodeAction(body.Action),
		Message: decodeMessage(body.Message),
		Offer:   decodeOffer(body.ContractOffer),
		Accept:  decodeAccept(body.ContractAccept),
	}

	var out Response
	err := u.Hub.WithMatch(body.MatchID, func(m *arena.Match) error {
		agent, ok := m.Agent(body.AgentID)
		if !ok {
			return arena.ErrAgentNotFound
		}
		if err := u.Verifier.Verify(agent.Secret, req.Signed); err != nil {
			return err
		}
		if err := m.Submit(agent.ID, body.Turn, sub); err != nil {
			return err
		}
		out = Response{OK: true, Turn: m.Turn}
		return nil
	})
	return out, err
}

func outcomeCode(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, lobby.ErrMatchNotFound):
		return "match_not_found"
	case errors.Is(err, arena.ErrAgentNotFound):
		return "agent_not_found"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, arena.ErrStaleTurn):
		return "stale_turn"
	case errors.Is(err, arena.ErrMatchFinished):
		return "match_finished"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return "internal_error"
	}
}
