package action

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"molttactics/internal/app/auth"
	"molttactics/internal/app/lobby"
	"molttactics/internal/domain/arena"
)

type fakeMetrics struct {
	codes []string
}

func (f *fakeMetrics) RecordSubmission(code string)   { f.codes = append(f.codes, code) }
func (f *fakeMetrics) RecordResolution(finished bool) {}
func (f *fakeMetrics) RecordFinalization(err error)   {}

func seatTwo(t *testing.T) (*lobby.Hub, string) {
	t.Helper()
	h := lobby.NewHub(arena.DefaultRules(), lobby.WithIDs(func() string { return "m_1" }))
	for _, id := range []string{"a", "b"} {
		if _, err := h.Register(arena.Registration{AgentID: id, Class: arena.ClassWarrior, Secret: "secret-" + id}); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	return h, "m_1"
}

func signed(t *testing.T, body Body, secret string, now time.Time) Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	return Request{Body: body, Signed: auth.SignedRequest{AgentID: body.AgentID, Timestamp: ts, Signature: auth.Sign(secret, raw, ts), Body: raw}}
}

func TestUseCase_AcceptsSignedSubmission(t *testing.T) {
	h, matchID := seatTwo(t)
	now := time.Unix(1700000000, 0)
	metrics := &fakeMetrics{}
	uc := UseCase{Hub: h, Verifier: auth.Verifier{Now: func() time.Time { return now }}, Metrics: metrics}

	body := Body{MatchID: matchID, AgentID: "a", Turn: 1, Action: json.RawMessage(`{"type":"move","direction":"N"}`)}
	resp, err := uc.Execute(context.Background(), signed(t, body, "secret-a", now))
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if !resp.OK || resp.Turn != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	_ = h.WithMatch(matchID, func(m *arena.Match) error {
		if m.PendingCount() != 1 {
			t.Fatalf("expected one pending submission, got=%d", m.PendingCount())
		}
		return nil
	})
	if len(metrics.codes) != 1 || metrics.codes[0] != "accepted" {
		t.Fatalf("metrics codes: %v", metrics.codes)
	}
}

func TestUseCase_Rejections(t *testing.T) {
	h, matchID := seatTwo(t)
	now := time.Unix(1700000000, 0)
	metrics := &fakeMetrics{}
	uc := UseCase{Hub: h, Verifier: auth.Verifier{Now: func() time.Time { return now }}, Metrics: metrics}

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown match", signed(t, Body{MatchID: "m_x", AgentID: "a", Turn: 1}, "secret-a", now), lobby.ErrMatchNotFound},
		{"unknown agent", signed(t, Body{MatchID: matchID, AgentID: "z", Turn: 1}, "secret-a", now), arena.ErrAgentNotFound},
		{"wrong secret", signed(t, Body{MatchID: matchID, AgentID: "a", Turn: 1}, "secret-b", now), auth.ErrInvalidSignature},
		{"stale turn", signed(t, Body{MatchID: matchID, AgentID: "a", Turn: 2}, "secret-a", now), arena.ErrStaleTurn},
		{"missing ids", Request{}, ErrInvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Execute(context.Background(), tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	_ = h.WithMatch(matchID, func(m *arena.Match) error {
		if m.PendingCount() != 0 {
			t.Fatalf("rejections must not buffer anything")
		}
		return nil
	})
	want := []string{"match_not_found", "agent_not_found", "invalid_signature", "stale_turn", "invalid_request"}
	for i, code := range want {
		if metrics.codes[i] != code {
			t.Fatalf("metrics code %d got=%s want=%s", i, metrics.codes[i], code)
		}
	}
}

func TestUseCase_HeaderAgentMustMatchBody(t *testing.T) {
	h, matchID := seatTwo(t)
	now := time.Unix(1700000000, 0)
	uc := UseCase{Hub: h, Verifier: auth.Verifier{Now: func() time.Time { return now }}}

	req := signed(t, Body{MatchID: matchID, AgentID: "a", Turn: 1}, "secret-a", now)
	req.Signed.AgentID = "b"
	if _, err := uc.Execute(context.Background(), req); !errors.Is(err, auth.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestUseCase_AuthDisabled(t *testing.T) {
	h, matchID := seatTwo(t)
	uc := UseCase{Hub: h, Verifier: auth.Verifier{Disabled: true}}
	if _, err := uc.Execute(context.Background(), Request{Body: Body{MatchID: matchID, AgentID: "b", Turn: 1}}); err != nil {
		t.Fatalf("unsigned submission with auth disabled: %v", err)
	}
}

func TestDecodeAction(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want arena.ActionType
	}{
		{"absent", ``, arena.ActionDefend},
		{"null", `null`, arena.ActionDefend},
		{"not json", `{"type":`, arena.ActionDefend},
		{"not an object", `"attack"`, arena.ActionDefend},
		{"unknown type", `{"type":"fireball"}`, arena.ActionDefend},
		{"fractional target", `{"type":"attack","target":{"x":1.5,"y":2}}`, arena.ActionDefend},
		{"bad direction", `{"type":"move","direction":"up"}`, arena.ActionDefend},
		{"attack", `{"type":"attack","target":{"x":1,"y":2}}`, arena.ActionAttack},
		{"molt", `{"type":"molt","molt_choice":"armor"}`, arena.ActionMolt},
		{"harvest", `{"type":"harvest"}`, arena.ActionHarvest},
		{"ability", `{"type":"pin","target":{"x":0,"y":0}}`, arena.ActionPin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecodeAction(json.RawMessage(tc.raw)); got.Type != tc.want {
				t.Fatalf("type got=%s want=%s", got.Type, tc.want)
			}
		})
	}
}

func TestDecodeOptionalParts(t *testing.T) {
	if got := decodeMessage(json.RawMessage(`42`)); got != "" {
		t.Fatalf("non-string message must be dropped, got=%q", got)
	}
	if got := decodeMessage(json.RawMessage(`"gg"`)); got != "gg" {
		t.Fatalf("message got=%q", got)
	}
	if got := decodeOffer(json.RawMessage(`{"type":"non_aggression"}`)); got != nil {
		t.Fatalf("offer without target must be dropped")
	}
	if got := decodeOffer(json.RawMessage(`{"type":"non_aggression","target_agent_id":"b","turns":4}`)); got == nil || got.Turns != 4 {
		t.Fatalf("offer: %+v", got)
	}
	if got := decodeAccept(json.RawMessage(`{"offerer_id":"a"}`)); got == nil || got.OffererID != "a" {
		t.Fatalf("accept: %+v", got)
	}
}
