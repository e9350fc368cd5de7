package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"molttactics/internal/app/lobby"
	"molttactics/internal/domain/arena"
	"molttactics/internal/logger"
)

// TimestampWindow is the maximum drift between a signed request and the
// server clock.
const TimestampWindow = 5 * time.Minute

var (
	ErrInvalidRequest   = errors.New("invalid auth request")
	ErrInvalidSignature = errors.New("invalid signature")
)

type RegisterRequest struct {
	AgentID     string `json:"agent_id"`
	Class       string `json:"class"`
	DisplayName string `json:"display_name,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
	APISecret   string `json:"api_secret,omitempty"`
}

type RegisterResponse struct {
	MatchID   string `json:"match_id"`
	Turn      int    `json:"turn"`
	MapSize   int    `json:"map_size"`
	Seed      int64  `json:"seed"`
	APISecret string `json:"api_secret"`
}

type RegisterUseCase struct {
	Hub *lobby.Hub
}

func (u RegisterUseCase) Execute(_ context.Context, req RegisterRequest) (RegisterResponse, error) {
	if u.Hub == nil {
		return RegisterResponse{}, ErrInvalidRequest
	}
	req.AgentID = strings.TrimSpace(req.AgentID)
	secret := req.APISecret
	if secret == "" {
		generated, err := randomHex(16)
		if err != nil {
			return RegisterResponse{}, err
		}
		secret = generated
	}

	seat, err := u.Hub.Register(arena.Registration{
		AgentID:     req.AgentID,
		Class:       arena.Class(strings.TrimSpace(req.Class)),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Emoji:       req.Emoji,
		Secret:      secret,
	})
	if err != nil {
		return RegisterResponse{}, err
	}
	logger.Info("agent registered", "agent_id", req.AgentID, "class", req.Class, "match_id", seat.MatchID)
	return RegisterResponse{
		MatchID:   seat.MatchID,
		Turn:      seat.Turn,
		MapSize:   seat.MapSize,
		Seed:      seat.Seed,
		APISecret: seat.Agent.Secret,
	}, nil
}

// SignedRequest carries the raw request body and its signing headers.
type SignedRequest struct {
	AgentID   string
	Timestamp string
	Signature string
	Body      []byte
}

// Sign returns the hex HMAC-SHA256 of body followed by timestamp.
func Sign(secret string, body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	mac.Write([]byte(timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verifier checks request signatures against an agent's secret.
type Verifier struct {
	Disabled bool
	Window   time.Duration
	Now      func() time.Time
}

func (v Verifier) Verify(secret string, req SignedRequest) error {
	if v.Disabled {
		return nil
	}
	if secret == "" || req.Signature == "" || req.Timestamp == "" {
		return ErrInvalidSignature
	}
	if err := v.checkTimestamp(req.Timestamp); err != nil {
		return err
	}
	want := Sign(secret, req.Body, req.Timestamp)
	if !hmac.Equal([]byte(strings.ToLower(req.Signature)), []byte(want)) {
		return ErrInvalidSignature
	}
	return nil
}

// checkTimestamp accepts unix seconds or milliseconds.
func (v Verifier) checkTimestamp(raw string) error {
	ts, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid timestamp", ErrInvalidSignature)
	}
	nowFn := v.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	window := v.Window
	if window <= 0 {
		window = TimestampWindow
	}
	now := nowFn()
	var drift float64
	if ts > 1e12 {
		drift = math.Abs(float64(now.UnixMilli()-ts)) / 1000
	} else {
		drift = math.Abs(float64(now.Unix() - ts))
	}
	if drift > window.Seconds() {
		return fmt.Errorf("%w: timestamp drift %.0fs exceeds %v", ErrInvalidSignature, drift, window)
	}
	return nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
