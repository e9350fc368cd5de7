//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"molttactics/internal/app/auth"
)

func TestRemoteAPI_MainEndpoints(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:3000"), "/")
	client := &http.Client{Timeout: 20 * time.Second}
	suffix := time.Now().UTC().Format("20060102150405")

	t.Run("classes", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodGet, baseURL+"/api/classes", nil, nil)
		if status != http.StatusOK {
			t.Fatalf("classes status=%d body=%s", status, string(body))
		}
		var resp map[string]any
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshal classes: %v body=%s", err, string(body))
		}
		if len(asMap(resp["classes"])) != 4 {
			t.Fatalf("expected four classes, got=%v", resp["classes"])
		}
	})

	t.Run("register rejects bad class", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/register", nil, map[string]any{
			"agent_id": "e2e-bad-" + suffix,
			"class":    "bard",
		})
		if status != http.StatusBadRequest || errorCode(body) != "invalid_class" {
			t.Fatalf("expected 400 invalid_class, got %d body=%s", status, string(body))
		}
	})

	agentID := "e2e-" + suffix
	var reg map[string]any
	t.Run("register", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/register", nil, map[string]any{
			"agent_id":     agentID,
			"class":        "ranger",
			"display_name": "E2E Ranger",
		})
		if status != http.StatusOK {
			t.Fatalf("register status=%d body=%s", status, string(body))
		}
		if err := json.Unmarshal(body, &reg); err != nil {
			t.Fatalf("unmarshal register: %v body=%s", err, string(body))
		}
		if asString(reg["api_secret"]) == "" || asString(reg["match_id"]) == "" {
			t.Fatalf("register response missing fields: %v", reg)
		}

		status, body = mustJSON(t, client, http.MethodPost, baseURL+"/api/register", nil, map[string]any{
			"agent_id": agentID,
			"class":    "ranger",
		})
		if status != http.StatusConflict {
			t.Fatalf("duplicate register: expected 409, got %d body=%s", status, string(body))
		}
	})
	if reg == nil {
		t.Fatalf("registration failed, skipping match flow")
	}
	matchID := asString(reg["match_id"])
	secret := asString(reg["api_secret"])

	t.Run("state submit replay", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodGet, baseURL+"/api/state?match_id="+matchID, nil, nil)
		if status != http.StatusOK {
			t.Fatalf("state status=%d body=%s", status, string(body))
		}
		var state map[string]any
		if err := json.Unmarshal(body, &state); err != nil {
			t.Fatalf("unmarshal state: %v body=%s", err, string(body))
		}
		turn := int(asFloat(state["turn"]))

		submit := map[string]any{
			"match_id": matchID,
			"agent_id": agentID,
			"turn":     turn,
			"action":   map[string]any{"type": "defend"},
			"message":  "e2e hello",
		}
		raw, _ := json.Marshal(submit)
		ts := strconv.FormatInt(time.Now().UnixMilli(), 10)

		status, body = doRaw(t, client, baseURL+"/api/submit", raw, map[string]string{
			"X-Agent-Id":  agentID,
			"X-Timestamp": ts,
			"X-Signature": "deadbeef",
		})
		if status != http.StatusUnauthorized {
			t.Fatalf("bad signature: expected 401, got %d body=%s", status, string(body))
		}

		status, body = doRaw(t, client, baseURL+"/api/submit", raw, map[string]string{
			"X-Agent-Id":  agentID,
			"X-Timestamp": ts,
			"X-Signature": auth.Sign(secret, raw, ts),
		})
		if status != http.StatusOK {
			t.Fatalf("submit status=%d body=%s", status, string(body))
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/api/replay/"+matchID, nil, nil)
		if status != http.StatusOK {
			t.Fatalf("replay status=%d body=%s", status, string(body))
		}
		var rep map[string]any
		if err := json.Unmarshal(body, &rep); err != nil {
			t.Fatalf("unmarshal replay: %v body=%s", err, string(body))
		}
		if asString(rep["match_id"]) != matchID {
			t.Fatalf("replay match_id got=%v want=%s", rep["match_id"], matchID)
		}
	})

	t.Run("leaderboard matches kpi", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodGet, baseURL+"/api/leaderboard", nil, nil)
		if status != http.StatusOK {
			t.Fatalf("leaderboard status=%d body=%s", status, string(body))
		}
		var lb map[string]any
		_ = json.Unmarshal(body, &lb)
		if asString(lb["season"]) != "all-time" {
			t.Fatalf("expected all-time leaderboard, got=%v", lb["season"])
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/api/matches?limit=5", nil, nil)
		if status != http.StatusOK {
			t.Fatalf("matches status=%d body=%s", status, string(body))
		}
		var ms map[string]any
		_ = json.Unmarshal(body, &ms)
		if len(asSlice(ms["matches"])) == 0 {
			t.Fatalf("expected at least the live match, got=%s", string(body))
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/ops/kpi", nil, nil)
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(body))
		}
		var kpi map[string]any
		_ = json.Unmarshal(body, &kpi)
		if asFloat(kpi["submission_total"]) < 2 {
			t.Fatalf("expected submissions counted, got=%v", kpi)
		}
	})
}

func mustJSON(t *testing.T, client *http.Client, method, url string, headers map[string]string, body map[string]any) (int, []byte) {
	t.Helper()
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = b
	}
	status, respBody, err := doRequest(client, method, url, headers, payload)
	if err != nil {
		t.Fatalf("%s %s request failed: %v", method, url, err)
	}
	return status, respBody
}

func doRaw(t *testing.T, client *http.Client, url string, payload []byte, headers map[string]string) (int, []byte) {
	t.Helper()
	status, body, err := doRequest(client, http.MethodPost, url, headers, payload)
	if err != nil {
		t.Fatalf("POST %s request failed: %v", url, err)
	}
	return status, body
}

func doRequest(client *http.Client, method, url string, headers map[string]string, payloadBytes []byte) (int, []byte, error) {
	var lastStatus int
	var lastBody []byte
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var payload io.Reader
		if len(payloadBytes) > 0 {
			payload = bytes.NewReader(payloadBytes)
		}
		req, err := http.NewRequest(method, url, payload)
		if err != nil {
			return 0, nil, err
		}
		if payloadBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		lastStatus, lastBody, lastErr = resp.StatusCode, respBody, nil
		if resp.StatusCode >= 500 {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func errorCode(body []byte) string {
	var resp map[string]any
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return asString(asMap(resp["error"])["code"])
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}
