package action

import (
	"encoding/json"

	"molttactics/internal/app/auth"
)

// Body is the wire shape of a submission. Optional parts stay raw so a
// malformed part degrades instead of rejecting the whole request.
type Body struct {
	MatchID        string          `json:"match_id"`
	AgentID        string          `json:"agent_id"`
	Turn           int             `json:"turn"`
	Action         json.RawMessage `json:"action,omitempty"`
	Message        json.RawMessage `json:"message,omitempty"`
	ContractOffer  json.RawMessage `json:"contract_offer,omitempty"`
	ContractAccept json.RawMessage `json:"contract_accept,omitempty"`
}

type Request struct {
	Body   Body
	Signed auth.SignedRequest
}

type Response struct {
	OK   bool `json:"ok"`
	Turn int  `json:"turn"`
}
