package action

import (
	_ "embed"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"molttactics/internal/domain/arena"
)

//go:embed action.schema.json
var actionSchemaJSON string

var actionSchema = jsonschema.MustCompileString("action.schema.json", actionSchemaJSON)

// DecodeAction turns a raw action payload into an action the resolver can
// run. Absent, unparsable or schema-invalid payloads become defend.
func DecodeAction(raw json.RawMessage) arena.Action {
	if len(raw) == 0 || string(raw) == "null" {
		return arena.Defend()
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return arena.Defend()
	}
	if err := actionSchema.Validate(doc); err != nil {
		return arena.Defend()
	}
	var a arena.Action
	if err := json.Unmarshal(raw, &a); err != nil {
		return arena.Defend()
	}
	return arena.NormalizeAction(&a)
}

func decodeOffer(raw json.RawMessage) *arena.ContractOffer {
	if len(raw) == 0 {
		return nil
	}
	var o arena.ContractOffer
	if err := json.Unmarshal(raw, &o); err != nil || o.TargetAgentID == "" {
		return nil
	}
	return &o
}

func decodeAccept(raw json.RawMessage) *arena.ContractAccept {
	if len(raw) == 0 {
		return nil
	}
	var a arena.ContractAccept
	if err := json.Unmarshal(raw, &a); err != nil || a.OffererID == "" {
		return nil
	}
	return &a
}

// decodeMessage keeps string messages and drops anything else.
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
