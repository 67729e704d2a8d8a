package ai

import (
	"encoding/json"
	"math"
	"strings"

	"tableorder/models"
)

const (
	FallbackMessage = "Can you please clarify?"
	DefaultMessage  = "Okay, let me know how I can help."
)

// FallbackDecision is returned whenever generator output cannot be trusted.
func FallbackDecision() models.Decision {
	return models.Decision{
		Action:  models.ActionNone,
		Items:   []models.DecisionItem{},
		Message: FallbackMessage,
	}
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}

// outermostObject cuts the text between the first '{' and the last '}', which
// drops code fences and prose some models wrap around their answer.
func outermostObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// DecodeDecision strictly decodes generator output. "action" must be present
// and name one of the three actions. Absent or null items become empty, an
// absent quantity becomes 1, and an absent or blank message becomes
// DefaultMessage. Unknown keys are ignored.
func DecodeDecision(raw string) (models.Decision, error) {
	body, ok := outermostObject(raw)
	if !ok {
		return models.Decision{}, newViolation("notJSON", "no JSON object in output")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return models.Decision{}, newViolation("notJSON", "%v", err)
	}

	action, err := decodeAction(fields)
	if err != nil {
		return models.Decision{}, err
	}
	items, err := decodeItems(fields["items"])
	if err != nil {
		return models.Decision{}, err
	}
	message, err := decodeMessage(fields["message"])
	if err != nil {
		return models.Decision{}, err
	}

	if action == models.ActionNone {
		items = []models.DecisionItem{}
	}
	return models.Decision{Action: action, Items: items, Message: message}, nil
}

func decodeAction(fields map[string]json.RawMessage) (models.DecisionAction, error) {
	raw, present := fields["action"]
	if !present {
		return "", newViolation("missingAction", "action is required")
	}
	if isNull(raw) {
		return models.ActionNone, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", newViolation("invalidAction", "action must be a string")
	}
	action := models.DecisionAction(strings.ToUpper(strings.TrimSpace(s)))
	if !action.Valid() {
		return "", newViolation("invalidAction", "unknown action %q", s)
	}
	return action, nil
}

func decodeItems(raw json.RawMessage) ([]models.DecisionItem, error) {
	items := []models.DecisionItem{}
	if isNull(raw) {
		return items, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, newViolation("invalidItems", "items must be an array")
	}
	for i, elem := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err != nil || obj == nil {
			return nil, newViolation("invalidItems", "item %d is not an object", i)
		}
		var name string
		nameRaw, present := obj["name"]
		if !present || isNull(nameRaw) {
			return nil, newViolation("invalidItems", "item %d has no name", i)
		}
		if err := json.Unmarshal(nameRaw, &name); err != nil {
			return nil, newViolation("invalidItems", "item %d name must be a string", i)
		}
		qty, err := decodeQuantity(obj["quantity"])
		if err != nil {
			return nil, newViolation("invalidItems", "item %d: %v", i, err)
		}
		items = append(items, models.DecisionItem{Name: name, Quantity: qty})
	}
	return items, nil
}

func decodeQuantity(raw json.RawMessage) (int, error) {
	if isNull(raw) {
		return 1, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, newViolation("invalidQuantity", "quantity must be a number")
	}
	if f != math.Trunc(f) {
		return 0, newViolation("invalidQuantity", "quantity %v is not an integer", f)
	}
	switch {
	case f < 1:
		return 1, nil
	case f > math.MaxInt32:
		return math.MaxInt32, nil
	}
	return int(f), nil
}

func decodeMessage(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return DefaultMessage, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", newViolation("invalidMessage", "message must be a string")
	}
	if s = strings.TrimSpace(s); s == "" {
		return DefaultMessage, nil
	}
	return s, nil
}
