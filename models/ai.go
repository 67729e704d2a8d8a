package models

// Intent labels the classifier is trained on that the pipeline reacts to.
const (
	IntentAddItem     = "ADD_ITEM"
	IntentRemoveItem  = "REMOVE_ITEM"
	IntentSuggestFood = "SUGGEST_FOOD"
)

// IsMutatingIntent reports whether label asks for a cart change.
func IsMutatingIntent(label string) bool {
	return label == IntentAddItem || label == IntentRemoveItem
}

// IntentScore is one (label, confidence) pair.
type IntentScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// IntentResult is the classifier's verdict. Alternatives cover every class, best first.
type IntentResult struct {
	Label        string        `json:"intent"`
	Confidence   float64       `json:"confidence"`
	Alternatives []IntentScore `json:"alternatives"`
}

// Clarification is an ambiguous term together with the catalog items it could mean.
type Clarification struct {
	Term    string   `json:"ambiguous"`
	Options []string `json:"options"`
}

// ExtractionResult never carries food items and clarifications at the same time.
type ExtractionResult struct {
	Quantity      int             `json:"quantity"`
	FoodItems     []string        `json:"food_items"`
	Clarification []Clarification `json:"clarification"`
}

// Flow steers the arbiter's instructions. It never authorizes a mutation.
type Flow string

const (
	FlowExecute       Flow = "EXECUTE"
	FlowClarification Flow = "CLARIFICATION"
	FlowSuggest       Flow = "SUGGEST"
	FlowGeneric       Flow = "GENERIC"
)

// DecisionAction is the closed set of actions the arbiter may return.
type DecisionAction string

const (
	ActionAddItem    DecisionAction = "ADD_ITEM"
	ActionRemoveItem DecisionAction = "REMOVE_ITEM"
	ActionNone       DecisionAction = "NONE"
)

// Valid reports whether a is one of the three known actions.
func (a DecisionAction) Valid() bool {
	switch a {
	case ActionAddItem, ActionRemoveItem, ActionNone:
		return true
	}
	return false
}

type DecisionItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Decision is the only artifact the cart reconciler consumes.
type Decision struct {
	Action  DecisionAction `json:"action"`
	Items   []DecisionItem `json:"items"`
	Message string         `json:"message"`
}

// AgentChatRequest is the payload coming from the table UI into /agent/chat.
type AgentChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// AgentChatResponse is what a single utterance produces. Cart is set only after a mutation.
type AgentChatResponse struct {
	Transcript        string           `json:"transcript,omitempty"`
	Intent            string           `json:"intent"`
	IntentConfidence  float64          `json:"intent_confidence"`
	Alternatives      []IntentScore    `json:"alternatives"`
	Extraction        ExtractionResult `json:"extraction"`
	ExtractionQuality float64          `json:"extraction_quality"`
	Flow              Flow             `json:"flow"`
	Decision          Decision         `json:"decision"`
	Cart              *Cart            `json:"cart,omitempty"`
}
