package ai

import (
	"fmt"
	"strings"

	"tableorder/models"
)

// MenuPreviewLimit bounds how many catalog names go into a prompt.
const MenuPreviewLimit = 6

const baseRules = "Rules: no intent change, no execute, menu-only, JSON-only, short."

const contract = `Return ONLY one JSON object, no markdown and no prose:
{"action": "ADD_ITEM | REMOVE_ITEM | NONE", "items": [{"name": "<menu item>", "quantity": <int>}], "message": "<short reply to the guest>"}
You MUST NOT change the detected intent, confirm or place the order, or invent menu items.
If unsure, set action to "NONE".`

var flowTasks = map[models.Flow]string{
	models.FlowExecute:       "Explain what will happen.",
	models.FlowClarification: "Ask ONE clarification question.",
	models.FlowSuggest:       "Suggest 2-3 items.",
	models.FlowGeneric:       "Respond politely.",
}

// PromptInput is everything the arbiter knows about one utterance.
type PromptInput struct {
	Text       string
	Intent     models.IntentResult
	Extraction models.ExtractionResult
	Flow       models.Flow
	Menu       []string
}

// ExtractionSummary compresses an extraction into one line.
func ExtractionSummary(res models.ExtractionResult) string {
	if len(res.Clarification) > 0 {
		return "ambiguous:" + res.Clarification[0].Term
	}
	if len(res.FoodItems) > 0 {
		return fmt.Sprintf("items:%s x%d", strings.Join(res.FoodItems, ","), res.Quantity)
	}
	return "none"
}

func menuPreview(names []string) string {
	if len(names) > MenuPreviewLimit {
		names = names[:MenuPreviewLimit]
	}
	return strings.Join(names, ", ")
}

// BuildPrompt renders the flow-specific instruction. Only clarification and
// suggestion flows get a menu preview.
func BuildPrompt(in PromptInput) string {
	flow := in.Flow
	task, ok := flowTasks[flow]
	if !ok {
		flow, task = models.FlowGeneric, flowTasks[models.FlowGeneric]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a restaurant ordering assistant.\n")
	fmt.Fprintf(&sb, "Mode: %s\n", flow)
	fmt.Fprintf(&sb, "Intent: %s (%.2f)\n", in.Intent.Label, in.Intent.Confidence)
	fmt.Fprintf(&sb, "Extraction: %s\n", ExtractionSummary(in.Extraction))
	if flow == models.FlowClarification || flow == models.FlowSuggest {
		fmt.Fprintf(&sb, "Menu: %s\n", menuPreview(in.Menu))
	}
	fmt.Fprintf(&sb, "\nUser: %q\n\n", in.Text)
	fmt.Fprintf(&sb, "Task: %s\n\n", task)
	sb.WriteString(baseRules)
	sb.WriteString("\n")
	sb.WriteString(contract)
	sb.WriteString("\n")
	return sb.String()
}
