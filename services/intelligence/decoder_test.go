package ai

import (
	"testing"

	"tableorder/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDecision_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Decision
	}{
		{
			name: "plain object",
			raw:  `{"action":"ADD_ITEM","items":[{"name":"Paneer Tikka Pizza","quantity":2}],"message":"Adding two pizzas."}`,
			want: models.Decision{
				Action:  models.ActionAddItem,
				Items:   []models.DecisionItem{{Name: "Paneer Tikka Pizza", Quantity: 2}},
				Message: "Adding two pizzas.",
			},
		},
		{
			name: "wrapped in a code fence",
			raw:  "Sure!\n```json\n{\"action\":\"remove_item\",\"items\":[{\"name\":\"tea\"}],\"message\":\"Done\"}\n```",
			want: models.Decision{
				Action:  models.ActionRemoveItem,
				Items:   []models.DecisionItem{{Name: "tea", Quantity: 1}},
				Message: "Done",
			},
		},
		{
			name: "null fields take defaults",
			raw:  `{"action":null,"items":null,"message":null}`,
			want: models.Decision{Action: models.ActionNone, Items: []models.DecisionItem{}, Message: DefaultMessage},
		},
		{
			name: "absent optional fields and extra keys",
			raw:  `{"action":"ADD_ITEM","role":"EXECUTE"}`,
			want: models.Decision{Action: models.ActionAddItem, Items: []models.DecisionItem{}, Message: DefaultMessage},
		},
		{
			name: "non-positive quantity becomes one",
			raw:  `{"action":"ADD_ITEM","items":[{"name":"tea","quantity":0},{"name":"coffee","quantity":-3}],"message":" "}`,
			want: models.Decision{
				Action:  models.ActionAddItem,
				Items:   []models.DecisionItem{{Name: "tea", Quantity: 1}, {Name: "coffee", Quantity: 1}},
				Message: DefaultMessage,
			},
		},
		{
			name: "whole float quantity",
			raw:  `{"action":"ADD_ITEM","items":[{"name":"tea","quantity":3.0}],"message":"ok"}`,
			want: models.Decision{Action: models.ActionAddItem, Items: []models.DecisionItem{{Name: "tea", Quantity: 3}}, Message: "ok"},
		},
		{
			name: "none drops items",
			raw:  `{"action":" none ","items":[{"name":"tea","quantity":1}],"message":"Which one?"}`,
			want: models.Decision{Action: models.ActionNone, Items: []models.DecisionItem{}, Message: "Which one?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDecision(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeDecision_Violations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		code string
	}{
		{"empty", "", "notJSON"},
		{"prose", "I will add that for you.", "notJSON"},
		{"broken json", `{"action":"ADD_ITEM",`, "notJSON"},
		{"two objects", `{"action":"NONE"} and {"action":"ADD_ITEM"}`, "notJSON"},
		{"missing action", `{"items":[],"message":"hi"}`, "missingAction"},
		{"unknown action", `{"action":"PLACE_ORDER","items":[],"message":"Placed!"}`, "invalidAction"},
		{"numeric action", `{"action":1}`, "invalidAction"},
		{"items not an array", `{"action":"ADD_ITEM","items":"tea"}`, "invalidItems"},
		{"item not an object", `{"action":"ADD_ITEM","items":["tea"]}`, "invalidItems"},
		{"item without name", `{"action":"ADD_ITEM","items":[{"quantity":1}]}`, "invalidItems"},
		{"string quantity", `{"action":"ADD_ITEM","items":[{"name":"tea","quantity":"two"}]}`, "invalidItems"},
		{"fractional quantity", `{"action":"ADD_ITEM","items":[{"name":"tea","quantity":1.5}]}`, "invalidItems"},
		{"message not a string", `{"action":"NONE","message":{"text":"hi"}}`, "invalidMessage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDecision(tt.raw)
			require.Error(t, err)
			var violation *ContractViolation
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, tt.code, violation.Code)
		})
	}
}

func TestDecodeDecision_ClampsHugeQuantity(t *testing.T) {
	got, err := DecodeDecision(`{"action":"ADD_ITEM","items":[{"name":"tea","quantity":1e12}]}`)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2147483647, got.Items[0].Quantity)
}
