package llm

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestSchemaMarshalJSON(t *testing.T) {
	data, err := json.Marshal(QuizSchema("Korean"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got["type"] != "object" {
		t.Errorf("type = %v", got["type"])
	}
	req, _ := got["required"].([]any)
	if len(req) != 6 {
		t.Errorf("required = %v", got["required"])
	}

	props := got["properties"].(map[string]any)
	idx := props["correctAnswerIndex"].(map[string]any)
	if idx["type"] != "integer" || idx["description"] != "Index (0-3) of the correct option" {
		t.Errorf("correctAnswerIndex = %v", idx)
	}
	opts := props["options"].(map[string]any)
	items := opts["items"].(map[string]any)
	if items["type"] != "object" {
		t.Errorf("options.items = %v", items)
	}
}

func TestSchemaLanguage(t *testing.T) {
	s := AnalysisSchema("English")
	meaning := s.Properties["words"].Items.Properties["meaning"]
	if meaning.Description != "English meaning" {
		t.Errorf("meaning description = %q", meaning.Description)
	}
}

func TestSchemaValidate(t *testing.T) {
	s := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"n":    {Type: TypeInteger},
			"ok":   {Type: TypeBoolean},
			"tags": {Type: TypeArray, Items: &Schema{Type: TypeString}},
		},
		Required: []string{"n"},
	}

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", `{"n": 3, "ok": true, "tags": ["a"]}`, false},
		{"optional absent", `{"n": 3}`, false},
		{"optional null", `{"n": 3, "ok": null}`, false},
		{"missing required", `{"ok": true}`, true},
		{"required null", `{"n": null}`, true},
		{"not object", `[1]`, true},
		{"fraction", `{"n": 1.5}`, true},
		{"bad item", `{"n": 1, "tags": [1]}`, true},
		{"bad bool", `{"n": 1, "ok": "yes"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v any
			if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			err := s.Validate(v)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSchemaRejectsNullReplies(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		in     string
	}{
		{"analysis", AnalysisSchema("Korean"), `{"words": null, "dialogue": null, "nextSuggestion": null}`},
		{"quiz", QuizSchema("Korean"), `{"questionParts": null, "translation": null, "options": null, "correctAnswerIndex": null, "explanation": null, "encouragement": null}`},
		{"nested", AnalysisSchema("Korean"), `{"words": [{"word": null, "reading": "a", "romaji": "a", "meaning": "a", "type": "a"}], "dialogue": [], "nextSuggestion": {"text": "a", "meaning": "a"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v any
			if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			if err := tt.schema.Validate(v); err == nil || !strings.Contains(err.Error(), "missing required field") {
				t.Errorf("Validate() err = %v, want missing required field", err)
			}
		})
	}
}

func TestToGenai(t *testing.T) {
	g := toGenai(AnalysisSchema("Korean"))

	if g.Type != genai.TypeObject {
		t.Errorf("Type = %v", g.Type)
	}
	if !reflect.DeepEqual(g.PropertyOrdering, []string{"words", "dialogue", "nextSuggestion"}) {
		t.Errorf("PropertyOrdering = %v", g.PropertyOrdering)
	}
	dialogue := g.Properties["dialogue"]
	if dialogue.Type != genai.TypeArray || dialogue.Items == nil {
		t.Fatalf("dialogue = %+v", dialogue)
	}
	if dialogue.Items.Properties["tutorId"].Type != genai.TypeString {
		t.Errorf("tutorId type = %v", dialogue.Items.Properties["tutorId"].Type)
	}
	if len(dialogue.Items.Required) != 5 {
		t.Errorf("dialogue required = %v", dialogue.Items.Required)
	}
	if toGenai(nil) != nil {
		t.Error("toGenai(nil) should be nil")
	}
}
