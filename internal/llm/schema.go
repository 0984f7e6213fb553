package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Type is a JSON schema type name.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Schema is the response contract sent with a request. It is provider
// neutral: it marshals as standard JSON schema and is converted for Gemini.
type Schema struct {
	Type        Type
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Required    []string
	// Ordering lists property names in the order the model should emit them.
	Ordering []string
}

// MarshalJSON renders s as JSON schema.
func (s Schema) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		out["properties"] = s.Properties
	}
	if s.Items != nil {
		out["items"] = s.Items
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return json.Marshal(out)
}

// Validate checks a decoded JSON value (as produced by json.Unmarshal into
// any) against s. Only types and required properties are checked.
func (s *Schema) Validate(v any) error {
	return s.validate("$", v)
}

func (s *Schema) validate(path string, v any) error {
	switch s.Type {
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object", path)
		}
		for _, name := range s.Required {
			if val, ok := obj[name]; !ok || val == nil {
				return fmt.Errorf("%s: missing required field %q", path, name)
			}
		}
		names := make([]string, 0, len(s.Properties))
		for name := range s.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			val, ok := obj[name]
			if !ok || val == nil {
				continue
			}
			if err := s.Properties[name].validate(path+"."+name, val); err != nil {
				return err
			}
		}
	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array", path)
		}
		if s.Items == nil {
			return nil
		}
		for i, item := range arr {
			if err := s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	case TypeString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s: expected string", path)
		}
	case TypeInteger:
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) {
			return fmt.Errorf("%s: expected integer", path)
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%s: expected boolean", path)
		}
	}
	return nil
}

func str(desc string) *Schema {
	return &Schema{Type: TypeString, Description: desc}
}

// AnalysisSchema describes the reply to an analysis request. Explanation
// fields are written in language.
func AnalysisSchema(language string) *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"words": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"word":    str("The Japanese word or particle"),
						"reading": str("Hiragana/Katakana reading"),
						"romaji":  str("Romaji pronunciation"),
						"meaning": str(language + " meaning"),
						"type": str("Part of speech in " + language + ". IMPORTANT: For conjugated forms, use the format 'Form(Pronunciation)'. " +
							"Example: '동사 (て형(테형), 요청)', '동사 (ます형(마스형))'"),
					},
					Required: []string{"word", "reading", "romaji", "meaning", "type"},
					Ordering: []string{"word", "reading", "romaji", "meaning", "type"},
				},
			},
			"dialogue": {
				Type:        TypeArray,
				Description: "A natural conversation (SKIT/ROLEPLAY) between the idols using the word. They should act as friends talking to each other, NOT teaching the user.",
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"tutorId":     str("The Exact ID of the tutor speaking. Use 'narrator' if it's a general explanation."),
						"tutorName":   str("Name of the tutor"),
						"tutorAge":    str("The real age of the idol/character (e.g. '24세'), calculated as of today if the character is a real person."),
						"text":        str("Japanese dialogue line. MUST BE 100% JAPANESE."),
						"reading":     str("Romaji pronunciation of the full text (e.g., 'Arigatou gozaimasu')."),
						"translation": str(language + " translation"),
					},
					Required: []string{"tutorId", "tutorName", "text", "reading", "translation"},
					Ordering: []string{"tutorId", "tutorName", "tutorAge", "text", "reading", "translation"},
				},
			},
			"nextSuggestion": {
				Type:        TypeObject,
				Description: "A suggestion for the NEXT Basic Japanese phrase to learn after this one. It should be related or slightly more advanced.",
				Properties: map[string]*Schema{
					"text":    str("The Japanese phrase"),
					"meaning": str(language + " meaning"),
				},
				Required: []string{"text", "meaning"},
				Ordering: []string{"text", "meaning"},
			},
		},
		Required: []string{"words", "dialogue", "nextSuggestion"},
		Ordering: []string{"words", "dialogue", "nextSuggestion"},
	}
}

// QuizSchema describes the reply to a quiz request.
func QuizSchema(language string) *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"questionParts": {
				Type:        TypeArray,
				Description: "Split the sentence into parts to render the quiz. One part must be the blank.",
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"text":    {Type: TypeString},
						"reading": str("Romaji pronunciation for this part"),
						"isBlank": {Type: TypeBoolean, Description: "True if this part should be hidden as the quiz target"},
					},
					Required: []string{"text", "reading", "isBlank"},
					Ordering: []string{"text", "reading", "isBlank"},
				},
			},
			"translation": str(language + " translation of the full question sentence"),
			"options": {
				Type:        TypeArray,
				Description: "4 possible answers",
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"text":    str("The Japanese word option"),
						"reading": str("Romaji pronunciation of the option"),
						"explanation": str("Specific explanation in " + language +
							". If correct, why it fits. If incorrect, why it is wrong (e.g. grammar error, unnatural)."),
					},
					Required: []string{"text", "reading", "explanation"},
					Ordering: []string{"text", "reading", "explanation"},
				},
			},
			"correctAnswerIndex": {Type: TypeInteger, Description: "Index (0-3) of the correct option"},
			"explanation":        str("Brief general grammar note or rule summary in " + language),
			"encouragement": {
				Type: TypeObject,
				Properties: map[string]*Schema{
					"tutorName": str("Name of one of the tutors"),
					"message":   str("A positive reinforcement message if correct, or a gentle encouragement if wrong. MUST match personality."),
				},
				Required: []string{"tutorName", "message"},
				Ordering: []string{"tutorName", "message"},
			},
		},
		Required: []string{"questionParts", "translation", "options", "correctAnswerIndex", "explanation", "encouragement"},
		Ordering: []string{"questionParts", "translation", "options", "correctAnswerIndex", "explanation", "encouragement"},
	}
}
