package validation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// AppearanceRequestSchema defines the JSON schema for POST /appearances bodies.
// Rating range is checked by the model, not here.
var AppearanceRequestSchema = `{
	"type": "object",
	"properties": {
		"rating": {"type": "integer"},
		"episode_id": {"type": "integer", "minimum": 0},
		"guest_id": {"type": "integer", "minimum": 0}
	},
	"required": ["rating", "episode_id", "guest_id"]
}`

var appearanceSchema = mustSchema(AppearanceRequestSchema)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid JSON schema: %v", err))
	}
	return schema
}

// AppearanceRequest is the body of POST /appearances.
type AppearanceRequest struct {
	Rating    int  `json:"rating"`
	EpisodeID uint `json:"episode_id"`
	GuestID   uint `json:"guest_id"`
}

// SchemaError lists every schema violation found in a request body.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("JSON validation failed: %v", e.Problems)
}

// ValidateAppearanceRequest validates a JSON body against the appearance schema
func ValidateAppearanceRequest(jsonData []byte) error {
	result, err := appearanceSchema.Validate(gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return &SchemaError{Problems: []string{"request body must be a JSON object"}}
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return &SchemaError{Problems: problems}
	}

	return nil
}

// ParseAppearanceRequest validates and parses a POST /appearances body
func ParseAppearanceRequest(jsonData []byte) (*AppearanceRequest, error) {
	if err := ValidateAppearanceRequest(jsonData); err != nil {
		return nil, err
	}

	var req AppearanceRequest
	if err := json.Unmarshal(jsonData, &req); err != nil {
		return nil, &SchemaError{Problems: []string{err.Error()}}
	}

	return &req, nil
}
