// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clipboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jeranaias/promptpad/internal/model"
)

// ErrInvalidInput is returned when pasted text is not a turn list.
var ErrInvalidInput = errors.New("invalid turn list")

// Entry is one element of the clipboard format. Other properties are allowed
// and ignored, including id.
type Entry struct {
	Role    model.Role `json:"role" jsonschema:"enum=system,enum=user,enum=assistant"`
	Content string     `json:"content"`
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// Schema returns the JSON schema of the clipboard format.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		ExpandedStruct:            true,
		Anonymous:                 true,
	}
	item := r.Reflect(&Entry{})
	// gojsonschema reads draft-07; drop the reflector's draft marker.
	item.Version = ""
	item.ID = ""

	list := &jsonschema.Schema{
		Type:  "array",
		Items: item,
	}
	return json.Marshal(list)
}

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		data, err := Schema()
		if err != nil {
			schemaErr = fmt.Errorf("failed to build paste schema: %w", err)
			return
		}
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	})
	return schema, schemaErr
}

// EncodeCopy serializes turns for the clipboard: ids removed, empty turns
// kept, two-space indentation.
func EncodeCopy(turns []model.Turn) (string, error) {
	data, err := json.MarshalIndent(model.CopyTransform(turns), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode turns: %w", err)
	}
	return string(data), nil
}

// DecodePaste parses clipboard text into turns numbered "1".."n".
// Errors wrap ErrInvalidInput.
func DecodePaste(text string) ([]model.Turn, error) {
	data := []byte(strings.TrimSpace(text))
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: not JSON", ErrInvalidInput)
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !result.Valid() {
		var problems []string
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	turns := make([]model.Turn, 0, len(entries))
	for _, e := range entries {
		turns = append(turns, model.NewTurn(e.Role, e.Content))
	}
	return model.Renumber(turns), nil
}
