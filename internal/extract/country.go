// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CountrySchema is the JSON schema sent with country extractions.
var CountrySchema = json.RawMessage(`{
  "title": "Country",
  "type": "object",
  "properties": {
    "name": {"title": "Name", "type": "string"},
    "capital": {"title": "Capital", "type": "string"},
    "languages": {"title": "Languages", "type": "array", "items": {"type": "string"}}
  },
  "required": ["name", "capital", "languages"]
}`)

// Country is the typed form of a CountrySchema reply.
type Country struct {
	Name      string   `json:"name"`
	Capital   string   `json:"capital"`
	Languages []string `json:"languages"`
}

func (c Country) String() string {
	return fmt.Sprintf("%s (capital: %s; languages: %s)", c.Name, c.Capital, strings.Join(c.Languages, ", "))
}

// ParseError reports a reply that does not match the expected shape.
// It is distinct from transport failures: the server answered, but the
// answer could not be used.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return "parse reply: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseCountry decodes raw into a Country. Every field of CountrySchema is
// required; unknown fields are ignored.
func ParseCountry(raw string) (Country, error) {
	var wire struct {
		Name      *string   `json:"name"`
		Capital   *string   `json:"capital"`
		Languages *[]string `json:"languages"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Country{}, &ParseError{Raw: raw, Err: err}
	}

	var missing []string
	if wire.Name == nil {
		missing = append(missing, "name")
	}
	if wire.Capital == nil {
		missing = append(missing, "capital")
	}
	if wire.Languages == nil {
		missing = append(missing, "languages")
	}
	if len(missing) > 0 {
		return Country{}, &ParseError{Raw: raw, Err: fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))}
	}

	return Country{Name: *wire.Name, Capital: *wire.Capital, Languages: *wire.Languages}, nil
}
