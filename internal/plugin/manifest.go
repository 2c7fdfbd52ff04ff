// Package plugin installs ai-plugin manifests and their OpenAPI definitions
// so the apicall tool can reach the described API.
package plugin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Manifest is the subset of .well-known/ai-plugin.json the installer reads.
type Manifest struct {
	SchemaVersion       string `json:"schema_version"`
	NameForHuman        string `json:"name_for_human"`
	NameForModel        string `json:"name_for_model"`
	DescriptionForHuman string `json:"description_for_human"`
	DescriptionForModel string `json:"description_for_model"`
	API                 struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"api"`
	LogoURL      string `json:"logo_url,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	LegalInfoURL string `json:"legal_info_url,omitempty"`
}

// manifestSchema accepts any manifest with an api object carrying a type and url.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["api"],
  "properties": {
    "schema_version": {"type": "string"},
    "name_for_human": {"type": "string"},
    "name_for_model": {"type": "string"},
    "description_for_human": {"type": "string"},
    "description_for_model": {"type": "string"},
    "auth": {"type": "object"},
    "api": {
      "type": "object",
      "required": ["type", "url"],
      "properties": {
        "type": {"type": "string"},
        "url": {"type": "string", "minLength": 1}
      }
    },
    "logo_url": {"type": "string"},
    "contact_email": {"type": "string"},
    "legal_info_url": {"type": "string"}
  }
}`

// ManifestError lists the schema violations of a manifest.
type ManifestError struct {
	Errors []string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid plugin manifest: %s", strings.Join(e.Errors, "; "))
}

// ParseManifest validates raw against the manifest schema and decodes it.
func ParseManifest(raw []byte) (*Manifest, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(manifestSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, &ManifestError{Errors: msgs}
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
