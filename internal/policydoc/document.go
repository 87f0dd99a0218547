package policydoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Version is the only supported policy language version.
const Version = "2012-10-17"

// MaxSCPSize is the maximum size of a service control policy document in characters.
const MaxSCPSize = 5120

// Effects.
const (
	EffectAllow = "Allow"
	EffectDeny  = "Deny"
)

// Default guardrail policy metadata.
const (
	DefaultName        = "DenyAllBilling"
	DefaultDescription = "Deny All Billing Functions"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid policy document")

// Document is a policy document.
type Document struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is a single policy statement.
type Statement struct {
	Sid         string         `json:"Sid,omitempty"`
	Effect      string         `json:"Effect"`
	Action      StringList     `json:"Action,omitempty"`
	NotAction   StringList     `json:"NotAction,omitempty"`
	Resource    StringList     `json:"Resource,omitempty"`
	NotResource StringList     `json:"NotResource,omitempty"`
	Condition   map[string]any `json:"Condition,omitempty"`
}

// StringList accepts either a single string or a list of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = many
	return nil
}

// DenyAllBilling returns the built-in guardrail that denies billing actions.
func DenyAllBilling() Document {
	return Document{
		Version: Version,
		Statement: []Statement{{
			Effect:   EffectDeny,
			Action:   StringList{"cur:*", "ce:*", "aws-portal:*"},
			Resource: StringList{"*"},
		}},
	}
}

// Load reads a policy document from a YAML or JSON file and validates it.
func Load(path string) (Document, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read policy file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON policy document and validates it.
// Unknown fields are rejected.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Validate checks the document structure.
func (d Document) Validate() error {
	if d.Version != Version {
		return fmt.Errorf("%w: Version must be %q, got %q", ErrInvalid, Version, d.Version)
	}
	if len(d.Statement) == 0 {
		return fmt.Errorf("%w: at least one statement is required", ErrInvalid)
	}
	for i, s := range d.Statement {
		if s.Effect != EffectAllow && s.Effect != EffectDeny {
			return fmt.Errorf("%w: statement %d: Effect must be Allow or Deny, got %q", ErrInvalid, i, s.Effect)
		}
		if len(s.Action) == 0 && len(s.NotAction) == 0 {
			return fmt.Errorf("%w: statement %d: Action or NotAction is required", ErrInvalid, i)
		}
		if len(s.Action) > 0 && len(s.NotAction) > 0 {
			return fmt.Errorf("%w: statement %d: Action and NotAction are mutually exclusive", ErrInvalid, i)
		}
	}
	return nil
}

// JSON renders the document as compact JSON and enforces the SCP size limit.
func (d Document) JSON() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal policy: %w", err)
	}
	if len(data) > MaxSCPSize {
		return "", fmt.Errorf("%w: document is %d characters, limit is %d", ErrInvalid, len(data), MaxSCPSize)
	}
	return string(data), nil
}

// YAML renders the document as YAML, for display.
func (d Document) YAML() (string, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal policy: %w", err)
	}
	return string(data), nil
}
