package webhook

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Provider names accepted on the webhook endpoint.
const (
	ProviderGitHub    = "github"
	ProviderBitbucket = "bitbucket"
	ProviderAzure     = "azure"
)

// Structural schemas per provider. Permissive: they pin down the envelope
// the normalizer relies on, not the full provider contract.
const githubSchema = `{
	"type": "object",
	"required": ["repository", "sender"],
	"properties": {
		"repository": {
			"type": "object",
			"properties": {"full_name": {"type": "string"}}
		},
		"sender": {
			"type": "object",
			"properties": {"login": {"type": "string"}}
		},
		"commits": {"type": "array"},
		"action": {"type": "string"},
		"ref": {"type": "string"},
		"ref_type": {"type": "string"}
	}
}`

const bitbucketSchema = `{
	"type": "object",
	"required": ["repository", "actor"],
	"properties": {
		"repository": {
			"type": "object",
			"properties": {"full_name": {"type": "string"}}
		},
		"actor": {"type": "object"},
		"push": {"type": "object"},
		"pullrequest": {"type": "object"},
		"issue": {"type": "object"}
	}
}`

const azureSchema = `{
	"type": "object",
	"required": ["eventType", "resource"],
	"properties": {
		"eventType": {"type": "string"},
		"resource": {"type": "object"}
	}
}`

// PayloadValidator checks raw provider payloads against the structural
// schemas before normalization. A failure means a malformed delivery (HTTP
// 400 territory), not a pipeline error.
type PayloadValidator struct {
	schemas map[string]*jsonschema.Schema
}

func NewPayloadValidator() (*PayloadValidator, error) {
	sources := map[string]string{
		ProviderGitHub:    githubSchema,
		ProviderBitbucket: bitbucketSchema,
		ProviderAzure:     azureSchema,
	}

	c := jsonschema.NewCompiler()
	for provider, src := range sources {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("parse %s schema: %w", provider, err)
		}
		if err := c.AddResource(provider+".json", doc); err != nil {
			return nil, fmt.Errorf("add %s schema: %w", provider, err)
		}
	}

	schemas := make(map[string]*jsonschema.Schema, len(sources))
	for provider := range sources {
		sch, err := c.Compile(provider + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", provider, err)
		}
		schemas[provider] = sch
	}
	return &PayloadValidator{schemas: schemas}, nil
}

// Validate checks a decoded payload against the provider's schema. Unknown
// providers pass through: the normalizer reports "no mapping" for them.
func (v *PayloadValidator) Validate(provider string, payload any) error {
	sch, ok := v.schemas[provider]
	if !ok {
		return nil
	}
	return sch.Validate(payload)
}
