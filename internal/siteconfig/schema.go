package siteconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaViolation marks configuration that the embedded schema rejects.
var ErrSchemaViolation = errors.New("site config: schema validation failed")

// SchemaIssue captures a single schema violation.
type SchemaIssue struct {
	Location string
	Message  string
}

// SchemaError surfaces schema violations with location context.
type SchemaError struct {
	Issues []SchemaIssue
	Cause  error
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaViolation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaViolation
}

// Issues extracts schema issues from an error.
func Issues(err error) []SchemaIssue {
	if err == nil {
		return nil
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) && schemaErr != nil {
		return schemaErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectIssues(validationErr)
	}
	return []SchemaIssue{{Message: err.Error()}}
}

const siteSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "required": ["site"],
  "properties": {
    "site": {
      "type": "object",
      "additionalProperties": false,
      "required": ["name", "url"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "url": {"type": "string", "minLength": 1},
        "description": {"type": "string"},
        "author": {"type": "string"},
        "language": {"type": "string"}
      }
    },
    "nav": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["title", "path"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "path": {"type": "string", "minLength": 1},
          "children": {
            "type": "array",
            "items": {
              "type": "object",
              "additionalProperties": false,
              "required": ["title", "path"],
              "properties": {
                "title": {"type": "string", "minLength": 1},
                "path": {"type": "string", "minLength": 1}
              }
            }
          }
        }
      }
    },
    "theme": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string"},
        "overrides": {"type": "string"}
      }
    },
    "blog": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "posts_per_index": {"type": "integer", "minimum": 1},
        "archive": {"type": "boolean"},
        "tags": {"type": "boolean"}
      }
    },
    "feeds": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "rss": {"type": "boolean"},
        "atom": {"type": "boolean"},
        "limit": {"type": "integer", "minimum": 1}
      }
    },
    "sitemap": {"type": "boolean"},
    "robots": {"type": "boolean"},
    "search": {"type": "boolean"},
    "comments": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "provider": {"type": "string"}
      }
    },
    "validation": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "min_tags": {"type": "integer", "minimum": 0},
        "max_tags": {"type": "integer", "minimum": 0},
        "require_comments": {"type": "boolean"},
        "allowed_tags": {"type": "array", "items": {"type": "string", "minLength": 1}}
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("site.schema.json", strings.NewReader(siteSchema)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile("site.schema.json")
	})
	return compiledSchema, compileErr
}

func validateAgainstSchema(raw map[string]any) error {
	if raw == nil {
		raw = map[string]any{}
	}

	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("site config: compile schema: %w", err)
	}

	// Round-trip through JSON so the validator sees canonical JSON types
	// rather than whatever the YAML decoder produced.
	payload, err := toJSONValue(raw)
	if err != nil {
		return fmt.Errorf("site config: normalize: %w", err)
	}

	if err := schema.Validate(payload); err != nil {
		return &SchemaError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

func toJSONValue(input any) (any, error) {
	encoded, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectIssues(err *jsonschema.ValidationError) []SchemaIssue {
	if err == nil {
		return nil
	}
	issues := []SchemaIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, SchemaIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
