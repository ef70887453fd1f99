package schema

import (
	"strconv"
	"strings"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/samber/lo"
)

// schemaAttributes are the attribute keys that constrain a schema rather than
// the parameter, body or header holding it.
var schemaAttributes = []string{
	"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf",
	"minLength", "maxLength", "pattern", "format",
	"minItems", "maxItems", "uniqueItems",
	"default", "example", "enum",
	"nullable", "readOnly", "writeOnly",
}

// Apply returns ref constrained by the schema attributes in attrs. A component
// reference is never modified: it is wrapped in allOf instead.
func Apply(ref *openapi3.SchemaRef, attrs model.Attributes) *openapi3.SchemaRef {
	relevant := lo.Filter(schemaAttributes, func(k string, _ int) bool {
		_, ok := attrs[k]
		return ok
	})
	if len(relevant) == 0 {
		return ref
	}

	var s *openapi3.Schema
	switch {
	case ref == nil:
		s = openapi3.NewSchema()
	case ref.Ref != "":
		s = &openapi3.Schema{AllOf: openapi3.SchemaRefs{ref}}
	default:
		cp := *ref.Value
		s = &cp
	}

	for _, key := range relevant {
		applyAttribute(s, key, attrs)
	}
	return &openapi3.SchemaRef{Value: s}
}

func applyAttribute(s *openapi3.Schema, key string, attrs model.Attributes) {
	switch key {
	case "minimum":
		if f, ok := attrs.Float(key); ok {
			s.Min = &f
		}
	case "maximum":
		if f, ok := attrs.Float(key); ok {
			s.Max = &f
		}
	case "multipleOf":
		if f, ok := attrs.Float(key); ok {
			s.MultipleOf = &f
		}
	case "exclusiveMinimum":
		s.ExclusiveMin, _ = attrs.Bool(key)
	case "exclusiveMaximum":
		s.ExclusiveMax, _ = attrs.Bool(key)
	case "minLength":
		if n, ok := attrs.Uint(key); ok {
			s.MinLength = n
		}
	case "maxLength":
		if n, ok := attrs.Uint(key); ok {
			s.MaxLength = &n
		}
	case "minItems":
		if n, ok := attrs.Uint(key); ok {
			s.MinItems = n
		}
	case "maxItems":
		if n, ok := attrs.Uint(key); ok {
			s.MaxItems = &n
		}
	case "uniqueItems":
		s.UniqueItems, _ = attrs.Bool(key)
	case "pattern":
		s.Pattern = attrs[key]
	case "format":
		s.Format = attrs[key]
	case "default":
		s.Default = coerce(attrs[key], s.Type)
	case "example":
		s.Example = coerce(attrs[key], s.Type)
	case "enum":
		s.Enum = lo.Map(strings.Split(attrs[key], ","), func(v string, _ int) any {
			return coerce(strings.TrimSpace(v), s.Type)
		})
	case "nullable":
		s.Nullable, _ = attrs.Bool(key)
	case "readOnly":
		s.ReadOnly, _ = attrs.Bool(key)
	case "writeOnly":
		s.WriteOnly, _ = attrs.Bool(key)
	}
}

// coerce converts an attribute value to the JSON type of the schema, keeping
// the raw string when it does not parse.
func coerce(v string, t *openapi3.Types) any {
	switch {
	case t.Is(openapi3.TypeInteger):
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case t.Is(openapi3.TypeNumber):
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case t.Is(openapi3.TypeBoolean):
		if b, ok := model.ParseBool(v); ok {
			return b
		}
	}
	return v
}
