package model

import (
	"maps"
	"strconv"
	"strings"
)

// ExtensionPrefix marks attribute keys that pass through to the document verbatim.
const ExtensionPrefix = "x-"

// AttrClass is how an attribute value is interpreted.
type AttrClass int

const (
	AttrUnknown AttrClass = iota
	AttrNumber
	AttrString
	AttrBool
	AttrExtension
)

var attributeVocabulary = map[string]AttrClass{
	"minimum":          AttrNumber,
	"maximum":          AttrNumber,
	"exclusiveMinimum": AttrBool,
	"exclusiveMaximum": AttrBool,
	"minLength":        AttrNumber,
	"maxLength":        AttrNumber,
	"minItems":         AttrNumber,
	"maxItems":         AttrNumber,
	"multipleOf":       AttrNumber,
	"pattern":          AttrString,
	"format":           AttrString,
	"default":          AttrString,
	"example":          AttrString,
	"style":            AttrString,
	"enum":             AttrString,
	"required":         AttrBool,
	"deprecated":       AttrBool,
	"nullable":         AttrBool,
	"allowEmptyValue":  AttrBool,
	"explode":          AttrBool,
	"uniqueItems":      AttrBool,
	"readOnly":         AttrBool,
	"writeOnly":        AttrBool,
}

// ClassifyAttribute returns how key is interpreted. Keys are matched
// case-insensitively against the vocabulary and returned in canonical form.
func ClassifyAttribute(key string) (string, AttrClass) {
	if strings.HasPrefix(strings.ToLower(key), ExtensionPrefix) {
		return key, AttrExtension
	}
	if class, ok := attributeVocabulary[key]; ok {
		return key, class
	}
	for canonical, class := range attributeVocabulary {
		if strings.EqualFold(canonical, key) {
			return canonical, class
		}
	}
	return key, AttrUnknown
}

// Attributes holds validated `key: value` pairs attached to a directive.
type Attributes map[string]string

// Union returns a copy of a with every key of other that a lacks.
func (a Attributes) Union(other Attributes) Attributes {
	if len(a) == 0 && len(other) == 0 {
		return nil
	}
	out := make(Attributes, len(a)+len(other))
	maps.Copy(out, other)
	maps.Copy(out, a)
	return out
}

// Float returns the numeric value of key.
func (a Attributes) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Uint returns the non-negative integer value of key.
func (a Attributes) Uint(key string) (uint64, bool) {
	f, ok := a.Float(key)
	if !ok || f < 0 {
		return 0, false
	}
	return uint64(f), true
}

// Bool returns the boolean value of key. Values were normalised by the parser.
func (a Attributes) Bool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok {
		return false, false
	}
	return v == "true", true
}

// Extensions returns the `x-` keyed attributes.
func (a Attributes) Extensions() map[string]string {
	var out map[string]string
	for k, v := range a {
		if _, class := ClassifyAttribute(k); class == AttrExtension {
			if out == nil {
				out = make(map[string]string)
			}
			out[k] = v
		}
	}
	return out
}

// ParseBool is the lenient boolean coercion used for attribute values.
func ParseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "y", "on", "1":
		return true, true
	case "false", "no", "n", "off", "0":
		return false, true
	}
	return false, false
}
