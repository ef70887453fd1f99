package doccomment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Zachacious/go-routedoc/internal/model"
)

// linkPattern is the schema link grammar: an optional `:` map prefix, a
// bracketed type name, then an optional `?` (optional) or `+` (array) suffix.
var linkPattern = regexp.MustCompile(`^(:)?\[([\w./-]+)\]([?+])?$`)

type primitive struct {
	kind   string
	format string
}

var primitives = map[string]primitive{
	"Int":     {model.JSONInteger, "int32"},
	"Integer": {model.JSONInteger, ""},
	"Long":    {model.JSONInteger, "int64"},
	"Short":   {model.JSONInteger, ""},
	"Byte":    {model.JSONInteger, ""},
	"int":     {model.JSONInteger, ""},
	"int8":    {model.JSONInteger, ""},
	"int16":   {model.JSONInteger, ""},
	"int32":   {model.JSONInteger, "int32"},
	"int64":   {model.JSONInteger, "int64"},
	"uint":    {model.JSONInteger, ""},
	"uint8":   {model.JSONInteger, ""},
	"uint16":  {model.JSONInteger, ""},
	"uint32":  {model.JSONInteger, "int32"},
	"uint64":  {model.JSONInteger, "int64"},
	"Float":   {model.JSONNumber, "float"},
	"Double":  {model.JSONNumber, "double"},
	"Number":  {model.JSONNumber, ""},
	"float32": {model.JSONNumber, "float"},
	"float64": {model.JSONNumber, "double"},
	"Boolean": {model.JSONBoolean, ""},
	"Bool":    {model.JSONBoolean, ""},
	"bool":    {model.JSONBoolean, ""},
	"String":  {model.JSONString, ""},
	"Char":    {model.JSONString, ""},
	"string":  {model.JSONString, ""},
	"rune":    {model.JSONString, ""},
}

// IsPrimitive reports whether name is a well-known scalar type name.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// isLinkToken reports whether tok is shaped like a schema link, valid or not.
func isLinkToken(tok string) bool {
	return strings.HasPrefix(tok, "[") || strings.HasPrefix(tok, ":[")
}

// ResolveLink turns a schema link token such as `[User]+` into a type
// reference. Names without a `.` are qualified with namespace.
func ResolveLink(token, namespace string) (model.TypeRef, error) {
	m := linkPattern.FindStringSubmatch(token)
	if m == nil {
		return nil, fmt.Errorf("malformed type link %q", token)
	}
	mapPrefix, name, suffix := m[1], m[2], m[3]

	var link model.TypeRef
	if p, ok := primitives[name]; ok {
		link = model.Primitive{Name: name, Kind: p.kind, Format: p.format}
	} else {
		if !strings.Contains(name, ".") && namespace != "" {
			name = namespace + "." + name
		}
		link = model.Reference{Name: name}
	}

	switch suffix {
	case "?":
		link = model.Optional{Inner: link}
	case "+":
		link = model.Array{Elem: link}
	}
	if mapPrefix != "" {
		link = model.MapOf{Value: link}
	}
	return link, nil
}
