// Package schema turns type references into OpenAPI schemas.
package schema

import (
	"fmt"
	"go/types"
	"maps"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-set/v3"
	"github.com/samber/lo"
)

// ComponentPrefix is the JSON pointer prefix of schema components.
const ComponentPrefix = "#/components/schemas/"

// TypeLookup resolves a type name written in documentation to a checked type.
type TypeLookup interface {
	LookupType(name string) (types.Type, bool)
}

// Generator turns Go types and documentation links into OpenAPI schemas. Named
// types become reusable components; every later encounter of a type, including
// one from inside its own definition, yields a $ref.
type Generator struct {
	logger     hclog.Logger
	lookup     TypeLookup
	wellKnown  map[string]Fixed
	components openapi3.Schemas

	// qualified type name -> component name, and the reverse
	names  map[string]string
	owners map[string]string
	// named types whose schema is still being built
	building *set.Set[string]
}

// New returns a Generator. overrides extend and replace DefaultWellKnown.
func New(lookup TypeLookup, overrides map[string]Fixed, logger hclog.Logger) *Generator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	wellKnown := DefaultWellKnown()
	maps.Copy(wellKnown, overrides)
	return &Generator{
		logger:     logger,
		lookup:     lookup,
		wellKnown:  wellKnown,
		components: make(openapi3.Schemas),
		names:      make(map[string]string),
		owners:     make(map[string]string),
		building:   set.New[string](0),
	}
}

// Components returns the component schemas registered so far.
func (g *Generator) Components() openapi3.Schemas {
	return g.components
}

// Ref returns the schema for t, or nil when t is nil.
func (g *Generator) Ref(t model.TypeRef) *openapi3.SchemaRef {
	switch v := t.(type) {
	case nil:
		return nil
	case model.Resolved:
		return g.FromType(v.Type)
	case model.Primitive:
		return inline(primitive(v))
	case model.Reference:
		return g.reference(v)
	case model.Array:
		return inline(&openapi3.Schema{Type: &openapi3.Types{openapi3.TypeArray}, Items: orString(g.Ref(v.Elem))})
	case model.MapOf:
		s := openapi3.NewObjectSchema()
		s.AdditionalProperties = openapi3.AdditionalProperties{Schema: orString(g.Ref(v.Value))}
		return inline(s)
	case model.Optional:
		inner := g.Ref(v.Inner)
		if inner == nil || inner.Ref != "" {
			return inner
		}
		cp := *inner.Value
		cp.Nullable = true
		return inline(&cp)
	}
	return nil
}

func (g *Generator) reference(r model.Reference) *openapi3.SchemaRef {
	if f, ok := g.wellKnown[r.Name]; ok {
		return inline(f.schema())
	}
	if g.lookup != nil {
		if t, ok := g.lookup.LookupType(r.Name); ok {
			return g.FromType(t)
		}
	}
	g.logger.Warn("unresolved type reference, using string", "type", r.Name)
	return inline(openapi3.NewStringSchema())
}

// FromType returns the schema for a checked Go type.
func (g *Generator) FromType(t types.Type) *openapi3.SchemaRef {
	switch tt := t.(type) {
	case *types.Alias:
		return g.FromType(types.Unalias(tt))
	case *types.Pointer:
		return g.FromType(tt.Elem())
	case *types.Named:
		return g.named(tt)
	case *types.Basic:
		return inline(basic(tt))
	case *types.Slice:
		if isByte(tt.Elem()) {
			return inline(openapi3.NewBytesSchema())
		}
		return inline(&openapi3.Schema{Type: &openapi3.Types{openapi3.TypeArray}, Items: g.FromType(tt.Elem())})
	case *types.Array:
		return inline(&openapi3.Schema{Type: &openapi3.Types{openapi3.TypeArray}, Items: g.FromType(tt.Elem())})
	case *types.Map:
		s := openapi3.NewObjectSchema()
		s.AdditionalProperties = openapi3.AdditionalProperties{Schema: g.FromType(tt.Elem())}
		return inline(s)
	case *types.Struct:
		return inline(g.object(tt))
	case *types.Interface:
		return inline(openapi3.NewSchema())
	}
	g.logger.Debug("unsupported type", "type", t.String())
	s := openapi3.NewObjectSchema()
	s.Description = fmt.Sprintf("Unsupported type: %s", t)
	return inline(s)
}

func (g *Generator) named(n *types.Named) *openapi3.SchemaRef {
	q := qualifiedName(n)
	if f, ok := g.wellKnown[q]; ok {
		return inline(f.schema())
	}
	if marshalsItself(n) {
		return inline(openapi3.NewStringSchema())
	}
	switch u := n.Underlying().(type) {
	case *types.Basic:
		return inline(basic(u))
	case *types.Interface:
		return inline(openapi3.NewSchema())
	}

	if name, ok := g.names[q]; ok {
		if g.building.Contains(q) {
			g.logger.Trace("recursive type", "type", q)
		}
		return componentRef(name)
	}

	name := g.componentName(n, q)
	g.names[q] = name
	g.owners[name] = q
	g.building.Insert(q)
	g.components[name] = g.FromType(n.Underlying())
	g.building.Remove(q)
	return componentRef(name)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// componentName picks the short type name, qualifying it with its package when
// another type already owns that name.
func (g *Generator) componentName(n *types.Named, q string) string {
	base := n.Obj().Name()
	if args := n.TypeArgs(); args != nil && args.Len() > 0 {
		parts := []string{base}
		for i := 0; i < args.Len(); i++ {
			parts = append(parts, types.TypeString(args.At(i), func(p *types.Package) string { return "" }))
		}
		base = unsafeName.ReplaceAllString(strings.Join(parts, "_"), "_")
	}
	if owner, taken := g.owners[base]; !taken || owner == q {
		return base
	}

	pkg := n.Obj().Pkg()
	if pkg == nil {
		return base + "_" + strconv.Itoa(len(g.owners))
	}
	alt := pkg.Name() + "." + base
	if _, taken := g.owners[alt]; taken {
		alt = unsafeName.ReplaceAllString(pkg.Path(), "_") + "." + base
	}
	g.logger.Debug("component name collision", "type", q, "name", alt, "owner", g.owners[base])
	return alt
}

func (g *Generator) object(st *types.Struct) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	g.addFields(s, st, set.New[*types.Named](0))
	return s
}

// addFields adds the JSON visible fields of st to s, flattening embedded
// structs the way encoding/json does.
func (g *Generator) addFields(s *openapi3.Schema, st *types.Struct, embedded *set.Set[*types.Named]) {
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))
		jsonTag := tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(jsonTag, ",")

		if field.Embedded() && name == "" {
			if inner, named := embeddedStruct(field.Type()); inner != nil {
				if named == nil || embedded.Insert(named) {
					g.addFields(s, inner, embedded)
				}
				continue
			}
		}
		if !field.Exported() {
			continue
		}
		if name == "" {
			name = field.Name()
		}

		if lo.Contains(strings.Split(opts, ","), "string") {
			s.WithPropertyRef(name, inline(openapi3.NewStringSchema()))
		} else {
			s.WithPropertyRef(name, g.FromType(field.Type()))
		}
		if isRequired(tag) && !lo.Contains(s.Required, name) {
			s.Required = append(s.Required, name)
		}
	}
}

func isRequired(tag reflect.StructTag) bool {
	for _, key := range []string{"validate", "binding"} {
		if lo.Contains(strings.Split(tag.Get(key), ","), "required") {
			return true
		}
	}
	return false
}

func embeddedStruct(t types.Type) (*types.Struct, *types.Named) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	t = types.Unalias(t)
	named, _ := t.(*types.Named)
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil, nil
	}
	return st, named
}

func marshalsItself(n *types.Named) bool {
	ms := types.NewMethodSet(types.NewPointer(n))
	return ms.Lookup(nil, "MarshalJSON") != nil || ms.Lookup(nil, "MarshalText") != nil
}

func qualifiedName(n *types.Named) string {
	obj := n.Obj()
	name := obj.Name()
	if args := n.TypeArgs(); args != nil && args.Len() > 0 {
		parts := make([]string, 0, args.Len())
		for i := 0; i < args.Len(); i++ {
			parts = append(parts, types.TypeString(args.At(i), nil))
		}
		name += "[" + strings.Join(parts, ",") + "]"
	}
	if obj.Pkg() == nil {
		return name
	}
	return obj.Pkg().Path() + "." + name
}

func isByte(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == types.Byte
}

func basic(b *types.Basic) *openapi3.Schema {
	switch {
	case b.Info()&types.IsBoolean != 0:
		return openapi3.NewBoolSchema()
	case b.Info()&types.IsString != 0:
		return openapi3.NewStringSchema()
	case b.Info()&types.IsInteger != 0:
		switch b.Kind() {
		case types.Int8, types.Int16, types.Int32, types.Uint8, types.Uint16:
			return openapi3.NewInt32Schema()
		case types.Int64, types.Uint32, types.Uint64:
			return openapi3.NewInt64Schema()
		}
		return openapi3.NewIntegerSchema()
	case b.Kind() == types.Float32:
		return openapi3.NewFloat64Schema().WithFormat("float")
	case b.Info()&types.IsFloat != 0:
		return openapi3.NewFloat64Schema().WithFormat("double")
	}
	s := openapi3.NewStringSchema()
	s.Description = "Type " + b.Name()
	return s
}

func primitive(p model.Primitive) *openapi3.Schema {
	s := openapi3.NewSchema()
	s.Type = &openapi3.Types{p.Kind}
	s.Format = p.Format
	return s
}

func orString(ref *openapi3.SchemaRef) *openapi3.SchemaRef {
	if ref == nil {
		return inline(openapi3.NewStringSchema())
	}
	return ref
}

func inline(s *openapi3.Schema) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: s}
}

func componentRef(name string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: ComponentPrefix + name}
}
