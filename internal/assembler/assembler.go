// Package assembler turns resolved routes into an OpenAPI document.
package assembler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/Zachacious/go-routedoc/internal/config"
	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/Zachacious/go-routedoc/internal/schema"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-set/v3"
	"github.com/samber/lo"
)

// OpenAPIVersion is the version of the produced documents.
const OpenAPIVersion = "3.0.3"

const defaultResponseDescription = "Successful response"

// assembler holds what one BuildSpec call shares between operations.
type assembler struct {
	cfg    *config.Config
	gen    *schema.Generator
	logger hclog.Logger

	// security schemes in capture order, for Security("*")
	schemes []string
}

// ErrNoInfo is returned when the configuration lacks the document info.
var ErrNoInfo = errors.New("configuration has no info section")

// BuildSpec constructs the document from resolved routes. Routes are grouped by
// path and method; when a pair occurs more than once the first one wins.
func BuildSpec(routes []model.ResolvedRoute, cfg *config.Config, gen *schema.Generator, logger hclog.Logger) (*openapi3.T, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if cfg == nil || cfg.Info == nil {
		return nil, ErrNoInfo
	}
	a := &assembler{cfg: cfg, gen: gen, logger: logger}
	a.captureSchemes(routes)

	doc := &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info:    cfg.Info,
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas:         make(openapi3.Schemas),
			SecuritySchemes: a.securitySchemes(),
		},
	}

	seen := set.New[string](len(routes))
	for _, route := range routes {
		key := route.Method + " " + route.Path
		if !seen.Insert(key) {
			logger.Debug("duplicate route, keeping the first", "method", route.Method, "path", route.Path)
			continue
		}
		item := doc.Paths.Value(route.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(route.Path, item)
		}
		item.SetOperation(route.Method, a.operation(route))
	}

	// Components are complete only once every operation has been built.
	doc.Components.Schemas = gen.Components()
	logger.Debug("assembled document", "paths", doc.Paths.Len(), "schemas", len(doc.Components.Schemas))
	return doc, nil
}

// captureSchemes lists the configured schemes by name, followed by schemes
// first seen in route documentation.
func (a *assembler) captureSchemes(routes []model.ResolvedRoute) {
	names := a.cfg.SecuritySchemeNames()
	sort.Strings(names)
	captured := set.From(names)
	for _, route := range routes {
		for _, f := range route.Fields {
			sec, ok := f.(model.Security)
			if !ok || sec.Scheme == nil || *sec.Scheme == model.AnyScheme {
				continue
			}
			if captured.Insert(*sec.Scheme) {
				names = append(names, *sec.Scheme)
			}
		}
	}
	a.schemes = names
}

// securitySchemes converts the configured schemes through their JSON form so
// every OpenAPI field is kept.
func (a *assembler) securitySchemes() openapi3.SecuritySchemes {
	out := make(openapi3.SecuritySchemes, len(a.cfg.SecuritySchemes))
	for name, raw := range a.cfg.SecuritySchemes {
		data, err := json.Marshal(raw)
		if err != nil {
			a.logger.Warn("skipping security scheme", "scheme", name, "error", err)
			continue
		}
		scheme := &openapi3.SecurityScheme{}
		if err := json.Unmarshal(data, scheme); err != nil {
			a.logger.Warn("skipping security scheme", "scheme", name, "error", err)
			continue
		}
		out[name] = &openapi3.SecuritySchemeRef{Value: scheme}
	}
	return out
}

// operation maps each field kind of a route to its place in the operation.
func (a *assembler) operation(route model.ResolvedRoute) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Responses = openapi3.NewResponsesWithCapacity(1)

	var headers []model.ResponseHeader
	for _, f := range route.Fields {
		switch v := f.(type) {
		case model.Summary:
			op.Summary = v.Text
		case model.Description:
			op.Description = v.Text
		case model.Tag:
			if !lo.Contains(op.Tags, v.Name) {
				op.Tags = append(op.Tags, v.Name)
			}
		case model.Deprecated:
			op.Deprecated = true
			if v.Reason != "" {
				if op.Extensions == nil {
					op.Extensions = make(map[string]any)
				}
				op.Extensions["x-deprecated-reason"] = v.Reason
			}
		case model.OperationID:
			op.OperationID = v.Value
		case model.ExternalDocs:
			op.ExternalDocs = &openapi3.ExternalDocs{URL: v.URL, Description: v.Text}
		case model.Parameter:
			op.AddParameter(a.parameter(route.Path, v))
		case model.Body:
			if op.RequestBody == nil {
				op.RequestBody = &openapi3.RequestBodyRef{Value: a.requestBody(v)}
			}
		case model.Response:
			a.addResponse(op.Responses, v)
		case model.ResponseHeader:
			headers = append(headers, v)
		case model.Security:
			reqs := a.requirements(v)
			if len(reqs) == 0 {
				// an empty list would declare the operation unauthenticated
				a.logger.Warn("no security schemes to expand", "method", route.Method, "path", route.Path)
				continue
			}
			if op.Security == nil {
				op.Security = openapi3.NewSecurityRequirements()
			}
			for _, req := range reqs {
				op.Security.With(req)
			}
		case model.Ignore, model.Path, model.Method:
		}
	}

	if op.Responses.Len() == 0 {
		op.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription(defaultResponseDescription))
	}
	a.attachHeaders(op.Responses, headers)
	return op
}

// parameter builds a parameter, deciding the location of parameters documented
// without one: path if the route has a matching placeholder, query otherwise.
func (a *assembler) parameter(path string, p model.Parameter) *openapi3.Parameter {
	in := p.In
	if in == "" {
		in = model.InQuery
		if hasPlaceholder(path, p.Name) {
			in = model.InPath
		}
		a.logger.Debug("inferred parameter location", "path", path, "parameter", p.Name, "in", in)
	}

	param := &openapi3.Parameter{
		Name:        p.Name,
		In:          in,
		Description: p.Description,
		Schema:      a.schemaOrString(p.Type, p.Attributes),
		Extensions:  extensions(p.Attributes),
	}
	if required, ok := p.Attributes.Bool("required"); ok {
		param.Required = required
	}
	if in == model.InPath {
		param.Required = true
	}
	param.Deprecated, _ = p.Attributes.Bool("deprecated")
	param.AllowEmptyValue, _ = p.Attributes.Bool("allowEmptyValue")
	if explode, ok := p.Attributes.Bool("explode"); ok {
		param.Explode = &explode
	}
	param.Style = p.Attributes["style"]
	return param
}

func hasPlaceholder(path, name string) bool {
	return strings.Contains(path, "{"+name+"}")
}

func (a *assembler) requestBody(b model.Body) *openapi3.RequestBody {
	body := openapi3.NewRequestBody().WithDescription(b.Description)
	required := b.Type != nil && !model.IsOptional(b.Type)
	if r, ok := b.Attributes.Bool("required"); ok {
		required = r
	}
	body.Required = required
	body.Content = a.content(b.ContentType, b.Type, b.Attributes)
	body.Extensions = extensions(b.Attributes)
	return body
}

// addResponse adds r under its status. A response without status is a 200.
// An existing entry for the status keeps its values and only gains what it
// lacks.
func (a *assembler) addResponse(responses *openapi3.Responses, r model.Response) {
	code := http.StatusOK
	if r.Status != nil {
		code = *r.Status
	}
	key := strconv.Itoa(code)

	description := r.Description
	if description == "" {
		description = http.StatusText(code)
	}
	if description == "" {
		description = "Response"
	}

	existing := responses.Value(key)
	if existing == nil || existing.Value == nil {
		resp := openapi3.NewResponse().WithDescription(description)
		resp.Content = a.content(r.ContentType, r.Type, r.Attributes)
		resp.Extensions = extensions(r.Attributes)
		responses.Set(key, &openapi3.ResponseRef{Value: resp})
		return
	}
	if existing.Value.Content == nil {
		existing.Value.Content = a.content(r.ContentType, r.Type, r.Attributes)
	}
}

// content returns the media type map of a body or response. Without a type
// there is no content, unless a content type was given explicitly.
func (a *assembler) content(contentType string, t model.TypeRef, attrs model.Attributes) openapi3.Content {
	if t == nil {
		if contentType == "" {
			return nil
		}
		return openapi3.Content{contentType: openapi3.NewMediaType()}
	}
	if contentType == "" {
		contentType = a.cfg.DefaultContentType
	}
	return openapi3.NewContentWithSchemaRef(a.schemaOrString(t, attrs), []string{contentType})
}

// attachHeaders adds every response header to every 2xx response.
func (a *assembler) attachHeaders(responses *openapi3.Responses, headers []model.ResponseHeader) {
	if len(headers) == 0 {
		return
	}
	for code, ref := range responses.Map() {
		if !strings.HasPrefix(code, "2") || ref.Value == nil {
			continue
		}
		if ref.Value.Headers == nil {
			ref.Value.Headers = make(openapi3.Headers, len(headers))
		}
		for _, h := range headers {
			if _, ok := ref.Value.Headers[h.Name]; ok {
				continue
			}
			ref.Value.Headers[h.Name] = &openapi3.HeaderRef{Value: &openapi3.Header{Parameter: openapi3.Parameter{
				Description: h.Description,
				Schema:      a.schemaOrString(h.Type, h.Attributes),
				Extensions:  extensions(h.Attributes),
			}}}
		}
	}
}

// requirements expands a security field. An optional requirement is the empty
// object; the any scheme stands for every captured scheme.
func (a *assembler) requirements(s model.Security) []openapi3.SecurityRequirement {
	switch {
	case s.Scheme == nil:
		return []openapi3.SecurityRequirement{openapi3.NewSecurityRequirement()}
	case *s.Scheme == model.AnyScheme:
		return lo.Map(a.schemes, func(name string, _ int) openapi3.SecurityRequirement {
			return openapi3.NewSecurityRequirement().Authenticate(name, s.Scopes...)
		})
	}
	return []openapi3.SecurityRequirement{openapi3.NewSecurityRequirement().Authenticate(*s.Scheme, s.Scopes...)}
}

// schemaOrString resolves t with its attributes applied, defaulting to a
// string schema when there is no type.
func (a *assembler) schemaOrString(t model.TypeRef, attrs model.Attributes) *openapi3.SchemaRef {
	ref := a.gen.Ref(t)
	if ref == nil {
		ref = openapi3.NewSchemaRef("", openapi3.NewStringSchema())
	}
	return schema.Apply(ref, attrs)
}

func extensions(attrs model.Attributes) map[string]any {
	ext := attrs.Extensions()
	if len(ext) == 0 {
		return nil
	}
	return lo.MapValues(ext, func(v string, _ string) any { return v })
}
