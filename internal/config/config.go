package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project root.
const FileName = ".routedoc.yaml"

type SecurityPattern struct {
	FunctionPath string   `yaml:"functionPath"`
	SchemeName   string   `yaml:"schemeName"`
	Scopes       []string `yaml:"scopes,omitempty"`
}

type ParameterPattern struct {
	FunctionPath string `yaml:"functionPath"`
	NameIndex    int    `yaml:"nameIndex"`
}

type RequestBodyPattern struct {
	FunctionPath string `yaml:"functionPath"`
	ArgIndex     int    `yaml:"argIndex"`
	ContentType  string `yaml:"contentType,omitempty"`
}

// ResponseBodyPattern matches a call writing a response. A negative DataIndex
// marks calls that write no typed body.
type ResponseBodyPattern struct {
	FunctionPath     string `yaml:"functionPath"`
	DataIndex        int    `yaml:"dataIndex"`
	StatusCodeIndex  *int   `yaml:"statusCodeIndex,omitempty"`
	DescriptionIndex *int   `yaml:"descriptionIndex,omitempty"`
	ContentType      string `yaml:"contentType,omitempty"`
}

type StatusCodePattern struct {
	FunctionPath    string `yaml:"functionPath"`
	StatusCodeIndex int    `yaml:"statusCodeIndex"`
}

type HandlerPatternsConfig struct {
	RequestBody     []RequestBodyPattern  `yaml:"requestBody"`
	ResponseBody    []ResponseBodyPattern `yaml:"responseBody"`
	StatusCode      []StatusCodePattern   `yaml:"statusCode"`
	QueryParameter  []ParameterPattern    `yaml:"queryParameter"`
	HeaderParameter []ParameterPattern    `yaml:"headerParameter"`
	PathParameter   []ParameterPattern    `yaml:"pathParameter"`
	CookieParameter []ParameterPattern    `yaml:"cookieParameter"`
	ResponseHeader  []ParameterPattern    `yaml:"responseHeader"`
}

// RouterDefinition describes the routing methods of one router type.
type RouterDefinition struct {
	Type string `yaml:"type"`
	// Get, Post, ...: the method name is the HTTP method.
	EndpointMethods []string `yaml:"endpointMethods"`
	// Method, Handle, ...: the first argument is the HTTP method.
	MethodArgMethods []string `yaml:"methodArgMethods"`
	// Route, Group: open a scope, optionally with a path prefix.
	GroupMethods []string `yaml:"groupMethods"`
	// Mount: attach a sub-router under a path.
	MountMethods []string `yaml:"mountMethods"`
	// Use: register middleware for the enclosing scope.
	MiddlewareMethods []string `yaml:"middlewareMethods"`
	// With: return a router carrying extra middleware.
	MiddlewareWrapperMethods []string `yaml:"middlewareWrapperMethods"`
}

// WellKnownType fixes the schema of a type regardless of its structure.
type WellKnownType struct {
	Type     string `yaml:"type"`
	Format   string `yaml:"format,omitempty"`
	Nullable bool   `yaml:"nullable,omitempty"`
}

type Config struct {
	Info               *openapi3.Info           `yaml:"info"`
	Output             string                   `yaml:"output"`
	Packages           []string                 `yaml:"packages"`
	DefaultContentType string                   `yaml:"defaultContentType"`
	LogLevel           string                   `yaml:"logLevel"`
	SecuritySchemes    map[string]any           `yaml:"securitySchemes"`
	RouterDefinitions  []RouterDefinition       `yaml:"routerDefinitions"`
	HandlerPatterns    *HandlerPatternsConfig   `yaml:"handlerPatterns"`
	SecurityPatterns   []SecurityPattern        `yaml:"securityPatterns"`
	WellKnownTypes     map[string]WellKnownType `yaml:"wellKnownTypes"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	intPtr := func(i int) *int { return &i }

	return &Config{
		Info:               &openapi3.Info{Title: "API Documentation", Version: "1.0.0"},
		Output:             "openapi.yaml",
		Packages:           []string{"./..."},
		DefaultContentType: "application/json",
		LogLevel:           "info",
		SecuritySchemes:    make(map[string]any),
		RouterDefinitions: []RouterDefinition{
			chiRouter("github.com/go-chi/chi/v5.Mux"),
			chiRouter("github.com/go-chi/chi/v5.Router"),
			ginRouter("github.com/gin-gonic/gin.Engine"),
			ginRouter("github.com/gin-gonic/gin.RouterGroup"),
		},
		HandlerPatterns: &HandlerPatternsConfig{
			RequestBody: []RequestBodyPattern{
				{FunctionPath: "encoding/json.Decoder.Decode", ArgIndex: 0},
				{FunctionPath: "github.com/go-chi/render.DecodeJSON", ArgIndex: 1},
				{FunctionPath: "github.com/gin-gonic/gin.Context.ShouldBindJSON", ArgIndex: 0},
				{FunctionPath: "github.com/gin-gonic/gin.Context.BindJSON", ArgIndex: 0},
				{FunctionPath: "github.com/labstack/echo/v4.Context.Bind", ArgIndex: 0},
			},
			ResponseBody: []ResponseBodyPattern{
				{FunctionPath: "encoding/json.Encoder.Encode", DataIndex: 0},
				{FunctionPath: "github.com/go-chi/render.JSON", DataIndex: 2},
				{FunctionPath: "github.com/gin-gonic/gin.Context.JSON", StatusCodeIndex: intPtr(0), DataIndex: 1},
				{FunctionPath: "github.com/gin-gonic/gin.Context.IndentedJSON", StatusCodeIndex: intPtr(0), DataIndex: 1},
				{FunctionPath: "net/http.Error", StatusCodeIndex: intPtr(2), DescriptionIndex: intPtr(1), DataIndex: -1, ContentType: "text/plain"},
			},
			StatusCode: []StatusCodePattern{
				{FunctionPath: "net/http.ResponseWriter.WriteHeader", StatusCodeIndex: 0},
				{FunctionPath: "github.com/go-chi/render.Status", StatusCodeIndex: 1},
				{FunctionPath: "github.com/gin-gonic/gin.Context.Status", StatusCodeIndex: 0},
			},
			QueryParameter: []ParameterPattern{
				{FunctionPath: "net/url.Values.Get", NameIndex: 0},
				{FunctionPath: "net/http.Request.FormValue", NameIndex: 0},
				{FunctionPath: "github.com/gin-gonic/gin.Context.Query", NameIndex: 0},
				{FunctionPath: "github.com/gin-gonic/gin.Context.DefaultQuery", NameIndex: 0},
			},
			HeaderParameter: []ParameterPattern{
				{FunctionPath: "net/http.Header.Get", NameIndex: 0},
				{FunctionPath: "github.com/gin-gonic/gin.Context.GetHeader", NameIndex: 0},
			},
			PathParameter: []ParameterPattern{
				{FunctionPath: "github.com/go-chi/chi/v5.URLParam", NameIndex: 1},
				{FunctionPath: "net/http.Request.PathValue", NameIndex: 0},
				{FunctionPath: "github.com/gin-gonic/gin.Context.Param", NameIndex: 0},
			},
			CookieParameter: []ParameterPattern{
				{FunctionPath: "net/http.Request.Cookie", NameIndex: 0},
				{FunctionPath: "github.com/gin-gonic/gin.Context.Cookie", NameIndex: 0},
			},
			ResponseHeader: []ParameterPattern{
				{FunctionPath: "net/http.Header.Set", NameIndex: 0},
				{FunctionPath: "net/http.Header.Add", NameIndex: 0},
				{FunctionPath: "github.com/gin-gonic/gin.Context.Header", NameIndex: 0},
			},
		},
	}
}

func chiRouter(typ string) RouterDefinition {
	return RouterDefinition{
		Type:                     typ,
		EndpointMethods:          []string{"Get", "Post", "Put", "Patch", "Delete", "Head", "Options", "Trace", "Connect"},
		MethodArgMethods:         []string{"Method", "MethodFunc"},
		GroupMethods:             []string{"Route", "Group"},
		MountMethods:             []string{"Mount"},
		MiddlewareMethods:        []string{"Use"},
		MiddlewareWrapperMethods: []string{"With"},
	}
}

func ginRouter(typ string) RouterDefinition {
	return RouterDefinition{
		Type:              typ,
		EndpointMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		MethodArgMethods:  []string{"Handle"},
		GroupMethods:      []string{"Group"},
		MiddlewareMethods: []string{"Use"},
	}
}

// Load reads the configuration of a project. An explicit path must exist; the
// default file in the project root is optional. Values present in the file
// replace the defaults.
func Load(projectPath, explicitPath string) (*Config, error) {
	cfg := Default()

	configPath := explicitPath
	if configPath == "" {
		configPath = filepath.Join(projectPath, FileName)
	}
	data, err := os.ReadFile(configPath)
	if err == nil {
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parsing %s: %w", configPath, unmarshalErr)
		}
	} else if explicitPath != "" || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if cfg.HandlerPatterns == nil {
		cfg.HandlerPatterns = &HandlerPatternsConfig{}
	}
	cfg.SecuritySchemes = sanitize(cfg.SecuritySchemes)
	return cfg, cfg.Validate()
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Info == nil || c.Info.Title == "" {
		result = multierror.Append(result, errors.New("info.title is required"))
	}
	if c.Info != nil && c.Info.Version == "" {
		result = multierror.Append(result, errors.New("info.version is required"))
	}
	if len(c.RouterDefinitions) == 0 {
		result = multierror.Append(result, errors.New("at least one router definition is required"))
	}
	for i, def := range c.RouterDefinitions {
		if strings.TrimPrefix(def.Type, "*") == "" || !strings.Contains(def.Type, ".") {
			result = multierror.Append(result, fmt.Errorf("routerDefinitions[%d]: type %q must be a qualified type name", i, def.Type))
		}
	}
	for i, p := range c.SecurityPatterns {
		if p.FunctionPath == "" || p.SchemeName == "" {
			result = multierror.Append(result, fmt.Errorf("securityPatterns[%d]: functionPath and schemeName are required", i))
		}
	}
	for name, scheme := range c.SecuritySchemes {
		if _, ok := scheme.(map[string]any); !ok {
			result = multierror.Append(result, fmt.Errorf("securitySchemes.%s must be a mapping", name))
		}
	}
	for name, t := range c.WellKnownTypes {
		if !strings.Contains(name, ".") {
			result = multierror.Append(result, fmt.Errorf("wellKnownTypes: %q must be a qualified type name", name))
		}
		switch t.Type {
		case "", openapi3.TypeString, openapi3.TypeInteger, openapi3.TypeNumber, openapi3.TypeBoolean,
			openapi3.TypeArray, openapi3.TypeObject:
		default:
			result = multierror.Append(result, fmt.Errorf("wellKnownTypes.%s: unknown type %q", name, t.Type))
		}
	}
	if c.LogLevel != "" && hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result, fmt.Errorf("logLevel: unknown level %q", c.LogLevel))
	}
	return result.ErrorOrNil()
}

// SecuritySchemeNames returns the configured scheme names.
func (c *Config) SecuritySchemeNames() []string {
	names := make([]string, 0, len(c.SecuritySchemes))
	for name := range c.SecuritySchemes {
		names = append(names, name)
	}
	return names
}

// sanitize converts the map[any]any values yaml may produce into
// map[string]any so they marshal as JSON.
func sanitize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = sanitizeValue(val)
		}
		return m
	case map[string]any:
		return sanitize(t)
	case []any:
		for i := range t {
			t[i] = sanitizeValue(t[i])
		}
		return t
	}
	return v
}
