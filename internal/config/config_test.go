package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "API Documentation", cfg.Info.Title)
	assert.Equal(t, "openapi.yaml", cfg.Output)
	assert.Equal(t, []string{"./..."}, cfg.Packages)
	assert.Equal(t, "application/json", cfg.DefaultContentType)
	assert.Len(t, cfg.RouterDefinitions, 4)
	assert.NotEmpty(t, cfg.HandlerPatterns.ResponseBody)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
info:
  title: Pets
  version: 2.0.0
output: docs/api.json
securitySchemes:
  BearerAuth:
    type: http
    scheme: bearer
securityPatterns:
  - functionPath: example.com/app/auth.RequireToken
    schemeName: BearerAuth
routerDefinitions:
  - type: example.com/app/router.Router
    endpointMethods: [Get]
handlerPatterns:
  queryParameter:
    - functionPath: example.com/app/web.Query
      nameIndex: 1
wellKnownTypes:
  example.com/app.Money:
    type: string
    format: decimal
`)

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "Pets", cfg.Info.Title)
	assert.Equal(t, "docs/api.json", cfg.Output)
	require.Len(t, cfg.RouterDefinitions, 1)
	assert.Equal(t, "example.com/app/router.Router", cfg.RouterDefinitions[0].Type)
	assert.Equal(t, []ParameterPattern{{FunctionPath: "example.com/app/web.Query", NameIndex: 1}}, cfg.HandlerPatterns.QueryParameter)
	assert.NotEmpty(t, cfg.HandlerPatterns.ResponseBody, "unset pattern lists keep their defaults")
	assert.Equal(t, []string{"BearerAuth"}, cfg.SecuritySchemeNames())
	assert.Equal(t, "bearer", cfg.SecuritySchemes["BearerAuth"].(map[string]any)["scheme"])
	assert.Equal(t, WellKnownType{Type: "string", Format: "decimal"}, cfg.WellKnownTypes["example.com/app.Money"])
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "info: [")

	_, err := Load(dir, path)
	assert.ErrorContains(t, err, "parsing")
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Info.Title = ""
	cfg.RouterDefinitions = []RouterDefinition{{Type: "Router"}}
	cfg.SecurityPatterns = []SecurityPattern{{FunctionPath: "x.Y"}}
	cfg.WellKnownTypes = map[string]WellKnownType{"example.com/app.Money": {Type: "decimal"}}
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"info.title", "routerDefinitions[0]", "securityPatterns[0]", "unknown type", "logLevel"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestSanitize(t *testing.T) {
	in := map[string]any{
		"oauth": map[any]any{
			"flows": map[any]any{"scopes": []any{map[any]any{1: "a"}}},
		},
	}
	out := sanitize(in)

	flows := out["oauth"].(map[string]any)["flows"].(map[string]any)
	assert.Equal(t, map[string]any{"1": "a"}, flows["scopes"].([]any)[0])
}
