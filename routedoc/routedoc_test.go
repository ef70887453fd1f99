package routedoc

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Zachacious/go-routedoc/internal/config"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appPath = filepath.Join("..", "internal", "analyzer", "testdata", "app")

func generate(t *testing.T) *openapi3.T {
	t.Helper()
	cfg, err := config.Load(appPath, "")
	require.NoError(t, err)
	doc, err := Generate(context.Background(), appPath, cfg, nil)
	require.NoError(t, err)
	return doc
}

func TestGenerateListResponse(t *testing.T) {
	doc := generate(t)

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "Example API", doc.Info.Title)

	users := doc.Paths.Value("/api/users")
	require.NotNil(t, users)
	require.NotNil(t, users.Get)
	assert.Equal(t, []string{"users"}, users.Get.Tags)
	assert.Equal(t, "ListUsers returns every user.", users.Get.Summary)
	require.Len(t, users.Get.Parameters, 1)
	limit := users.Get.Parameters.GetByInAndName("query", "limit")
	require.NotNil(t, limit)
	assert.Equal(t, "page size", limit.Description)

	ok := users.Get.Responses.Value("200")
	require.NotNil(t, ok)
	media := ok.Value.Content.Get("application/json")
	require.NotNil(t, media)
	assert.True(t, media.Schema.Value.Type.Is(openapi3.TypeArray))
	assert.Equal(t, "#/components/schemas/User", media.Schema.Value.Items.Ref)

	user := doc.Components.Schemas["User"]
	require.NotNil(t, user)
	assert.Equal(t, "#/components/schemas/User", user.Value.Properties["manager"].Ref)
	assert.Equal(t, "date-time", user.Value.Properties["created_at"].Value.Format)
	assert.Contains(t, user.Value.Required, "name")
}

func TestGenerateOperationDetails(t *testing.T) {
	doc := generate(t)

	create := doc.Paths.Value("/api/users").Post
	require.NotNil(t, create)
	require.NotNil(t, create.RequestBody)
	body := create.RequestBody.Value.Content.Get("application/json")
	require.NotNil(t, body)
	assert.Equal(t, "#/components/schemas/CreateUserRequest", body.Schema.Ref)
	assert.NotNil(t, create.Responses.Value("201"))
	assert.NotNil(t, create.Responses.Value("400"))

	item := doc.Paths.Value("/api/users/{id}")
	require.NotNil(t, item)
	get := item.Get
	require.NotNil(t, get)
	assert.Equal(t, "GetUser returns one user.", get.Summary)
	require.Len(t, get.Parameters, 1)
	id := get.Parameters.GetByInAndName("path", "id")
	require.NotNil(t, id)
	assert.True(t, id.Required)
	assert.Equal(t, "The user ID", id.Description)
	assert.Contains(t, get.Responses.Value("200").Value.Headers, "X-Request-Id")

	del := item.Delete
	require.NotNil(t, del)
	assert.Equal(t, "Delete a user", del.Summary)
	require.NotNil(t, del.Security)
	assert.Equal(t, openapi3.SecurityRequirements{{"bearerAuth": []string{}}}, *del.Security)
	assert.Equal(t, "Deleted", *del.Responses.Value("204").Value.Description)

	health := doc.Paths.Value("/health").Get
	require.NotNil(t, health)
	assert.Equal(t, "Successful response", *health.Responses.Value("200").Value.Description)

	assert.Nil(t, doc.Paths.Value("/debug"))
	assert.Contains(t, doc.Components.SecuritySchemes, "bearerAuth")
	assert.Equal(t, "bearer", doc.Components.SecuritySchemes["bearerAuth"].Value.Scheme)
}

func TestGeneratedDocumentValidates(t *testing.T) {
	doc := generate(t)
	assert.NoError(t, doc.Validate(context.Background()))
}

func TestWriteJSON(t *testing.T) {
	doc := generate(t)
	out := filepath.Join(t.TempDir(), "nested", "openapi.json")

	require.NoError(t, Write(doc, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "3.0.3", decoded["openapi"])
	assert.Contains(t, decoded["paths"], "/admin/stats")
}
