package doccomment

import (
	"testing"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirectiveParameter(t *testing.T) {
	p := NewParser(nil)
	fields := p.Parse("@path id [Int] The user ID", "")

	require.Len(t, fields, 1)
	assert.Equal(t, model.Parameter{
		In:          model.InPath,
		Name:        "id",
		Type:        model.Primitive{Name: "Int", Kind: model.JSONInteger, Format: "int32"},
		Description: "The user ID",
	}, fields[0])
}

func TestParseDirectiveDialect(t *testing.T) {
	p := NewParser(nil)
	text := `List users
Returns every user visible to the caller.

@tag users, admin
@query limit [Int]? maximum number of users
  maximum: 100
  minimum: one
  colour: red
  x-internal: yes
@header X-Trace [String] trace id
@body application/json [CreateUser] the payload
@response 200 [User]+ list of users
@response 404 not found
@responseHeader X-Total [Int] total count
@security BearerAuth read write
@deprecated use v2
@operationId listUsers
@externalDocs https://example.com/docs more docs`

	fields := p.Parse(text, "example.com/app")

	require.Len(t, fields, 14)
	assert.Equal(t, model.Summary{Text: "List users"}, fields[0])
	assert.Equal(t, model.Description{Text: "Returns every user visible to the caller."}, fields[1])
	assert.Equal(t, model.Tag{Name: "users"}, fields[2])
	assert.Equal(t, model.Tag{Name: "admin"}, fields[3])

	limit, ok := fields[4].(model.Parameter)
	require.True(t, ok)
	assert.Equal(t, model.InQuery, limit.In)
	assert.Equal(t, "limit", limit.Name)
	assert.Equal(t, model.Optional{Inner: model.Primitive{Name: "Int", Kind: model.JSONInteger, Format: "int32"}}, limit.Type)
	assert.Equal(t, model.Attributes{"maximum": "100", "x-internal": "yes"}, limit.Attributes)

	header, ok := fields[5].(model.Parameter)
	require.True(t, ok)
	assert.Equal(t, model.InHeader, header.In)
	assert.Equal(t, "trace id", header.Description)

	body, ok := fields[6].(model.Body)
	require.True(t, ok)
	assert.Equal(t, "application/json", body.ContentType)
	assert.Equal(t, model.Reference{Name: "example.com/app.CreateUser"}, body.Type)

	ok200, ok := fields[7].(model.Response)
	require.True(t, ok)
	require.NotNil(t, ok200.Status)
	assert.Equal(t, 200, *ok200.Status)
	assert.Equal(t, model.Array{Elem: model.Reference{Name: "example.com/app.User"}}, ok200.Type)
	assert.Equal(t, "list of users", ok200.Description)

	notFound, ok := fields[8].(model.Response)
	require.True(t, ok)
	assert.Equal(t, 404, *notFound.Status)
	assert.Nil(t, notFound.Type)
	assert.Equal(t, "not found", notFound.Description)

	assert.Equal(t, model.ResponseHeader{
		Name:        "X-Total",
		Type:        model.Primitive{Name: "Int", Kind: model.JSONInteger, Format: "int32"},
		Description: "total count",
	}, fields[9])

	sec, ok := fields[10].(model.Security)
	require.True(t, ok)
	assert.Equal(t, "BearerAuth", *sec.Scheme)
	assert.Equal(t, []string{"read", "write"}, sec.Scopes)

	assert.Equal(t, model.Deprecated{Reason: "use v2"}, fields[11])
	assert.Equal(t, model.OperationID{Value: "listUsers"}, fields[12])
	assert.Equal(t, model.ExternalDocs{URL: "https://example.com/docs", Text: "more docs"}, fields[13])
}

func TestParseSecurityVariants(t *testing.T) {
	p := NewParser(nil)

	t.Run("optional", func(t *testing.T) {
		fields := p.Parse("@security", "")
		require.Len(t, fields, 1)
		assert.Nil(t, fields[0].(model.Security).Scheme)
	})

	t.Run("any", func(t *testing.T) {
		fields := p.Parse("@security *", "")
		require.Len(t, fields, 1)
		assert.Equal(t, model.AnyScheme, *fields[0].(model.Security).Scheme)
	})
}

func TestParseUnknownDirectiveIsSkipped(t *testing.T) {
	p := NewParser(nil)
	fields := p.Parse("@frobnicate hard\n  minimum: 1\n@ignore", "")

	require.Len(t, fields, 1)
	assert.Equal(t, model.Ignore{}, fields[0])
}

func TestParseMalformedDirectiveIsSkipped(t *testing.T) {
	p := NewParser(nil)
	fields := p.Parse("@path [Int] missing name\n@operationId\n@tag ok", "")

	require.Len(t, fields, 1)
	assert.Equal(t, model.Tag{Name: "ok"}, fields[0])
}

func TestParseMalformedLinkFallsBackToUntyped(t *testing.T) {
	p := NewParser(nil)
	fields := p.Parse("@response 200 [Map<String>] weird", "")

	require.Len(t, fields, 1)
	r := fields[0].(model.Response)
	assert.Nil(t, r.Type)
	assert.Equal(t, "weird", r.Description)
}

func TestParseContinuationLines(t *testing.T) {
	p := NewParser(nil)
	fields := p.Parse("@response 201 [User] created\n  and returned\n@description first\n  second", "")

	require.Len(t, fields, 2)
	assert.Equal(t, "created and returned", fields[0].(model.Response).Description)
	assert.Equal(t, model.Description{Text: "first\nsecond"}, fields[1])
}

func TestParseBooleanAttributesAreLenient(t *testing.T) {
	p := NewParser(nil)
	fields := p.Parse("@query q [String]\n  required: yes\n  deprecated: off\n  explode: maybe", "")

	require.Len(t, fields, 1)
	assert.Equal(t, model.Attributes{"required": "true", "deprecated": "false"}, fields[0].(model.Parameter).Attributes)
}

func TestParseListDialect(t *testing.T) {
	p := NewParser(nil)
	text := `Get a user
Tags: users
Path: id [Int] The user ID
Queries:
  expand [Boolean]? expand relations
  fields [String]+
    maxItems: 10
Responses:
  200 [User] the user
  404 not found
Security: BearerAuth
Colour: red
  ignored: true`

	fields := p.Parse(text, "app")

	require.Len(t, fields, 8)
	assert.Equal(t, model.Summary{Text: "Get a user"}, fields[0])
	assert.Equal(t, model.Tag{Name: "users"}, fields[1])
	assert.Equal(t, model.InPath, fields[2].(model.Parameter).In)

	expand := fields[3].(model.Parameter)
	assert.Equal(t, model.InQuery, expand.In)
	assert.Equal(t, "expand", expand.Name)
	assert.Equal(t, "expand relations", expand.Description)

	list := fields[4].(model.Parameter)
	assert.Equal(t, "fields", list.Name)
	assert.Equal(t, model.Array{Elem: model.Primitive{Name: "String", Kind: model.JSONString}}, list.Type)
	assert.Equal(t, model.Attributes{"maxItems": "10"}, list.Attributes)

	user := fields[5].(model.Response)
	assert.Equal(t, 200, *user.Status)
	assert.Equal(t, model.Reference{Name: "app.User"}, user.Type)
	assert.Equal(t, 404, *fields[6].(model.Response).Status)

	assert.Equal(t, "BearerAuth", *fields[7].(model.Security).Scheme)
}

func TestParseListDialectAmbiguousParameters(t *testing.T) {
	p := NewParser(nil)
	fields := p.Parse("Parameters:\n  id [Int]\n  page [Int]?", "")

	require.Len(t, fields, 2)
	for _, f := range fields {
		assert.Empty(t, f.(model.Parameter).In)
	}
}

func TestParseProseOnly(t *testing.T) {
	p := NewParser(nil)
	fields := p.Parse("ListUsers returns all users.\n\nIt paginates.", "")

	require.Len(t, fields, 2)
	assert.Equal(t, model.Summary{Text: "ListUsers returns all users."}, fields[0])
	assert.Equal(t, model.Description{Text: "It paginates."}, fields[1])
}

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want dialect
	}{
		{"directive", "Summary line\n@tag x", dialectDirective},
		{"list", "Summary line\nTags: x", dialectList},
		{"prose with unknown key", "Note: hello\n@tag x", dialectDirective},
		{"prose", "just text", dialectDirective},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, detectDialect(classify(splitLines(tc.text))))
		})
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
