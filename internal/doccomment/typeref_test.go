package doccomment

import (
	"testing"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLink(t *testing.T) {
	str := model.Primitive{Name: "String", Kind: model.JSONString}
	user := model.Reference{Name: "example.com/app.User"}

	tests := []struct {
		token string
		want  model.TypeRef
	}{
		{"[String]", str},
		{"[Long]", model.Primitive{Name: "Long", Kind: model.JSONInteger, Format: "int64"}},
		{"[float64]", model.Primitive{Name: "float64", Kind: model.JSONNumber, Format: "double"}},
		{"[bool]", model.Primitive{Name: "bool", Kind: model.JSONBoolean}},
		{"[User]", user},
		{"[User]?", model.Optional{Inner: user}},
		{"[User]+", model.Array{Elem: user}},
		{":[User]", model.MapOf{Value: user}},
		{":[User]+", model.MapOf{Value: model.Array{Elem: user}}},
		{":[String]?", model.MapOf{Value: model.Optional{Inner: str}}},
		{"[models.Account]", model.Reference{Name: "models.Account"}},
		{"[github.com/acme/models.Account]", model.Reference{Name: "github.com/acme/models.Account"}},
	}
	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			got, err := ResolveLink(tc.token, "example.com/app")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveLinkWithoutNamespace(t *testing.T) {
	got, err := ResolveLink("[User]", "")
	require.NoError(t, err)
	assert.Equal(t, model.Reference{Name: "User"}, got)
}

func TestResolveLinkRejectsMalformed(t *testing.T) {
	for _, tok := range []string{"User", "[User", "[User]*", "[]", "[A B]", "::[User]"} {
		_, err := ResolveLink(tok, "")
		assert.Error(t, err, tok)
	}
}
