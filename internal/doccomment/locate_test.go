package doccomment

import (
	"strings"
	"testing"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	t.Run("line comments", func(t *testing.T) {
		src := "package x\n\n// not this\n\n\t// Get a user\n\t// @path id [Int]\n\t//   minimum: 1\n\tr.Get(\"/{id}\", h)\n"
		block, ok := Locate([]byte(src), strings.Index(src, "r.Get"))
		require.True(t, ok)
		assert.Equal(t, []string{"Get a user", "@path id [Int]", "  minimum: 1"}, block.Lines)
	})

	t.Run("block comment", func(t *testing.T) {
		src := "func f() {\n\t/*\n\t * Delete a user\n\t * @response 204\n\t */\n\tr.Delete(\"/\", h)\n}"
		block, ok := Locate([]byte(src), strings.Index(src, "r.Delete"))
		require.True(t, ok)
		assert.Equal(t, []string{"Delete a user", "@response 204"}, block.Lines)
	})

	t.Run("code in between", func(t *testing.T) {
		src := "// orphan\nx := 1\nr.Get(\"/\", h)"
		_, ok := Locate([]byte(src), strings.Index(src, "r.Get"))
		assert.False(t, ok)
	})

	t.Run("trailing comment on code line", func(t *testing.T) {
		src := "x := 1 // trailing\nr.Get(\"/\", h)"
		_, ok := Locate([]byte(src), strings.Index(src, "r.Get"))
		assert.False(t, ok)
	})

	t.Run("tool directives skipped", func(t *testing.T) {
		src := "// Handler doc\n//nolint:gocyclo\nfunc h() {}"
		block, ok := Locate([]byte(src), strings.Index(src, "func"))
		require.True(t, ok)
		assert.Equal(t, []string{"Handler doc"}, block.Lines)
	})

	t.Run("no comment", func(t *testing.T) {
		_, ok := Locate([]byte("r.Get()"), 0)
		assert.False(t, ok)
	})

	t.Run("out of range", func(t *testing.T) {
		_, ok := Locate([]byte("abc"), 10)
		assert.False(t, ok)
	})
}

func TestParseAt(t *testing.T) {
	src := "r.Route(\"/api\", func(r chi.Router) {\n\t// @response 200 [User]+ list of users\n\tr.Get(\"/users\", list)\n})"
	p := NewParser(nil)
	fields := p.ParseAt([]byte(src), strings.Index(src, "r.Get"), "example.com/api")

	require.Len(t, fields, 1)
	assert.Equal(t, model.Array{Elem: model.Reference{Name: "example.com/api.User"}}, fields[0].(model.Response).Type)
}
