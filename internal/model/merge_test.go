package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeSelfWins(t *testing.T) {
	self := []Field{
		Description{Text: "inner"},
		Parameter{In: InPath, Name: "id", Attributes: Attributes{"minimum": "1"}},
	}
	other := []Field{
		Description{Text: "outer"},
		Parameter{In: InPath, Name: "id", Type: Primitive{Name: "Int", Kind: JSONInteger}, Description: "the id",
			Attributes: Attributes{"minimum": "0", "maximum": "9"}},
		Tag{Name: "users"},
	}

	got := Merge(self, other)

	assert.Equal(t, []Field{
		Description{Text: "inner"},
		Parameter{In: InPath, Name: "id", Type: Primitive{Name: "Int", Kind: JSONInteger}, Description: "the id",
			Attributes: Attributes{"minimum": "1", "maximum": "9"}},
		Tag{Name: "users"},
	}, got)
}

func TestMergeKeys(t *testing.T) {
	t.Run("parameters differ by location", func(t *testing.T) {
		got := Merge([]Field{Parameter{In: InQuery, Name: "id"}}, []Field{Parameter{In: InPath, Name: "id"}})
		assert.Len(t, got, 2)
	})

	t.Run("parameter without location takes the other's", func(t *testing.T) {
		got := Merge(
			[]Field{Parameter{Name: "id", Description: "The user ID"}},
			[]Field{Parameter{In: InQuery, Name: "q"}, Parameter{In: InPath, Name: "id"}},
		)
		assert.Equal(t, []Field{
			Parameter{In: InPath, Name: "id", Description: "The user ID"},
			Parameter{In: InQuery, Name: "q"},
		}, got)

		got = Merge(
			[]Field{Parameter{In: InQuery, Name: "limit"}},
			[]Field{Parameter{Name: "limit", Type: Primitive{Name: "Int", Kind: JSONInteger, Format: "int32"}}},
		)
		assert.Equal(t, []Field{
			Parameter{In: InQuery, Name: "limit", Type: Primitive{Name: "Int", Kind: JSONInteger, Format: "int32"}},
		}, got)
	})

	t.Run("responses by status", func(t *testing.T) {
		got := Merge(
			[]Field{Response{Status: StatusPtr(200)}, Response{}},
			[]Field{Response{Status: StatusPtr(404)}, Response{Description: "default"}, Response{Status: StatusPtr(200), Description: "ok"}},
		)
		assert.Equal(t, []Field{
			Response{Status: StatusPtr(200), Description: "ok"},
			Response{Description: "default"},
			Response{Status: StatusPtr(404)},
		}, got)
	})

	t.Run("response headers ignore case", func(t *testing.T) {
		got := Merge([]Field{ResponseHeader{Name: "X-Total"}}, []Field{ResponseHeader{Name: "x-total", Description: "count"}})
		assert.Equal(t, []Field{ResponseHeader{Name: "X-Total", Description: "count"}}, got)
	})

	t.Run("security by scheme", func(t *testing.T) {
		got := Merge(
			[]Field{Security{Scheme: SchemePtr("a")}, Security{}},
			[]Field{Security{Scheme: SchemePtr("a"), Scopes: []string{"read"}}, Security{Scheme: SchemePtr("b")}},
		)
		assert.Equal(t, []Field{
			Security{Scheme: SchemePtr("a"), Scopes: []string{"read"}},
			Security{},
			Security{Scheme: SchemePtr("b")},
		}, got)
	})

	t.Run("tags by name", func(t *testing.T) {
		got := Merge([]Field{Tag{Name: "a"}}, []Field{Tag{Name: "b"}, Tag{Name: "a"}})
		assert.Equal(t, []Field{Tag{Name: "a"}, Tag{Name: "b"}}, got)
	})
}

func TestMergeDropsUnmatchedSummary(t *testing.T) {
	got := Merge([]Field{Tag{Name: "x"}}, []Field{Summary{Text: "group"}, Description{Text: "kept"}})
	assert.Equal(t, []Field{Tag{Name: "x"}, Description{Text: "kept"}}, got)

	got = Merge([]Field{Summary{}}, []Field{Summary{Text: "outer"}})
	assert.Equal(t, []Field{Summary{Text: "outer"}}, got)
}

func TestCombineKeepsSummary(t *testing.T) {
	handler := []Field{Summary{Text: "ListUsers returns every user."}, Tag{Name: "users"}}

	assert.Equal(t, handler, Combine(nil, handler))
	assert.Equal(t, []Field{Summary{Text: "List users"}, Tag{Name: "users"}},
		Combine([]Field{Summary{Text: "List users"}}, handler))
	assert.Equal(t, []Field{Tag{Name: "users"}}, Merge(nil, handler))
}

func TestMergeConcatenatesPaths(t *testing.T) {
	got := Merge([]Field{Path{Segment: "/users"}}, []Field{Path{Segment: "/api/"}})
	assert.Equal(t, []Field{Path{Segment: "/api/users"}}, got)
}

func TestMergeIsNotAssociative(t *testing.T) {
	a := []Field{Summary{}}
	b := []Field{}
	c := []Field{Summary{Text: "c"}}

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))

	assert.Equal(t, []Field{Summary{Text: "c"}}, left)
	assert.Equal(t, []Field{Summary{}}, right)
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"/api", "/users"}, "/api/users"},
		{[]string{"/api/", "users"}, "/api/users"},
		{[]string{"", "/users"}, "/users"},
		{[]string{"/", "/"}, "/"},
		{[]string{"/api", "/"}, "/api/"},
		{nil, ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, JoinPath(tc.in...), "%v", tc.in)
	}
}
