package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestCoordsContains(t *testing.T) {
	outer := Coords{File: "a.go", Start: 10, End: 100}

	assert.True(t, outer.Contains(Coords{File: "a.go", Start: 10, End: 100}))
	assert.True(t, outer.Contains(Coords{File: "a.go", Start: 20, End: 30}))
	assert.False(t, outer.Contains(Coords{File: "a.go", Start: 5, End: 30}))
	assert.False(t, outer.Contains(Coords{File: "b.go", Start: 20, End: 30}))
}

func TestPathParams(t *testing.T) {
	assert.Equal(t, []string{"org", "repo"}, PathParams("/orgs/{org}/repos/{repo}"))
	assert.Equal(t, []string{"id"}, PathParams("/users/{id:[0-9]+}"))
	assert.Equal(t, []string{"id"}, PathParams("/users/:id"))
	assert.Empty(t, PathParams("/users"))
}

func TestRouteFields(t *testing.T) {
	path := "/users/{id}"
	r := &Route{
		Path:   &path,
		Method: "GET",
		Docs: []Field{
			Summary{Text: "Get a user"},
			Parameter{In: InPath, Name: "id", Description: "the id"},
		},
	}

	assert.Equal(t, []Field{
		Summary{Text: "Get a user"},
		Parameter{In: InPath, Name: "id", Description: "the id"},
		Path{Segment: "/users/{id}"},
		Method{Name: "GET"},
	}, r.Fields())
}

func TestRouteFieldsLocateUndeclaredParameter(t *testing.T) {
	path := "/users/{id}"
	r := &Route{
		Path:   &path,
		Method: "GET",
		Docs:   []Field{Parameter{Name: "id", Description: "The user ID"}},
	}

	params := lo.Filter(r.Fields(), func(f Field, _ int) bool { return f.Kind() == KindParameter })
	assert.Equal(t, []Field{Parameter{In: InPath, Name: "id", Description: "The user ID"}}, params)
}
