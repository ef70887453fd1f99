package model

import (
	"strings"

	"github.com/samber/lo"
)

// Merge combines two field lists. self has priority: for each field of self the
// first unmatched field of other with the same kind and key is merged into it in
// place. Unmatched fields of other are appended, except Summary which is dropped
// so that prose from an enclosing scope never becomes an operation summary.
//
// Merge is left biased and not associative: Merge(a, Merge(b, c)) may differ
// from Merge(Merge(a, b), c) when keys repeat within one list.
func Merge(self, other []Field) []Field {
	return merge(self, other, false)
}

// Combine merges two lists that document the same node, such as a call site
// and its handler declaration. It is Merge without the Summary drop.
func Combine(self, other []Field) []Field {
	return merge(self, other, true)
}

func merge(self, other []Field, keepSummary bool) []Field {
	out := make([]Field, 0, len(self)+len(other))
	used := make([]bool, len(other))
	for _, f := range self {
		merged := f
		for i, o := range other {
			if used[i] {
				continue
			}
			if m, ok := mergeField(f, o); ok {
				merged = m
				used[i] = true
				break
			}
		}
		out = append(out, merged)
	}
	for i, o := range other {
		if used[i] {
			continue
		}
		if _, ok := o.(Summary); ok && !keepSummary {
			continue
		}
		out = append(out, o)
	}
	return out
}

// mergeField merges two fields of the same kind and key, self winning.
func mergeField(self, other Field) (Field, bool) {
	if self.Kind() != other.Kind() {
		return nil, false
	}
	switch s := self.(type) {
	case Summary:
		o := other.(Summary)
		return Summary{Text: firstNonEmpty(s.Text, o.Text)}, true
	case Description:
		o := other.(Description)
		return Description{Text: firstNonEmpty(s.Text, o.Text)}, true
	case Tag:
		o := other.(Tag)
		if s.Name != o.Name {
			return nil, false
		}
		return s, true
	case Deprecated:
		o := other.(Deprecated)
		return Deprecated{Reason: firstNonEmpty(s.Reason, o.Reason)}, true
	case OperationID:
		o := other.(OperationID)
		return OperationID{Value: firstNonEmpty(s.Value, o.Value)}, true
	case ExternalDocs:
		o := other.(ExternalDocs)
		return ExternalDocs{URL: firstNonEmpty(s.URL, o.URL), Text: firstNonEmpty(s.Text, o.Text)}, true
	case Parameter:
		o := other.(Parameter)
		// A parameter documented without a location takes the location of
		// the same-named parameter it merges with.
		if s.Name != o.Name || (s.In != o.In && s.In != "" && o.In != "") {
			return nil, false
		}
		return Parameter{
			In:          firstNonEmpty(s.In, o.In),
			Name:        s.Name,
			Type:        firstType(s.Type, o.Type),
			Description: firstNonEmpty(s.Description, o.Description),
			Attributes:  s.Attributes.Union(o.Attributes),
		}, true
	case Body:
		o := other.(Body)
		return Body{
			ContentType: firstNonEmpty(s.ContentType, o.ContentType),
			Type:        firstType(s.Type, o.Type),
			Description: firstNonEmpty(s.Description, o.Description),
			Attributes:  s.Attributes.Union(o.Attributes),
		}, true
	case Response:
		o := other.(Response)
		if !sameStatus(s.Status, o.Status) {
			return nil, false
		}
		return Response{
			Status:      s.Status,
			ContentType: firstNonEmpty(s.ContentType, o.ContentType),
			Type:        firstType(s.Type, o.Type),
			Description: firstNonEmpty(s.Description, o.Description),
			Attributes:  s.Attributes.Union(o.Attributes),
		}, true
	case ResponseHeader:
		o := other.(ResponseHeader)
		if !strings.EqualFold(s.Name, o.Name) {
			return nil, false
		}
		return ResponseHeader{
			Name:        s.Name,
			Type:        firstType(s.Type, o.Type),
			Description: firstNonEmpty(s.Description, o.Description),
			Attributes:  s.Attributes.Union(o.Attributes),
		}, true
	case Security:
		o := other.(Security)
		if !sameScheme(s.Scheme, o.Scheme) {
			return nil, false
		}
		scopes := s.Scopes
		if scopes == nil {
			scopes = o.Scopes
		}
		return Security{Scheme: s.Scheme, Scopes: scopes}, true
	case Ignore:
		return s, true
	case Path:
		o := other.(Path)
		return Path{Segment: JoinPath(o.Segment, s.Segment)}, true
	case Method:
		o := other.(Method)
		return Method{Name: firstNonEmpty(s.Name, o.Name)}, true
	}
	return nil, false
}

// JoinPath concatenates route segments with exactly one separator between them.
func JoinPath(segments ...string) string {
	parts := lo.Filter(segments, func(s string, _ int) bool { return s != "" })
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range parts {
		trimmed := strings.Trim(p, "/")
		if trimmed == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(trimmed)
	}
	last := parts[len(parts)-1]
	if b.Len() == 0 || strings.HasSuffix(last, "/") {
		b.WriteByte('/')
	}
	return b.String()
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstType(a, b TypeRef) TypeRef {
	if a != nil {
		return a
	}
	return b
}

func sameStatus(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameScheme(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
