package doccomment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Zachacious/go-routedoc/internal/model"
)

var errMissingValue = errors.New("missing value")

// parseValue parses the positional tokens that follow a keyword.
func (p *Parser) parseValue(keyword, value, namespace string) ([]model.Field, error) {
	switch keyword {
	case kwSummary:
		return []model.Field{model.Summary{Text: value}}, nil
	case kwDescription:
		return []model.Field{model.Description{Text: value}}, nil
	case kwTag:
		var fields []model.Field
		for _, name := range tagSeparator.Split(value, -1) {
			if name != "" {
				fields = append(fields, model.Tag{Name: name})
			}
		}
		if len(fields) == 0 {
			return nil, errMissingValue
		}
		return fields, nil
	case kwDeprecated:
		return []model.Field{model.Deprecated{Reason: value}}, nil
	case kwOperationID:
		if value == "" {
			return nil, errMissingValue
		}
		return []model.Field{model.OperationID{Value: value}}, nil
	case kwExternalDocs:
		toks := tokenize(value)
		if len(toks) == 0 {
			return nil, errMissingValue
		}
		return []model.Field{model.ExternalDocs{URL: toks[0].text, Text: restFrom(value, toks, 1)}}, nil
	case kwPath:
		return p.parameter(model.InPath, value, namespace)
	case kwQuery:
		return p.parameter(model.InQuery, value, namespace)
	case kwHeader:
		return p.parameter(model.InHeader, value, namespace)
	case kwCookie:
		return p.parameter(model.InCookie, value, namespace)
	case kwParam:
		return p.parameter("", value, namespace)
	case kwBody:
		return p.body(value, namespace)
	case kwResponse:
		return p.response(value, namespace)
	case kwResponseHeader:
		f, err := p.parameter("", value, namespace)
		if err != nil {
			return nil, err
		}
		param := f[0].(model.Parameter)
		return []model.Field{model.ResponseHeader{Name: param.Name, Type: param.Type, Description: param.Description}}, nil
	case kwSecurity:
		return []model.Field{security(value)}, nil
	case kwIgnore:
		return []model.Field{model.Ignore{}}, nil
	}
	return nil, fmt.Errorf("unsupported keyword %q", keyword)
}

// parameter parses `name [Type]? description`.
func (p *Parser) parameter(in, value, namespace string) ([]model.Field, error) {
	toks := tokenize(value)
	if len(toks) == 0 {
		return nil, errMissingValue
	}
	if isLinkToken(toks[0].text) {
		return nil, fmt.Errorf("expected a parameter name before %q", toks[0].text)
	}
	param := model.Parameter{In: in, Name: toks[0].text}
	var i int
	param.Type, i = p.link(toks, 1, namespace)
	param.Description = restFrom(value, toks, i)
	return []model.Field{param}, nil
}

// body parses `contentType? [Type]? description`.
func (p *Parser) body(value, namespace string) ([]model.Field, error) {
	toks := tokenize(value)
	var b model.Body
	i := 0
	if i < len(toks) && contentTypePattern.MatchString(toks[i].text) {
		b.ContentType = toks[i].text
		i++
	}
	b.Type, i = p.link(toks, i, namespace)
	b.Description = restFrom(value, toks, i)
	return []model.Field{b}, nil
}

// response parses `status? contentType? [Type]? description`.
func (p *Parser) response(value, namespace string) ([]model.Field, error) {
	toks := tokenize(value)
	var r model.Response
	i := 0
	if i < len(toks) && statusPattern.MatchString(toks[i].text) {
		code, err := strconv.Atoi(toks[i].text)
		if err != nil {
			return nil, fmt.Errorf("invalid status code %q: %w", toks[i].text, err)
		}
		r.Status = &code
		i++
	}
	if i < len(toks) && contentTypePattern.MatchString(toks[i].text) {
		r.ContentType = toks[i].text
		i++
	}
	r.Type, i = p.link(toks, i, namespace)
	r.Description = restFrom(value, toks, i)
	return []model.Field{r}, nil
}

// link consumes a schema link token at toks[i] if there is one. A malformed
// link is logged and consumed without producing a type.
func (p *Parser) link(toks []token, i int, namespace string) (model.TypeRef, int) {
	if i >= len(toks) || !isLinkToken(toks[i].text) {
		return nil, i
	}
	ref, err := ResolveLink(toks[i].text, namespace)
	if err != nil {
		p.logger.Warn("unresolved type token", "token", toks[i].text, "error", err)
		return nil, i + 1
	}
	return ref, i + 1
}

// security parses `scheme? scopes...`. No scheme means optional security.
func security(value string) model.Security {
	toks := tagSeparator.Split(strings.TrimSpace(value), -1)
	var s model.Security
	for _, t := range toks {
		if t == "" {
			continue
		}
		if s.Scheme == nil {
			s.Scheme = model.SchemePtr(t)
			continue
		}
		s.Scopes = append(s.Scopes, t)
	}
	return s
}
