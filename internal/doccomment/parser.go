// Package doccomment parses documentation comments attached to route
// declarations into model fields.
//
// Two dialects are understood. The directive dialect uses `@keyword` lines:
//
//	// List users
//	// @tag users
//	// @query limit [Int]? maximum number of users
//	//   maximum: 100
//	// @response 200 [User]+ list of users
//
// The indented-list dialect uses `Key: value` lines, where a plural key opens an
// indented list of items:
//
//	// List users
//	// Tags: users
//	// Queries:
//	//   limit [Int]? maximum number of users
//	//     maximum: 100
//	// Responses:
//	//   200 [User]+ list of users
//
// The dialect is chosen by the first line of the block that is not prose.
package doccomment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/hashicorp/go-hclog"
)

const (
	kwSummary        = "summary"
	kwDescription    = "description"
	kwTag            = "tag"
	kwDeprecated     = "deprecated"
	kwOperationID    = "operationId"
	kwExternalDocs   = "externalDocs"
	kwPath           = "path"
	kwQuery          = "query"
	kwHeader         = "header"
	kwCookie         = "cookie"
	kwParam          = "param"
	kwBody           = "body"
	kwResponse       = "response"
	kwResponseHeader = "responseHeader"
	kwSecurity       = "security"
	kwIgnore         = "ignore"
)

// directiveKeywords maps lower-cased `@keyword`s to their canonical form.
var directiveKeywords = map[string]string{
	"summary":        kwSummary,
	"description":    kwDescription,
	"desc":           kwDescription,
	"tag":            kwTag,
	"tags":           kwTag,
	"deprecated":     kwDeprecated,
	"operationid":    kwOperationID,
	"externaldocs":   kwExternalDocs,
	"path":           kwPath,
	"query":          kwQuery,
	"header":         kwHeader,
	"cookie":         kwCookie,
	"param":          kwParam,
	"parameter":      kwParam,
	"body":           kwBody,
	"response":       kwResponse,
	"responseheader": kwResponseHeader,
	"security":       kwSecurity,
	"ignore":         kwIgnore,
}

type listKey struct {
	keyword string
	plural  bool
}

// listKeys maps lower-cased `Key:` names of the indented-list dialect.
var listKeys = map[string]listKey{
	"summary":         {kwSummary, false},
	"description":     {kwDescription, false},
	"tag":             {kwTag, false},
	"tags":            {kwTag, true},
	"deprecated":      {kwDeprecated, false},
	"operationid":     {kwOperationID, false},
	"externaldocs":    {kwExternalDocs, false},
	"path":            {kwPath, false},
	"paths":           {kwPath, true},
	"query":           {kwQuery, false},
	"queries":         {kwQuery, true},
	"header":          {kwHeader, false},
	"headers":         {kwHeader, true},
	"cookie":          {kwCookie, false},
	"cookies":         {kwCookie, true},
	"param":           {kwParam, false},
	"params":          {kwParam, true},
	"parameter":       {kwParam, false},
	"parameters":      {kwParam, true},
	"body":            {kwBody, false},
	"response":        {kwResponse, false},
	"responses":       {kwResponse, true},
	"responseheader":  {kwResponseHeader, false},
	"responseheaders": {kwResponseHeader, true},
	"security":        {kwSecurity, false},
	"ignore":          {kwIgnore, false},
}

var (
	statusPattern      = regexp.MustCompile(`^\d+$`)
	contentTypePattern = regexp.MustCompile(`^\w+/\S+$`)
	tagSeparator       = regexp.MustCompile(`[,\s]+`)
)

type dialect int

const (
	dialectDirective dialect = iota
	dialectList
)

func detectDialect(lines []line) dialect {
	for _, l := range lines {
		switch l.kind {
		case lineDirective:
			return dialectDirective
		case lineKeyValue:
			if _, ok := listKeys[strings.ToLower(l.key)]; ok {
				return dialectList
			}
		}
	}
	return dialectDirective
}

// Parser turns comment blocks into documentation fields. Malformed input is
// logged and skipped, never fatal.
type Parser struct {
	logger hclog.Logger
}

// NewParser returns a Parser logging to logger.
func NewParser(logger hclog.Logger) *Parser {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Parser{logger: logger}
}

// ParseAt parses the comment immediately preceding offset in src. Type names in
// schema links are qualified with namespace.
func (p *Parser) ParseAt(src []byte, offset int, namespace string) []model.Field {
	block, ok := Locate(src, offset)
	if !ok {
		return nil
	}
	return p.ParseLines(block.Lines, namespace)
}

// Parse parses comment text with markers already removed.
func (p *Parser) Parse(text, namespace string) []model.Field {
	return p.ParseLines(strings.Split(text, "\n"), namespace)
}

// ParseLines parses comment lines with markers already removed.
func (p *Parser) ParseLines(raw []string, namespace string) []model.Field {
	lines := classify(raw)
	if detectDialect(lines) == dialectList {
		return p.parseList(lines, namespace)
	}
	return p.parseDirectives(lines, namespace)
}

// entry accumulates one directive or list item until its attribute block and
// continuation lines have been read.
type entry struct {
	keyword string
	fields  []model.Field
	attrs   model.Attributes
	extra   []string
}

func (p *Parser) parseDirectives(lines []line, namespace string) []model.Field {
	base := baseIndent(lines)
	var (
		prose   []string
		entries []*entry
		cur     *entry
		seen    bool
	)
	for _, l := range lines {
		switch {
		case l.kind == lineBlank:
			if !seen {
				prose = append(prose, "")
			}
			cur = nil
		case l.kind == lineDirective:
			seen = true
			cur = nil
			kw, ok := directiveKeywords[strings.ToLower(l.keyword)]
			if !ok {
				p.logger.Warn("unknown documentation directive", "directive", "@"+l.keyword)
				continue
			}
			if cur = p.newEntry(kw, l.rest, namespace); cur != nil {
				entries = append(entries, cur)
			}
		case cur != nil && (l.indent > base || l.kind == lineText):
			p.detail(cur, l)
		case !seen:
			prose = append(prose, l.text)
		default:
			p.logger.Debug("ignoring comment line", "line", l.text)
		}
	}
	return p.assemble(prose, entries)
}

func (p *Parser) parseList(lines []line, namespace string) []model.Field {
	base := baseIndent(lines)
	var (
		prose      []string
		entries    []*entry
		cur        *entry
		list       string
		itemIndent = -1
		seen       bool
		skipping   bool
	)
	for _, l := range lines {
		if l.kind == lineBlank {
			if !seen {
				prose = append(prose, "")
			}
			continue
		}

		if l.indent <= base {
			list, itemIndent, cur, skipping = "", -1, nil, false
			if l.kind == lineKeyValue {
				if key, ok := listKeys[strings.ToLower(l.key)]; ok {
					seen = true
					if key.plural && l.value == "" {
						list = key.keyword
						continue
					}
					if cur = p.newEntry(key.keyword, l.value, namespace); cur != nil {
						entries = append(entries, cur)
					}
					continue
				}
				if seen {
					p.logger.Warn("unknown documentation key", "key", l.key)
					skipping = true
					continue
				}
			}
			if !seen {
				prose = append(prose, l.text)
			} else {
				p.logger.Debug("ignoring comment line", "line", l.text)
			}
			continue
		}

		if skipping {
			continue
		}
		if list != "" {
			if itemIndent < 0 {
				itemIndent = l.indent
			}
			if l.indent <= itemIndent {
				if cur = p.newEntry(list, l.text, namespace); cur != nil {
					entries = append(entries, cur)
				}
				continue
			}
		}
		if cur != nil {
			p.detail(cur, l)
		}
	}
	return p.assemble(prose, entries)
}

// detail attaches an indented line to the current entry: `key: value` lines are
// attributes, anything else continues the description.
func (p *Parser) detail(e *entry, l line) {
	if l.kind == lineKeyValue {
		p.attribute(e, l.key, l.value)
		return
	}
	e.extra = append(e.extra, l.text)
}

func (p *Parser) attribute(e *entry, key, value string) {
	canonical, class := model.ClassifyAttribute(key)
	switch class {
	case model.AttrUnknown:
		p.logger.Warn("dropping unknown attribute", "directive", e.keyword, "attribute", key)
		return
	case model.AttrNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			p.logger.Warn("dropping non-numeric attribute", "attribute", canonical, "value", value)
			return
		}
	case model.AttrBool:
		b, ok := model.ParseBool(value)
		if !ok {
			p.logger.Warn("dropping non-boolean attribute", "attribute", canonical, "value", value)
			return
		}
		value = strconv.FormatBool(b)
	}
	if e.attrs == nil {
		e.attrs = make(model.Attributes)
	}
	e.attrs[canonical] = value
}

func (p *Parser) newEntry(keyword, value, namespace string) *entry {
	fields, err := p.parseValue(keyword, value, namespace)
	if err != nil {
		p.logger.Warn("skipping malformed directive", "directive", keyword, "value", value, "error", err)
		return nil
	}
	return &entry{keyword: keyword, fields: fields}
}

// assemble turns leading prose and parsed entries into the final field list.
// The first prose line is the summary, the remaining lines the description.
func (p *Parser) assemble(prose []string, entries []*entry) []model.Field {
	var fields []model.Field
	prose = trimBlank(prose)
	if len(prose) > 0 {
		fields = append(fields, model.Summary{Text: prose[0]})
		if rest := strings.TrimSpace(strings.Join(prose[1:], "\n")); rest != "" {
			fields = append(fields, model.Description{Text: rest})
		}
	}
	for _, e := range entries {
		fields = append(fields, p.build(e)...)
	}
	return fields
}

// build applies the entry's attributes and continuation lines to its fields.
func (p *Parser) build(e *entry) []model.Field {
	if len(e.attrs) == 0 && len(e.extra) == 0 {
		return e.fields
	}
	more := strings.Join(e.extra, " ")
	out := make([]model.Field, 0, len(e.fields))
	for _, f := range e.fields {
		switch v := f.(type) {
		case model.Parameter:
			v.Description = appendText(v.Description, more, " ")
			v.Attributes = e.attrs
			f = v
		case model.Body:
			v.Description = appendText(v.Description, more, " ")
			v.Attributes = e.attrs
			f = v
		case model.Response:
			v.Description = appendText(v.Description, more, " ")
			v.Attributes = e.attrs
			f = v
		case model.ResponseHeader:
			v.Description = appendText(v.Description, more, " ")
			v.Attributes = e.attrs
			f = v
		case model.Summary:
			v.Text = appendText(v.Text, more, " ")
			f = v
		case model.Description:
			v.Text = appendText(v.Text, strings.Join(e.extra, "\n"), "\n")
			f = v
		case model.Deprecated:
			v.Reason = appendText(v.Reason, more, " ")
			f = v
		default:
			if len(e.attrs) > 0 {
				p.logger.Warn("directive does not take attributes", "directive", e.keyword)
			}
		}
		out = append(out, f)
	}
	return out
}

func appendText(base, more, sep string) string {
	switch {
	case more == "":
		return base
	case base == "":
		return more
	}
	return base + sep + more
}
