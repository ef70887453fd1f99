package doccomment

import (
	"regexp"
	"strings"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineDirective
	lineKeyValue
	lineText
)

// line is one classified comment line. Classification is purely lexical; the
// parser decides what a line means in context.
type line struct {
	kind   lineKind
	indent int
	text   string

	// directive lines
	keyword string
	rest    string

	// key/value lines
	key   string
	value string
}

var (
	directivePattern = regexp.MustCompile(`^@([A-Za-z][\w.-]*)(?:\s+(.*))?$`)
	keyValuePattern  = regexp.MustCompile(`^([A-Za-z][\w.-]*)\s*:(?:\s+(.*))?$`)
)

const tabWidth = 4

// classify performs the lexical phase over raw comment lines.
func classify(raw []string) []line {
	out := make([]line, 0, len(raw))
	for _, r := range raw {
		out = append(out, classifyLine(r))
	}
	return out
}

func classifyLine(raw string) line {
	indent := 0
	i := 0
	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
		if raw[i] == '\t' {
			indent += tabWidth
		} else {
			indent++
		}
		i++
	}
	text := strings.TrimSpace(raw[i:])
	l := line{indent: indent, text: text}
	if text == "" {
		l.kind = lineBlank
		return l
	}
	if m := directivePattern.FindStringSubmatch(text); m != nil {
		l.kind = lineDirective
		l.keyword = m[1]
		l.rest = strings.TrimSpace(m[2])
		return l
	}
	if m := keyValuePattern.FindStringSubmatch(text); m != nil && !strings.HasPrefix(m[2], "//") {
		l.kind = lineKeyValue
		l.key = m[1]
		l.value = strings.TrimSpace(m[2])
		return l
	}
	l.kind = lineText
	return l
}

// baseIndent is the smallest indentation of any non-blank line.
func baseIndent(lines []line) int {
	base := -1
	for _, l := range lines {
		if l.kind == lineBlank {
			continue
		}
		if base < 0 || l.indent < base {
			base = l.indent
		}
	}
	if base < 0 {
		return 0
	}
	return base
}

// token is a whitespace separated word and its byte offset in the source string.
type token struct {
	text  string
	start int
}

func tokenize(s string) []token {
	var toks []token
	start := -1
	for i, r := range s {
		space := r == ' ' || r == '\t'
		switch {
		case space && start >= 0:
			toks = append(toks, token{text: s[start:i], start: start})
			start = -1
		case !space && start < 0:
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, token{text: s[start:], start: start})
	}
	return toks
}

// restFrom returns the text of s starting at token i, or "" if there is none.
func restFrom(s string, toks []token, i int) string {
	if i >= len(toks) {
		return ""
	}
	return strings.TrimSpace(s[toks[i].start:])
}
