package doccomment

import (
	"bytes"
	"strings"
)

// Block is a comment found in source text, with comment markers removed.
type Block struct {
	Lines []string
	Start int
	End   int
}

// Locate returns the comment immediately preceding offset in src: either a
// contiguous run of `//` lines or a single `/* */` block, separated from offset
// by whitespace only.
func Locate(src []byte, offset int) (Block, bool) {
	if offset < 0 || offset > len(src) {
		return Block{}, false
	}
	end := len(bytes.TrimRight(src[:offset], " \t\r\n"))
	if end == 0 {
		return Block{}, false
	}
	if bytes.HasSuffix(src[:end], []byte("*/")) {
		return locateBlock(src, end)
	}
	return locateLines(src, end)
}

func locateBlock(src []byte, end int) (Block, bool) {
	start := bytes.LastIndex(src[:end-2], []byte("/*"))
	if start < 0 {
		return Block{}, false
	}
	body := string(src[start+2 : end-2])
	var lines []string
	for _, l := range strings.Split(body, "\n") {
		l = strings.TrimRight(l, " \t\r")
		trimmed := strings.TrimLeft(l, " \t")
		if strings.HasPrefix(trimmed, "*") {
			l = strings.TrimPrefix(trimmed, "*")
		}
		lines = append(lines, stripOneSpace(l))
	}
	return Block{Lines: trimBlank(lines), Start: start, End: end}, true
}

func locateLines(src []byte, end int) (Block, bool) {
	var lines []string
	start := end
	pos := end
	for pos > 0 {
		lineStart := bytes.LastIndexByte(src[:pos], '\n') + 1
		line := strings.TrimSpace(string(src[lineStart:pos]))
		if !strings.HasPrefix(line, "//") {
			break
		}
		text := strings.TrimPrefix(line, "//")
		if !isToolDirective(text) {
			lines = append(lines, stripOneSpace(strings.TrimRight(text, " \t\r")))
		}
		start = lineStart + strings.Index(string(src[lineStart:pos]), "//")
		if lineStart == 0 {
			break
		}
		pos = lineStart - 1
	}
	if start == end {
		return Block{}, false
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return Block{Lines: trimBlank(lines), Start: start, End: end}, true
}

// isToolDirective matches machine comments such as //go:generate and //nolint.
func isToolDirective(text string) bool {
	return strings.HasPrefix(text, "go:") || strings.HasPrefix(text, "nolint") || strings.HasPrefix(text, "lint:")
}

func stripOneSpace(s string) string {
	if strings.HasPrefix(s, " ") {
		return s[1:]
	}
	return s
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
