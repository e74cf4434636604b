package config

import (
	"fmt"
	"strings"
)

// scanStrategy is the fallback parsing strategy: a line scanner over a
// restricted grammar (2-space block indentation, `key: value`, flow lists
// including nested ones, and `- key: value` sequence items). It exists so
// the engine still works when the structured parser rejects the document,
// and must produce the exact same tree as yamlStrategy for any document
// within the supported subset.
type scanStrategy struct{}

func (scanStrategy) Name() string { return "scan" }

type scanLine struct {
	indent int
	text   string
	num    int
}

type scanner struct {
	lines []scanLine
	pos   int
}

func (scanStrategy) Parse(data []byte) (*node, error) {
	lines, err := splitScanLines(data)
	if err != nil {
		return nil, err
	}
	s := &scanner{lines: lines}
	root, err := s.parseMapping(0)
	if err != nil {
		return nil, err
	}
	if s.pos != len(s.lines) {
		return nil, fmt.Errorf("line %d: unexpected indentation", s.lines[s.pos].num)
	}
	return root, nil
}

func splitScanLines(data []byte) ([]scanLine, error) {
	var out []scanLine
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimRight(raw, " \r")
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "\t") || strings.Contains(line[:len(line)-len(trimmed)], "\t") {
			return nil, fmt.Errorf("line %d: tabs are not supported", i+1)
		}
		// Strip trailing comments on plain values. Quoted values keep '#'.
		if idx := strings.Index(trimmed, " #"); idx >= 0 && !strings.ContainsAny(trimmed[:idx], `"'`) {
			trimmed = strings.TrimRight(trimmed[:idx], " ")
		}
		out = append(out, scanLine{
			indent: len(line) - len(strings.TrimLeft(line, " ")),
			text:   trimmed,
			num:    i + 1,
		})
	}
	return out, nil
}

func (s *scanner) parseMapping(indent int) (*node, error) {
	m := newMapping()
	for s.pos < len(s.lines) {
		ln := s.lines[s.pos]
		if ln.indent < indent {
			break
		}
		if ln.indent > indent || strings.HasPrefix(ln.text, "- ") || ln.text == "-" {
			return nil, fmt.Errorf("line %d: expected a key at indent %d", ln.num, indent)
		}
		key, rest, err := cutKey(ln.text, ln.num)
		if err != nil {
			return nil, err
		}
		s.pos++
		if rest != "" {
			val, err := parseFlowValue(rest, ln.num)
			if err != nil {
				return nil, err
			}
			m.put(key, val)
			continue
		}
		// No inline value: a nested block follows, or the value is empty.
		if s.pos < len(s.lines) && s.lines[s.pos].indent > indent {
			child := s.lines[s.pos]
			if child.indent != indent+2 {
				return nil, fmt.Errorf("line %d: nested blocks must be indented by 2 spaces", child.num)
			}
			var sub *node
			if strings.HasPrefix(child.text, "- ") || child.text == "-" {
				sub, err = s.parseSequence(indent + 2)
			} else {
				sub, err = s.parseMapping(indent + 2)
			}
			if err != nil {
				return nil, err
			}
			m.put(key, sub)
		} else {
			m.put(key, newScalar(""))
		}
	}
	return m, nil
}

func (s *scanner) parseSequence(indent int) (*node, error) {
	seq := &node{kind: sequenceNode}
	for s.pos < len(s.lines) {
		ln := s.lines[s.pos]
		if ln.indent != indent || (!strings.HasPrefix(ln.text, "- ") && ln.text != "-") {
			break
		}
		rest := strings.TrimSpace(strings.TrimPrefix(ln.text, "-"))
		s.pos++
		if strings.Contains(rest, ":") && !strings.HasPrefix(rest, "[") {
			// `- key: value` starts an inline mapping item; subsequent lines
			// at indent+2 continue it.
			item, err := s.parseSequenceMapping(rest, ln.num, indent+2)
			if err != nil {
				return nil, err
			}
			seq.items = append(seq.items, item)
			continue
		}
		val, err := parseFlowValue(rest, ln.num)
		if err != nil {
			return nil, err
		}
		seq.items = append(seq.items, val)
	}
	return seq, nil
}

func (s *scanner) parseSequenceMapping(first string, num, indent int) (*node, error) {
	m := newMapping()
	key, rest, err := cutKey(first, num)
	if err != nil {
		return nil, err
	}
	val, err := parseFlowValue(rest, num)
	if err != nil {
		return nil, err
	}
	m.put(key, val)
	for s.pos < len(s.lines) {
		ln := s.lines[s.pos]
		if ln.indent != indent || strings.HasPrefix(ln.text, "- ") {
			break
		}
		key, rest, err := cutKey(ln.text, ln.num)
		if err != nil {
			return nil, err
		}
		val, err := parseFlowValue(rest, ln.num)
		if err != nil {
			return nil, err
		}
		m.put(key, val)
		s.pos++
	}
	return m, nil
}

func cutKey(text string, num int) (key, rest string, err error) {
	idx := strings.Index(text, ":")
	if idx <= 0 {
		return "", "", fmt.Errorf("line %d: expected `key: value`", num)
	}
	key = strings.TrimSpace(text[:idx])
	rest = strings.TrimSpace(text[idx+1:])
	if strings.ContainsAny(key, " []{}") {
		return "", "", fmt.Errorf("line %d: invalid key %q", num, key)
	}
	return key, rest, nil
}

// parseFlowValue parses a scalar or a (possibly nested) flow list like
// `[a, b]` or `[[Debug, Release], [Debug]]`.
func parseFlowValue(text string, num int) (*node, error) {
	if !strings.HasPrefix(text, "[") {
		return newScalar(unquoteScalar(text)), nil
	}
	if !strings.HasSuffix(text, "]") {
		return nil, fmt.Errorf("line %d: unterminated flow list", num)
	}
	inner := text[1 : len(text)-1]
	seq := &node{kind: sequenceNode}
	for _, part := range splitTopLevel(inner) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		item, err := parseFlowValue(part, num)
		if err != nil {
			return nil, err
		}
		seq.items = append(seq.items, item)
	}
	return seq, nil
}

// splitTopLevel splits on commas that are not inside nested brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func unquoteScalar(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
