package pathquery

import (
	"fmt"
	"strings"

	"mediator/internal/statuserr"
)

// Predicate is a [key="value"] filter on a segment.
type Predicate struct {
	Key   string
	Value string
}

// Segment is one step of a structural path.
type Segment struct {
	// Qualifier is the module token before ':' or "".
	Qualifier  string
	Name       string
	Predicates []Predicate
}

// Split breaks a relative structural path into segments. Separators and
// brackets inside quoted predicate values are literal. Only key equality
// predicates are accepted.
func Split(path string) ([]Segment, error) {
	raw, err := splitRaw(strings.TrimSpace(path))
	if err != nil {
		return nil, statuserr.Query(path, err)
	}
	segments := make([]Segment, 0, len(raw))
	for _, r := range raw {
		seg, err := parseSegment(r)
		if err != nil {
			return nil, statuserr.Query(path, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func splitRaw(path string) ([]string, error) {
	var (
		out   []string
		cur   strings.Builder
		quote rune
		depth int
	)
	for _, r := range path {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			if depth == 0 {
				return nil, fmt.Errorf("quote outside predicate")
			}
			quote = r
		case r == '[':
			depth++
		case r == ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced ']'")
			}
		case r == '/' && depth == 0:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced '['")
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out, nil
}

func parseSegment(raw string) (Segment, error) {
	var seg Segment
	head := raw
	if i := strings.IndexByte(raw, '['); i >= 0 {
		head = raw[:i]
		preds, err := parsePredicates(raw[i:])
		if err != nil {
			return Segment{}, fmt.Errorf("segment %q: %w", raw, err)
		}
		seg.Predicates = preds
	}
	if i := strings.IndexByte(head, ':'); i >= 0 {
		if i == 0 {
			return Segment{}, fmt.Errorf("segment %q has an empty qualifier", raw)
		}
		seg.Qualifier, head = head[:i], head[i+1:]
	}
	if head == "" {
		return Segment{}, fmt.Errorf("segment %q has no name", raw)
	}
	seg.Name = head
	return seg, nil
}

// parsePredicates parses a run of [key="value"] groups.
func parsePredicates(s string) ([]Predicate, error) {
	var preds []Predicate
	for len(s) > 0 {
		if s[0] != '[' {
			return nil, fmt.Errorf("unexpected %q after predicate", s)
		}
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			return nil, fmt.Errorf("predicate %q is not key=value", s)
		}
		key := strings.TrimSpace(s[1:eq])
		rest := strings.TrimLeft(s[eq+1:], " ")
		if key == "" || len(rest) == 0 || (rest[0] != '"' && rest[0] != '\'') {
			return nil, fmt.Errorf("predicate %q is not key=\"value\"", s)
		}
		q := rest[0]
		end := strings.IndexByte(rest[1:], q)
		if end < 0 {
			return nil, fmt.Errorf("unterminated predicate value")
		}
		value := rest[1 : end+1]
		rest = strings.TrimLeft(rest[end+2:], " ")
		if len(rest) == 0 || rest[0] != ']' {
			return nil, fmt.Errorf("predicate for %q is not closed", key)
		}
		preds = append(preds, Predicate{Key: key, Value: value})
		s = rest[1:]
	}
	return preds, nil
}
