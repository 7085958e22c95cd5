// Package resourceid implements the two identifier kinds that name a
// resource: the textual ResourceID and its 64-bit hashed form,
// RuntimeResourceID.
package resourceid

import (
	"regexp"
	"strings"
)

// ErrInvalidFormat is returned when a string fails ResourceID's shape
// validation (§4.A).
type ErrInvalidFormat struct{ Input string }

func (e *ErrInvalidFormat) Error() string {
	return "resourceid: invalid format: " + e.Input
}

// ResourceID is a case-folded textual path of the form
// "[protocol:/path/to/file.ext]", optionally decorated by derived forms
// ("[[<inner>](params).<ext>]"). The zero value is not a valid id; use
// Parse.
type ResourceID struct {
	path string // canonical resource-path string, pc_ token present
}

var platformTokenRe = regexp.MustCompile(`\.pc_`)

// Parse validates and normalizes s into a ResourceID.
//
// Invariants enforced (§3.1): the string must start with '[', must
// contain a closing ']', must not contain the substring "unknown", and
// must not contain '*'. Control characters (bytes <= 0x1F) are stripped,
// the whole string is lowercased, and the platform tag "pc_" occurring
// immediately after a '.' is stripped (it is reinserted canonically by
// String).
func Parse(s string) (ResourceID, error) {
	cleaned := stripControl(strings.ToLower(s))

	if !strings.HasPrefix(cleaned, "[") {
		return ResourceID{}, &ErrInvalidFormat{Input: s}
	}
	if !strings.Contains(cleaned, "]") {
		return ResourceID{}, &ErrInvalidFormat{Input: s}
	}
	if strings.Contains(cleaned, "unknown") {
		return ResourceID{}, &ErrInvalidFormat{Input: s}
	}
	if strings.Contains(cleaned, "*") {
		return ResourceID{}, &ErrInvalidFormat{Input: s}
	}

	stripped := platformTokenRe.ReplaceAllString(cleaned, ".")
	return ResourceID{path: stripped}, nil
}

func stripControl(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= 0x1F {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// String renders the canonical resource-path form: the platform token
// "pc_" is reinserted after the final '.'.
func (r ResourceID) String() string {
	if r.path == "" {
		return ""
	}
	idx := strings.LastIndex(r.path, ".")
	if idx < 0 {
		return r.path
	}
	return r.path[:idx+1] + "pc_" + r.path[idx+1:]
}

// IsZero reports whether r is the zero value (not a parsed id).
func (r ResourceID) IsZero() bool { return r.path == "" }

// CreateDerived wraps parent in "[...]", optionally appends "(params)",
// then appends ".ext" (§4.A).
func CreateDerived(parent ResourceID, params, ext string) ResourceID {
	s := "[" + parent.path
	s += "]"
	if params != "" {
		s += "(" + params + ")"
	}
	s += "." + ext
	id, _ := Parse(s)
	return id
}

// CreateAspect appends each child's canonical uri as a parameter inside
// "(...)" immediately before the final "." + ext of parent. The first
// child creates the parameter list; subsequent children extend it with a
// leading ",".
func CreateAspect(parent ResourceID, children []ResourceID) ResourceID {
	base := parent.path
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		idx = len(base)
	}
	head, tail := base[:idx], base[idx:]

	var params strings.Builder
	for i, c := range children {
		if i > 0 {
			params.WriteString(",")
		}
		params.WriteString(c.String())
	}

	s := head + "(" + params.String() + ")" + tail
	id, _ := Parse(s)
	return id
}

// InnerMostResourcePath peels all but one layer of leading '[' brackets
// and re-parses the stripped form. If re-parsing fails at any point, the
// original id is returned unchanged (§4.A).
func (r ResourceID) InnerMostResourcePath() ResourceID {
	s := r.path
	depth := 0
	for i := 0; i < len(s) && s[i] == '['; i++ {
		depth++
	}
	if depth <= 1 {
		return r
	}
	// Strip all but the innermost layer's own leading bracket.
	stripped := s[depth-1:]
	id, err := Parse(stripped)
	if err != nil {
		return r
	}
	return id
}

// InnerResourcePath peels exactly one layer of '[' ']' wrapping and
// re-parses the result; on failure, returns r unchanged.
func (r ResourceID) InnerResourcePath() ResourceID {
	s := r.path
	end := strings.LastIndex(s, "]")
	if !strings.HasPrefix(s, "[") || end < 1 {
		return r
	}
	s = s[1:end]
	id, err := Parse(s)
	if err != nil {
		return r
	}
	return id
}

var (
	protocolRe   = regexp.MustCompile(`^\[+([a-z0-9_]+):`)
	parametersRe = regexp.MustCompile(`\(([^()]*)\)`)
	pathRe       = regexp.MustCompile(`:/+([^\]]*)]`)
)

// Protocol extracts the protocol token preceding ":/" in the canonical
// representation, e.g. "chunk" from "[chunk:/path.ext]".
func (r ResourceID) Protocol() string {
	m := protocolRe.FindStringSubmatch(r.path)
	if m == nil {
		return ""
	}
	return m[1]
}

// Parameters extracts the contents of the first "(...)" group, if any.
func (r ResourceID) Parameters() string {
	m := parametersRe.FindStringSubmatch(r.path)
	if m == nil {
		return ""
	}
	return m[1]
}

// Path extracts the filesystem-like path between "protocol:/" and the
// closing bracket.
func (r ResourceID) Path() string {
	m := pathRe.FindStringSubmatch(r.path)
	if m == nil {
		return ""
	}
	return m[1]
}
