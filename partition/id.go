// Package partition implements the partition identifier grammar, the
// layering engine that merges a base archive with its ordered patches,
// and the on-disk partition metadata the manifest parser produces.
package partition

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/glacierarchive/rpkg"
)

// Kind distinguishes the five partition flavors the grammar in §3.1
// recognizes. Addon behaves identically to Standard at the id level; it
// is only meaningful to the Version C manifest dialect (see manifest).
type Kind int

const (
	Standard Kind = iota
	Addon
	Dlc
	LanguageStandard
	LanguageDlc
)

// Id is the tagged (kind, index) value naming a partition, with an
// optional language tag for the two language variants.
type Id struct {
	Kind  Kind
	Index int
	Lang  string // non-empty only for LanguageStandard/LanguageDlc
}

// ErrInvalidID is returned by Parse when s does not match the grammar.
type ErrInvalidID struct{ Input string }

func (e *ErrInvalidID) Error() string {
	return "partition: couldn't recognize the partition id: " + e.Input
}

// idRe matches the grammar in §3.1: "chunk"/"dlc", a decimal index, an
// optional trailing letters-only language tag, and an optional
// "patch<n>" suffix (accepted but not captured — Parse is only ever
// asked to recognize the partition's own name, not a specific archive
// file within it).
var idRe = regexp.MustCompile(`^(chunk|dlc)(\d+)(\p{L}*)(?:patch\d+)?$`)

// Parse recognizes s per the grammar above. A trailing run of letters is
// treated as a language tag; "lang" itself is not part of the tag text
// (mirrors how the manifest dialects spell language-variant ids, e.g.
// "dlc5langjp" names language "jp").
func Parse(s string) (Id, error) {
	m := idRe.FindStringSubmatch(s)
	if m == nil {
		return Id{}, &ErrInvalidID{Input: s}
	}

	index, err := strconv.Atoi(m[2])
	if err != nil {
		return Id{}, &ErrInvalidID{Input: s}
	}

	lang := m[3]
	const langPrefix = "lang"
	if len(lang) >= len(langPrefix) && lang[:len(langPrefix)] == langPrefix {
		lang = lang[len(langPrefix):]
	}

	switch {
	case m[1] == "chunk" && lang == "":
		return Id{Kind: Standard, Index: index}, nil
	case m[1] == "chunk":
		return Id{Kind: LanguageStandard, Index: index, Lang: lang}, nil
	case m[1] == "dlc" && lang == "":
		return Id{Kind: Dlc, Index: index}, nil
	default:
		return Id{Kind: LanguageDlc, Index: index, Lang: lang}, nil
	}
}

// String renders the canonical partition name (no patch suffix).
func (id Id) String() string {
	switch id.Kind {
	case Standard, Addon:
		return fmt.Sprintf("chunk%d", id.Index)
	case Dlc:
		return fmt.Sprintf("dlc%d", id.Index)
	case LanguageStandard:
		return fmt.Sprintf("chunk%dlang%s", id.Index, id.Lang)
	case LanguageDlc:
		return fmt.Sprintf("dlc%dlang%s", id.Index, id.Lang)
	default:
		return fmt.Sprintf("chunk%d", id.Index)
	}
}

// Filename renders the archive filename for patch id p within this
// partition, e.g. "chunk0.rpkg" or "dlc3patch2.rpkg".
func (id Id) Filename(p rpkg.PatchId) string {
	if p.IsBase {
		return id.String() + ".rpkg"
	}
	return fmt.Sprintf("%spatch%d.rpkg", id.String(), p.Index)
}
