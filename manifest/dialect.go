package manifest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/glacierarchive/rpkg/partition"
	"github.com/glacierarchive/rpkg/resourceid"
)

// resourceRootRe matches a manifest's resource-root lines in all three
// dialects: "[protocol:/path/to/root].ext" (§4.E).
var resourceRootRe = regexp.MustCompile(`(\[[a-z]+:/.+?\])\.([a-z]+)`)

func addRootIfPresent(line string, cur *partition.Info) {
	if cur == nil {
		return
	}
	m := resourceRootRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	id, err := resourceid.Parse(fmt.Sprintf("%s.%s", m[1], m[2]))
	if err != nil {
		return
	}
	cur.AddRoot(id)
}

// indexWithinKind counts how many partitions already parsed share kind —
// the grammar has no explicit index field, so Version A/B number each
// kind by its position among same-kind entries (§4.E).
func indexWithinKind(parsed []partition.Info, kind partition.Kind) int {
	n := 0
	for _, p := range parsed {
		if p.ID.Kind == kind {
			n++
		}
	}
	return n
}

var (
	versionAPartitionRe = regexp.MustCompile(`#([A-Za-z]+) patchlevel=([0-9]+)`)
	versionALangdlcRe   = regexp.MustCompile(`#langdlc ([A-Za-z]+)`)
	versionANameRe      = regexp.MustCompile(`## --- +(?:DLC|Chunk )\d{2} (.*)`)
)

// ParseVersionA parses the oldest, "#chunk"/"#dlc"/"#langdlc" line-
// oriented dialect.
func ParseVersionA(text string) ([]partition.Info, error) {
	var partitions []partition.Info
	var prevLines [2]string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "##"):
			// comment
		case versionAPartitionRe.MatchString(trimmed):
			m := versionAPartitionRe.FindStringSubmatch(trimmed)
			kind := partition.Standard
			if m[1] == "dlc" {
				kind = partition.Dlc
			}
			level, _ := strconv.Atoi(m[2])

			info := partition.Info{
				Name:          findName(prevLines[:], versionANameRe),
				ID:            partition.Id{Kind: kind, Index: indexWithinKind(partitions, kind)},
				MaxPatchLevel: level,
			}
			if len(partitions) > 0 {
				root := partitions[0].ID
				info.Parent = &root
			}
			partitions = append(partitions, info)

		case versionALangdlcRe.MatchString(trimmed):
			m := versionALangdlcRe.FindStringSubmatch(trimmed)
			lang := strings.ToLower(m[1])
			base := append([]partition.Info(nil), partitions...)
			for _, src := range base {
				kind := partition.LanguageDlc
				if src.ID.Kind == partition.Standard {
					kind = partition.LanguageStandard
				}
				parent := src.ID
				partitions = append(partitions, partition.Info{
					ID:     partition.Id{Kind: kind, Index: src.ID.Index, Lang: lang},
					Parent: &parent,
				})
			}

		default:
			if len(partitions) > 0 {
				addRootIfPresent(trimmed, &partitions[len(partitions)-1])
			}
		}

		prevLines[0], prevLines[1] = prevLines[1], line
	}

	return partitions, nil
}

var (
	versionBPartitionRe = regexp.MustCompile(`@([A-Za-z]+) patchlevel=([0-9]+)`)
	versionBNameRe      = regexp.MustCompile(`// --- (?:DLC|Chunk) \d{2} (.*)`)
)

// ParseVersionB parses the "@chunk"/"@dlc" dialect with "//" comments.
func ParseVersionB(text string) ([]partition.Info, error) {
	var partitions []partition.Info
	var prevLines [2]string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "//"):
			// comment
		case versionBPartitionRe.MatchString(trimmed):
			m := versionBPartitionRe.FindStringSubmatch(trimmed)
			kind := partition.Standard
			if m[1] != "chunk" {
				kind = partition.Dlc
			}
			level, _ := strconv.Atoi(m[2])

			info := partition.Info{
				Name:          findName(prevLines[:], versionBNameRe),
				ID:            partition.Id{Kind: kind, Index: indexWithinKind(partitions, kind)},
				MaxPatchLevel: level,
			}
			if len(partitions) > 0 {
				root := partitions[0].ID
				info.Parent = &root
			}
			partitions = append(partitions, info)

		default:
			if len(partitions) > 0 {
				addRootIfPresent(trimmed, &partitions[len(partitions)-1])
			}
		}

		prevLines[0], prevLines[1] = prevLines[1], line
	}

	return partitions, nil
}

var versionCPartitionRe = regexp.MustCompile(`@partition name=(.+?) parent=(.+?) type=(.+?) patchlevel=(\d+)`)

// ErrResourceBeforePartition is returned by ParseVersionC when a
// resource-root line appears before any "@partition" line.
var ErrResourceBeforePartition = newFormatError("manifest: resource id defined before any partition")

// ParseVersionC parses the newest "@partition name=... parent=...
// type=... patchlevel=..." dialect, resolving parent by name reference
// against previously-parsed partitions.
func ParseVersionC(text string) ([]partition.Info, error) {
	var partitions []partition.Info

	for _, line := range strings.Split(text, "\n") {
		switch {
		case versionCPartitionRe.MatchString(line):
			m := versionCPartitionRe.FindStringSubmatch(line)
			name := m[1]
			kind := partition.Standard
			if m[3] == "addon" {
				kind = partition.Addon
			}
			level, _ := strconv.Atoi(m[4])

			info := partition.Info{
				Name:          name,
				Parent:        findParentByName(partitions, m[2]),
				ID:            partition.Id{Kind: kind, Index: len(partitions)},
				MaxPatchLevel: level,
			}
			partitions = append(partitions, info)

		case resourceRootRe.MatchString(line):
			if len(partitions) == 0 {
				return nil, ErrResourceBeforePartition
			}
			addRootIfPresent(line, &partitions[len(partitions)-1])
		}
	}

	return partitions, nil
}

func findParentByName(parsed []partition.Info, name string) *partition.Id {
	for _, p := range parsed {
		if p.Name == name {
			id := p.ID
			return &id
		}
	}
	return nil
}

func findName(lines []string, re *regexp.Regexp) string {
	for _, l := range lines {
		if m := re.FindStringSubmatch(l); m != nil {
			return m[1]
		}
	}
	return ""
}
