package partition

import (
	"sort"

	"github.com/glacierarchive/rpkg"
)

// Layering holds every archive mounted for one partition (its base plus
// zero or more patches) and the merged rrid → PatchId index that names,
// for each resource, the patch currently responsible for it (§4.D).
type Layering struct {
	packages  map[rpkg.PatchId]*rpkg.ResourcePackage
	resources map[uint64]rpkg.PatchId
}

// NewLayering returns an empty Layering.
func NewLayering() *Layering {
	return &Layering{
		packages:  make(map[rpkg.PatchId]*rpkg.ResourcePackage),
		resources: make(map[uint64]rpkg.PatchId),
	}
}

// Apply merges one archive into the layering. Archives must be applied
// in ascending PatchId order (Base first, then Patch(1), Patch(2), ...)
// — the algorithm depends on that order to produce correct last-writer-
// wins semantics; it does not sort internally.
//
// For each rrid the archive lists as unneeded, any existing mapping is
// removed. Then every rrid in the archive's own offset table is
// (re)inserted, overwriting whatever patch previously owned it. A patch
// that both deletes and re-adds an rrid therefore leaves it present,
// owned by that patch — the two steps are applied in that order per
// archive, not merged across archives.
func (l *Layering) Apply(id rpkg.PatchId, pkg *rpkg.ResourcePackage) {
	for _, rrid := range pkg.UnneededResources {
		delete(l.resources, rrid)
	}
	for _, rrid := range pkg.Resources() {
		l.resources[rrid] = id
	}
	l.packages[id] = pkg
}

// Package returns the archive mounted under id, if any.
func (l *Layering) Package(id rpkg.PatchId) (*rpkg.ResourcePackage, bool) {
	pkg, ok := l.packages[id]
	return pkg, ok
}

// Owner returns the patch currently owning rrid.
func (l *Layering) Owner(rrid uint64) (rpkg.PatchId, bool) {
	id, ok := l.resources[rrid]
	return id, ok
}

// Contains reports whether rrid currently has a surviving entry.
func (l *Layering) Contains(rrid uint64) bool {
	_, ok := l.resources[rrid]
	return ok
}

// NumPatches returns the number of mounted patches, excluding the base.
func (l *Layering) NumPatches() int {
	n := len(l.packages)
	if _, hasBase := l.packages[rpkg.Base]; hasBase {
		n--
	}
	return n
}

// ResourcePatchIndices returns every PatchId whose archive lists rrid in
// its offset table, regardless of whether a later archive has since
// superseded or deleted it.
func (l *Layering) ResourcePatchIndices(rrid uint64) []rpkg.PatchId {
	var out []rpkg.PatchId
	for id, pkg := range l.packages {
		if pkg.Has(rrid) {
			out = append(out, id)
		}
	}
	return out
}

// ResourceRemovalIndices returns every PatchId whose archive names rrid
// as unneeded.
func (l *Layering) ResourceRemovalIndices(rrid uint64) []rpkg.PatchId {
	var out []rpkg.PatchId
	for id, pkg := range l.packages {
		for _, u := range pkg.UnneededResources {
			if u == rrid {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// ChangeLog returns the chronological merge of ResourcePatchIndices and
// ResourceRemovalIndices for rrid, sorted Base < Patch(1) < Patch(2) < ...
func (l *Layering) ChangeLog(rrid uint64) []rpkg.PatchId {
	seen := make(map[rpkg.PatchId]bool)
	var out []rpkg.PatchId
	for _, id := range l.ResourcePatchIndices(rrid) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range l.ResourceRemovalIndices(rrid) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
