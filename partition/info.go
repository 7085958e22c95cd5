package partition

import "github.com/glacierarchive/rpkg/resourceid"

// Info describes one partition as declared in the manifest: its id, its
// optional parent (for the dependency tree the mount resolver walks),
// its optional display name, the patch-level upper bound the manifest
// claims, and the resource roots attached to it.
//
// max_patch_level is an upper bound, not ground truth (§4.D) — patch
// discovery always re-scans the directory and only consults this field
// to drop patches numbered above it.
type Info struct {
	ID            Id
	Parent        *Id
	Name          string
	MaxPatchLevel int
	Roots         []resourceid.ResourceID
}

// AddRoot appends a resource root to the partition (§3.3; opaque side
// data, not consulted by the layering or resolver algorithms).
func (i *Info) AddRoot(id resourceid.ResourceID) {
	i.Roots = append(i.Roots, id)
}
