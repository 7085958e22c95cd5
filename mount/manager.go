// Package mount holds every mounted partition for one game installation
// and answers resource lookup queries by walking the partition parent
// chain the way the game's own resource loader does (§4.F).
package mount

import (
	"github.com/glacierarchive/rpkg"
	"github.com/glacierarchive/rpkg/config"
	"github.com/glacierarchive/rpkg/partition"
)

// PartitionState and ProgressCallback are partition.Mounted's own mount-
// progress types, re-exported here under the manager's vocabulary so
// callers of this package never need to import partition directly just
// to write a progress callback.
type (
	PartitionState   = partition.State
	ProgressCallback = partition.ProgressCallback
)

// ErrPartitionNotFound is returned when a queried partition id has no
// mounted partition.
type ErrPartitionNotFound struct{ ID partition.Id }

func (e *ErrPartitionNotFound) Error() string {
	return "mount: partition not found: " + e.ID.String()
}

// ErrResourceNotFound is returned by ReadResourceFrom/Resolve when the
// walk reaches a root without finding rrid.
type ErrResourceNotFound struct{ RRID uint64 }

func (e *ErrResourceNotFound) Error() string {
	return "mount: resource not found"
}

// ErrNoRootPartition is returned by RootPartition when the manager has
// no declared partitions at all.
var ErrNoRootPartition = &noRootPartitionError{}

type noRootPartitionError struct{}

func (e *noRootPartitionError) Error() string { return "mount: could not find a root partition" }

// ErrCyclicPartitionGraph is returned when a partition's parent chain
// loops back on itself instead of terminating at a root. The manager
// rejects the cycle rather than silently following it forever (Resolved
// Open Question).
type ErrCyclicPartitionGraph struct{ ID partition.Id }

func (e *ErrCyclicPartitionGraph) Error() string {
	return "mount: cyclic partition parent graph detected at " + e.ID.String()
}

// Manager holds every partition declared by a manifest and, after
// MountAll, every partition that was actually found on disk.
type Manager struct {
	RuntimeDirectory string

	// FailOnCyclicParents governs Resolve/RootPartition's behavior when
	// a partition's declared parent chain loops instead of terminating:
	// true rejects the walk with ErrCyclicPartitionGraph, false
	// truncates it at the first partition reached a second time
	// (RootPartition reports that partition as the root; Resolve reports
	// ErrResourceNotFound). Populated from
	// config.Config.Mount.FailOnCyclicParents by NewManagerFromConfig;
	// NewManager defaults it to true (config.Default's value).
	FailOnCyclicParents bool

	infos      []partition.Info
	partitions []*partition.Mounted
}

// NewManager returns a Manager for the given infos (typically the
// result of manifest.Parse), rooted at runtimeDirectory.
func NewManager(runtimeDirectory string, infos []partition.Info) *Manager {
	return &Manager{RuntimeDirectory: runtimeDirectory, infos: infos, FailOnCyclicParents: true}
}

// NewManagerFromConfig returns a Manager whose runtime directory and
// cyclic-parent handling follow cfg, falling back to runtimeDirectory
// when cfg.Mount.RuntimeDirectory is unset.
func NewManagerFromConfig(cfg config.Config, infos []partition.Info, runtimeDirectory string) *Manager {
	dir := cfg.Mount.RuntimeDirectory
	if dir == "" {
		dir = runtimeDirectory
	}
	return &Manager{
		RuntimeDirectory:    dir,
		infos:               infos,
		FailOnCyclicParents: cfg.Mount.FailOnCyclicParents,
	}
}

// MountAll mounts every declared partition in manifest order. A
// partition whose base archive is absent from runtimeDirectory is
// silently skipped — it is never added to m.partitions — rather than
// treated as an error (§4.D).
func (m *Manager) MountAll(callback func(index int, state PartitionState)) error {
	if callback == nil {
		callback = func(int, PartitionState) {}
	}

	for i, info := range m.infos {
		mp := partition.NewMounted(info)
		if err := mp.Mount(m.RuntimeDirectory, func(s PartitionState) {
			callback(i+1, s)
		}); err != nil {
			return err
		}
		if mounted(mp) {
			m.partitions = append(m.partitions, mp)
		}
	}
	return nil
}

// mounted reports whether mp's base archive was actually found on disk:
// partition.Mounted.Mount only calls Layering.Apply(rpkg.Base, ...) once
// the base archive loads successfully.
func mounted(mp *partition.Mounted) bool {
	_, ok := mp.Layering.Package(rpkg.Base)
	return ok
}
