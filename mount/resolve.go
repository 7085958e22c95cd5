package mount

import (
	"github.com/glacierarchive/rpkg/partition"
)

// FindPartition returns the mounted partition with the given id.
func (m *Manager) FindPartition(id partition.Id) (*partition.Mounted, bool) {
	for _, p := range m.partitions {
		if p.Info.ID == id {
			return p, true
		}
	}
	return nil, false
}

// ReadResourceFrom reads rrid directly from the named partition, without
// walking its parent chain.
func (m *Manager) ReadResourceFrom(id partition.Id, rrid uint64) ([]byte, error) {
	p, ok := m.FindPartition(id)
	if !ok {
		return nil, &ErrPartitionNotFound{ID: id}
	}
	owner, ok := p.Layering.Owner(rrid)
	if !ok {
		return nil, &ErrResourceNotFound{RRID: rrid}
	}
	pkg, _ := p.Layering.Package(owner)
	return pkg.ReadResource(rrid)
}

// PartitionsWithResource linearly scans every mounted partition and
// returns the ids of those currently holding rrid (latest-surviving,
// not-deleted).
func (m *Manager) PartitionsWithResource(rrid uint64) []partition.Id {
	var out []partition.Id
	for _, p := range m.partitions {
		if p.Layering.Contains(rrid) {
			out = append(out, p.Info.ID)
		}
	}
	return out
}

// Resolve starts at partitionID and tests for containment; on a miss it
// recurses into the partition's declared parent, stopping at a root
// with no hit (ErrResourceNotFound) or a partition that was never
// mounted (ErrPartitionNotFound). This mimics the game's own lookup
// order (§4.F).
//
// If the parent chain loops, m.FailOnCyclicParents decides what
// happens: true returns ErrCyclicPartitionGraph; false treats the
// partition that closes the cycle as if it had no parent, so the walk
// ends in ErrResourceNotFound instead.
func (m *Manager) Resolve(id partition.Id, rrid uint64) (partition.Id, error) {
	seen := make(map[partition.Id]bool)
	for {
		if seen[id] {
			if m.FailOnCyclicParents {
				return partition.Id{}, &ErrCyclicPartitionGraph{ID: id}
			}
			return partition.Id{}, &ErrResourceNotFound{RRID: rrid}
		}
		seen[id] = true

		p, ok := m.FindPartition(id)
		if !ok {
			return partition.Id{}, &ErrPartitionNotFound{ID: id}
		}
		if p.Layering.Contains(rrid) {
			return id, nil
		}
		if p.Info.Parent == nil {
			return partition.Id{}, &ErrResourceNotFound{RRID: rrid}
		}
		id = *p.Info.Parent
	}
}

// RootPartition walks the first declared partition's parent chain to
// find the top of the tree.
//
// If the chain loops instead of terminating, m.FailOnCyclicParents
// decides what happens: true returns ErrCyclicPartitionGraph; false
// truncates the walk and returns the partition that closes the cycle,
// treating it as the root.
func (m *Manager) RootPartition() (partition.Id, error) {
	if len(m.infos) == 0 {
		return partition.Id{}, ErrNoRootPartition
	}

	current := m.infos[0]
	seen := make(map[partition.Id]bool)
	for {
		if seen[current.ID] {
			if m.FailOnCyclicParents {
				return partition.Id{}, &ErrCyclicPartitionGraph{ID: current.ID}
			}
			return current.ID, nil
		}
		seen[current.ID] = true

		if current.Parent == nil {
			return current.ID, nil
		}
		p, ok := m.FindPartition(*current.Parent)
		if !ok {
			return partition.Id{}, &ErrPartitionNotFound{ID: *current.Parent}
		}
		current = p.Info
	}
}
