package partition

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/glacierarchive/rpkg"
)

// ErrBaseNotFound is returned by DiscoverPatches, and observed by
// Mounted.Mount, when the partition's base archive is absent from the
// directory. This is not a hard error at the mount-graph level — a
// manifest is known to list partitions that are not installed — but
// DiscoverPatches itself reports it so callers can distinguish "not
// installed" from "directory unreadable".
type ErrBaseNotFound struct{ Filename string }

func (e *ErrBaseNotFound) Error() string {
	return "partition: base package not found: " + e.Filename
}

// Mounted couples a partition's declared Info with the Layering built
// from whichever of its archives are actually present on disk.
type Mounted struct {
	Info     Info
	Layering *Layering
}

// NewMounted returns an unmounted Mounted for info.
func NewMounted(info Info) *Mounted {
	return &Mounted{Info: info, Layering: NewLayering()}
}

// DiscoverPatches scans dir for "<partition-id>patch<n>.rpkg" files and
// returns their patch indices in ascending order, dropping any patch
// numbered above m.Info.MaxPatchLevel. MaxPatchLevel is an upper bound
// observed to be overridden by mods, not ground truth — the directory
// scan is authoritative (§4.D).
func (m *Mounted) DiscoverPatches(dir string) ([]rpkg.PatchId, error) {
	baseName := m.Info.ID.Filename(rpkg.Base)
	if _, err := os.Stat(filepath.Join(dir, baseName)); err != nil {
		return nil, &ErrBaseNotFound{Filename: baseName}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ioErrorf("readdir", err)
	}

	patchRe := regexp.MustCompile("^" + regexp.QuoteMeta(m.Info.ID.String()) + `patch(\d+)\.rpkg$`)

	var patches []rpkg.PatchId
	for _, e := range entries {
		match := patchRe.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if n <= m.Info.MaxPatchLevel {
			patches = append(patches, rpkg.Patch(n))
		}
	}
	sort.Slice(patches, func(i, j int) bool { return patches[i].Less(patches[j]) })
	return patches, nil
}

// State mirrors the mount progress reported to a ProgressCallback as a
// partition's archives are loaded (§5, §4.F).
type State struct {
	Installing      bool
	Mounted         bool
	InstallProgress float32
}

// ProgressCallback receives State transitions as Mount proceeds.
type ProgressCallback func(State)

// Mount loads the base archive and every discovered patch, in ascending
// order, applying each to m.Layering as it loads. If the base archive is
// absent, Mount reports Installing=false, Mounted=false via callback and
// returns nil — a partition absent from an install is not a hard error
// (§4.D).
func (m *Mounted) Mount(dir string, callback ProgressCallback) error {
	if callback == nil {
		callback = func(State) {}
	}
	state := State{Installing: true}

	patches, err := m.DiscoverPatches(dir)
	if err != nil {
		state.Installing = false
		callback(state)
		return nil
	}

	basePath := filepath.Join(dir, m.Info.ID.Filename(rpkg.Base))
	basePkg, err := rpkg.FromFile(basePath)
	if err != nil {
		return err
	}
	m.Layering.Apply(rpkg.Base, basePkg)

	for i, p := range patches {
		patchPath := filepath.Join(dir, m.Info.ID.Filename(p))
		pkg, err := rpkg.FromFile(patchPath)
		if err != nil {
			return err
		}
		m.Layering.Apply(p, pkg)

		state.InstallProgress = float32(i) / float32(len(patches))
		callback(state)
	}

	state.InstallProgress = 1.0
	state.Installing = false
	state.Mounted = true
	callback(state)
	return nil
}
