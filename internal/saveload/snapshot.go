package saveload

// BlockOrder lists the subsystem block names in dependency order
// (leaves first): each later subsystem may assume the ones before it
// have already been restored when its own Restore runs.
var BlockOrder = []string{
	"primitives",
	"provinces",
	"countries",
	"adjacency",
	"pathfind",
	"resource",
	"military",
	"diplomacy",
	"timemanager",
	"commandlog",
	"ai",
}

// Snapshotter is implemented by each subsystem store that participates
// in a save: Snapshot serializes its authoritative state, Restore
// rebuilds it (including any derived index) from those bytes.
type Snapshotter interface {
	Name() string
	Snapshot() ([]byte, error)
	Restore([]byte) error
}

// BuildBlocks runs Snapshot on each registered subsystem in BlockOrder,
// skipping any name with no registered snapshotter (e.g. a subsystem
// not yet wired into a particular deployment).
func BuildBlocks(byName map[string]Snapshotter) ([]Block, error) {
	var blocks []Block
	for _, name := range BlockOrder {
		s, ok := byName[name]
		if !ok {
			continue
		}
		data, err := s.Snapshot()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, Block{Name: name, Data: data})
	}
	return blocks, nil
}

// RestoreBlocks applies each block's bytes to its matching registered
// subsystem, walking BlockOrder rather than file order so a reordered or
// partially-written file still restores leaves before dependents.
func RestoreBlocks(blocks []Block, byName map[string]Snapshotter) error {
	byBlockName := make(map[string][]byte, len(blocks))
	for _, b := range blocks {
		byBlockName[b.Name] = b.Data
	}
	for _, name := range BlockOrder {
		s, ok := byName[name]
		if !ok {
			continue
		}
		data, ok := byBlockName[name]
		if !ok {
			continue
		}
		if err := s.Restore(data); err != nil {
			return err
		}
	}
	return nil
}
