package domain

// RecordChange describes one application present in both registries whose
// record differs.
type RecordChange struct {
	ID     string
	Fields []string
	Before ApplicationRecord
	After  ApplicationRecord
	Diff   string
}

type InventoryDiff struct {
	Added   []ApplicationRecord
	Removed []ApplicationRecord
	Changed []RecordChange
}

func (d InventoryDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}
