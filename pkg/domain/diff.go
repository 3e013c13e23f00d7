package domain

// SnapshotDiff represents the changes between two snapshots of the same run.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	State  *State  `json:"state,omitempty"`
	Head   *int    `json:"head,omitempty"`
	Status *Status `json:"status,omitempty"`

	// Cells contains only written or changed positions.
	Cells map[int]Symbol `json:"cells,omitempty"`
}

// Empty reports whether nothing changed.
func (d *SnapshotDiff) Empty() bool {
	return d.State == nil && d.Head == nil && d.Status == nil && len(d.Cells) == 0
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{}
	if oldSnap == nil || oldSnap.State != newSnap.State {
		diff.State = &newSnap.State
	}
	if oldSnap == nil || oldSnap.Head != newSnap.Head {
		diff.Head = &newSnap.Head
	}
	if oldSnap == nil || oldSnap.Status != newSnap.Status {
		diff.Status = &newSnap.Status
	}

	for pos, sym := range newSnap.Cells {
		if oldSnap != nil {
			if prev, ok := oldSnap.Cells[pos]; ok && prev == sym {
				continue
			}
		}
		if diff.Cells == nil {
			diff.Cells = make(map[int]Symbol)
		}
		diff.Cells[pos] = sym
	}

	if diff.Empty() {
		return nil
	}
	return diff
}
