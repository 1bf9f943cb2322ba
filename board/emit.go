package board

// Emit lists the updates needed to persist after, which Reconcile produced
// from before by applying m. The moved item always comes first, followed by
// destination items and then, for cross-bucket moves, source items whose
// position changed. Each update carries the bucket the item now lives in.
func Emit(before, after Board, m Move) []Change {
	if m.Destination == nil || m.identity() {
		return nil
	}
	src, dst := m.Source, *m.Destination
	srcCol := before.column(src.Bucket)
	if src.Index < 0 || src.Index >= len(srcCol) {
		return nil
	}
	movedID := srcCol[src.Index].ID
	prev := before.positions()

	var changes []Change
	for _, it := range after.column(dst.Bucket) {
		if it.ID == movedID {
			changes = append(changes, Change{ID: it.ID, Status: dst.Bucket, Position: it.Position})
			break
		}
	}
	if len(changes) == 0 {
		return nil
	}
	changes = appendChanged(changes, after.column(dst.Bucket), prev, movedID)
	if m.crossBucket() {
		changes = appendChanged(changes, after.column(src.Bucket), prev, movedID)
	}
	return changes
}

func appendChanged(changes []Change, col []Item, prev map[string]int, skip string) []Change {
	for _, it := range col {
		if it.ID == skip {
			continue
		}
		if old, ok := prev[it.ID]; ok && old == it.Position {
			continue
		}
		changes = append(changes, Change{ID: it.ID, Status: it.Bucket, Position: it.Position})
	}
	return changes
}
