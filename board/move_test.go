package board

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"workroll/domain"
)

func todo(id string, pos int) Item { return Item{ID: id, Bucket: domain.StatusTodo, Position: pos} }
func done(id string, pos int) Item { return Item{ID: id, Bucket: domain.StatusDone, Position: pos} }

func moveOf(srcBucket domain.Status, srcIndex int, dstBucket domain.Status, dstIndex int) Move {
	return Move{
		Source:      Slot{Bucket: srcBucket, Index: srcIndex},
		Destination: &Slot{Bucket: dstBucket, Index: dstIndex},
	}
}

func TestReconcileCrossBucketClosesSourceGap(t *testing.T) {
	before := mustBoard(t, todo("a", 1000), todo("b", 2000))
	m := moveOf(domain.StatusTodo, 0, domain.StatusDone, 0)

	after, res := Reconcile(before, m)
	if res.Outcome != OutcomeApplied {
		t.Fatalf("expected applied, got %s", res.Outcome)
	}
	if diff := cmp.Diff([]Item{todo("b", 1000)}, after.Column(domain.StatusTodo)); diff != "" {
		t.Fatalf("todo column (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Item{done("a", 1000)}, after.Column(domain.StatusDone)); diff != "" {
		t.Fatalf("done column (-want +got):\n%s", diff)
	}

	want := []Change{
		{ID: "a", Status: domain.StatusDone, Position: 1000},
		{ID: "b", Status: domain.StatusTodo, Position: 1000},
	}
	if diff := cmp.Diff(want, Emit(before, after, m)); diff != "" {
		t.Fatalf("change set (-want +got):\n%s", diff)
	}
}

func TestEmitNamesSourceBucketForSourceItems(t *testing.T) {
	before := mustBoard(t, todo("a", 1000), todo("b", 2000), todo("c", 3000), done("z", 1000))
	m := moveOf(domain.StatusTodo, 0, domain.StatusDone, 1)

	after, _ := Reconcile(before, m)
	for _, ch := range Emit(before, after, m) {
		if ch.ID == "a" || ch.ID == "z" {
			if ch.Status != domain.StatusDone {
				t.Fatalf("%s should be reported in DONE, got %s", ch.ID, ch.Status)
			}
			continue
		}
		if ch.Status != domain.StatusTodo {
			t.Fatalf("source item %s reported in %s, want TODO", ch.ID, ch.Status)
		}
	}
}

func TestReconcileWithinBucket(t *testing.T) {
	before := mustBoard(t, todo("a", 1000), todo("b", 2000), todo("c", 3000))
	m := moveOf(domain.StatusTodo, 2, domain.StatusTodo, 0)

	after, res := Reconcile(before, m)
	if res.Outcome != OutcomeApplied || res.Moved.ID != "c" || res.Moved.Position != 1000 {
		t.Fatalf("unexpected result %+v", res)
	}
	wantCol := []Item{todo("c", 1000), todo("a", 2000), todo("b", 3000)}
	if diff := cmp.Diff(wantCol, after.Column(domain.StatusTodo)); diff != "" {
		t.Fatalf("todo column (-want +got):\n%s", diff)
	}

	want := []Change{
		{ID: "c", Status: domain.StatusTodo, Position: 1000},
		{ID: "a", Status: domain.StatusTodo, Position: 2000},
		{ID: "b", Status: domain.StatusTodo, Position: 3000},
	}
	if diff := cmp.Diff(want, Emit(before, after, m)); diff != "" {
		t.Fatalf("change set (-want +got):\n%s", diff)
	}
}

func TestReconcileSameSlotIsNoop(t *testing.T) {
	before := mustBoard(t, todo("a", 1000), todo("b", 2000))
	m := moveOf(domain.StatusTodo, 1, domain.StatusTodo, 1)

	after, res := Reconcile(before, m)
	if res.Outcome != OutcomeUnchanged {
		t.Fatalf("expected unchanged, got %s", res.Outcome)
	}
	if diff := cmp.Diff(before.Columns(), after.Columns()); diff != "" {
		t.Fatalf("board changed (-before +after):\n%s", diff)
	}
	if changes := Emit(before, after, m); len(changes) != 0 {
		t.Fatalf("expected empty change set, got %+v", changes)
	}
}

func TestReconcileOnlyItemToEmptyBucket(t *testing.T) {
	before := mustBoard(t, Item{ID: "solo", Bucket: domain.StatusBacklog, Position: 7000})
	m := moveOf(domain.StatusBacklog, 0, domain.StatusInReview, 0)

	after, _ := Reconcile(before, m)
	if after.Len(domain.StatusBacklog) != 0 {
		t.Fatalf("backlog should be empty, got %+v", after.Column(domain.StatusBacklog))
	}
	want := []Item{{ID: "solo", Bucket: domain.StatusInReview, Position: 1000}}
	if diff := cmp.Diff(want, after.Column(domain.StatusInReview)); diff != "" {
		t.Fatalf("in review column (-want +got):\n%s", diff)
	}
	changes := Emit(before, after, m)
	if len(changes) != 1 || changes[0] != (Change{ID: "solo", Status: domain.StatusInReview, Position: 1000}) {
		t.Fatalf("unexpected change set %+v", changes)
	}
}

func TestReconcileMovedItemAlwaysEmitted(t *testing.T) {
	// b shifts to index 1, where its stored position already matches.
	before := mustBoard(t, todo("a", 1000), done("b", 2000))
	m := moveOf(domain.StatusTodo, 0, domain.StatusDone, 0)

	after, _ := Reconcile(before, m)
	changes := Emit(before, after, m)
	want := []Change{{ID: "a", Status: domain.StatusDone, Position: 1000}}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Fatalf("change set (-want +got):\n%s", diff)
	}
}

func TestReconcileOutOfRangeSourceIsNoop(t *testing.T) {
	before := mustBoard(t, todo("a", 1000))
	for _, idx := range []int{-1, 1, 10} {
		m := moveOf(domain.StatusTodo, idx, domain.StatusDone, 0)
		after, res := Reconcile(before, m)
		if res.Outcome != OutcomeRejected {
			t.Fatalf("index %d: expected rejected, got %s", idx, res.Outcome)
		}
		if diff := cmp.Diff(before.Columns(), after.Columns()); diff != "" {
			t.Fatalf("index %d: board changed:\n%s", idx, diff)
		}
		if changes := Emit(before, after, m); len(changes) != 0 {
			t.Fatalf("index %d: expected empty change set, got %+v", idx, changes)
		}
	}
}

func TestReconcileUnknownBucketRejected(t *testing.T) {
	before := mustBoard(t, todo("a", 1000))
	_, res := Reconcile(before, moveOf(domain.StatusTodo, 0, "ARCHIVED", 0))
	if res.Outcome != OutcomeRejected {
		t.Fatalf("expected rejected, got %s", res.Outcome)
	}
}

func TestReconcileWithoutDestinationIsCancelled(t *testing.T) {
	before := mustBoard(t, todo("a", 1000))
	m := Move{Source: Slot{Bucket: domain.StatusTodo, Index: 0}}
	after, res := Reconcile(before, m)
	if res.Outcome != OutcomeCancelled {
		t.Fatalf("expected cancelled, got %s", res.Outcome)
	}
	if diff := cmp.Diff(before.Columns(), after.Columns()); diff != "" {
		t.Fatalf("board changed:\n%s", diff)
	}
	if changes := Emit(before, after, m); changes != nil {
		t.Fatalf("expected no changes, got %+v", changes)
	}
}

func TestReconcileDestinationIndexClamped(t *testing.T) {
	before := mustBoard(t, todo("a", 1000), done("x", 1000))
	after, _ := Reconcile(before, moveOf(domain.StatusTodo, 0, domain.StatusDone, 50))
	col := after.Column(domain.StatusDone)
	if len(col) != 2 || col[1].ID != "a" || col[1].Position != 2000 {
		t.Fatalf("expected a appended at the end, got %+v", col)
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	before := mustBoard(t, todo("a", 1000), todo("b", 5000), done("x", 3000))
	snapshot := before.Columns()

	Reconcile(before, moveOf(domain.StatusTodo, 1, domain.StatusTodo, 0))
	Reconcile(before, moveOf(domain.StatusTodo, 0, domain.StatusDone, 0))

	if diff := cmp.Diff(snapshot, before.Columns()); diff != "" {
		t.Fatalf("input board mutated:\n%s", diff)
	}
}

func TestReconcilePositionsClampAtLimit(t *testing.T) {
	items := make([]Item, 0, 1001)
	for i := 0; i < 1000; i++ {
		items = append(items, todo(fmt.Sprintf("t%04d", i), PositionFor(i)))
	}
	items = append(items, Item{ID: "new", Bucket: domain.StatusBacklog, Position: 1000})
	before := mustBoard(t, items...)

	m := moveOf(domain.StatusBacklog, 0, domain.StatusTodo, 999)
	after, res := Reconcile(before, m)
	if res.Moved.Position != MaxPosition {
		t.Fatalf("moved position = %d, want %d", res.Moved.Position, MaxPosition)
	}
	col := after.Column(domain.StatusTodo)
	if len(col) != 1001 {
		t.Fatalf("expected 1001 items, got %d", len(col))
	}
	if col[999].ID != "new" {
		t.Fatalf("expected new item at index 999, got %s", col[999].ID)
	}
	for _, idx := range []int{999, 1000} {
		if col[idx].Position != MaxPosition {
			t.Fatalf("index %d position = %d, want clamp %d", idx, col[idx].Position, MaxPosition)
		}
	}
}

func TestRandomMovesKeepColumnsNormalised(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var items []Item
	for _, s := range domain.Statuses {
		n := rng.Intn(12)
		for i := 0; i < n; i++ {
			items = append(items, Item{ID: fmt.Sprintf("%s-%d", s, i), Bucket: s, Position: PositionFor(i)})
		}
	}
	b := mustBoard(t, items...)
	total := len(items)

	for step := 0; step < 500; step++ {
		src := domain.Statuses[rng.Intn(len(domain.Statuses))]
		dst := domain.Statuses[rng.Intn(len(domain.Statuses))]
		m := moveOf(src, rng.Intn(b.Len(src)+2)-1, dst, rng.Intn(b.Len(dst)+2))

		after, res := Reconcile(b, m)
		changes := Emit(b, after, m)

		if got := len(after.Items()); got != total {
			t.Fatalf("step %d: item count %d, want %d", step, got, total)
		}
		for _, s := range domain.Statuses {
			for i, it := range after.Column(s) {
				if it.Bucket != s {
					t.Fatalf("step %d: item %s in %s reports bucket %s", step, it.ID, s, it.Bucket)
				}
				if it.Position != PositionFor(i) {
					t.Fatalf("step %d: %s[%d] position %d, want %d", step, s, i, it.Position, PositionFor(i))
				}
			}
		}
		if res.Outcome == OutcomeApplied {
			if len(changes) == 0 || changes[0].ID != res.Moved.ID {
				t.Fatalf("step %d: moved item must lead the change set, got %+v", step, changes)
			}
		} else if len(changes) != 0 {
			t.Fatalf("step %d: %s move produced changes %+v", step, res.Outcome, changes)
		}
		assertChangesReproduce(t, b, after, changes)
		b = after
	}
}

// assertChangesReproduce checks that applying changes to before yields after.
func assertChangesReproduce(t *testing.T, before, after Board, changes []Change) {
	t.Helper()
	state := make(map[string]Item)
	for _, it := range before.Items() {
		state[it.ID] = it
	}
	for _, ch := range changes {
		state[ch.ID] = Item{ID: ch.ID, Bucket: ch.Status, Position: ch.Position}
	}
	for _, it := range after.Items() {
		if got := state[it.ID]; got != it {
			t.Fatalf("item %s: persisted %+v, board has %+v", it.ID, got, it)
		}
	}
}
