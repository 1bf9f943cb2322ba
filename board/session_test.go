package board

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"workroll/domain"
)

type fakeSource struct {
	items []Item
	err   error
	calls int
}

func (f *fakeSource) BoardItems(context.Context) ([]Item, error) {
	f.calls++
	return append([]Item(nil), f.items...), f.err
}

type fakeCommitter struct {
	got [][]Change
	err error
}

func (f *fakeCommitter) CommitPositions(_ context.Context, changes []Change) error {
	f.got = append(f.got, changes)
	return f.err
}

func TestSessionMoveBeforeRefresh(t *testing.T) {
	s := NewSession(&fakeSource{}, &fakeCommitter{}, nil)
	if _, _, err := s.Move(moveOf(domain.StatusTodo, 0, domain.StatusDone, 0)); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestSessionMoveAndCommit(t *testing.T) {
	src := &fakeSource{items: []Item{todo("a", 1000), todo("b", 2000)}}
	dst := &fakeCommitter{}
	logger, _ := test.NewNullLogger()
	s := NewSession(src, dst, logger)
	ctx := context.Background()

	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	res, changes, err := s.Move(moveOf(domain.StatusTodo, 0, domain.StatusDone, 0))
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if res.Outcome != OutcomeApplied {
		t.Fatalf("expected applied, got %s", res.Outcome)
	}
	if err := s.Commit(ctx, changes); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(dst.got) != 1 {
		t.Fatalf("expected one commit, got %d", len(dst.got))
	}
	if diff := cmp.Diff(changes, dst.got[0]); diff != "" {
		t.Fatalf("committed changes differ:\n%s", diff)
	}
	if got := s.Board().Column(domain.StatusDone); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("session board not updated: %+v", got)
	}
}

func TestSessionRejectedMoveLogsAndKeepsBoard(t *testing.T) {
	src := &fakeSource{items: []Item{todo("a", 1000)}}
	logger, hook := test.NewNullLogger()
	s := NewSession(src, &fakeCommitter{}, logger)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	before := s.Board().Columns()

	res, changes, err := s.Move(moveOf(domain.StatusTodo, 4, domain.StatusDone, 0))
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if res.Outcome != OutcomeRejected || len(changes) != 0 {
		t.Fatalf("unexpected result %+v changes %+v", res, changes)
	}
	if diff := cmp.Diff(before, s.Board().Columns()); diff != "" {
		t.Fatalf("board changed:\n%s", diff)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != log.WarnLevel || entry.Message != "board move rejected" {
		t.Fatalf("expected warn log, got %+v", entry)
	}
	if entry.Data["source_index"] != 4 {
		t.Fatalf("expected source_index field, got %#v", entry.Data)
	}
}

func TestSessionCommitFailureKeepsOptimisticBoard(t *testing.T) {
	src := &fakeSource{items: []Item{todo("a", 1000), todo("b", 2000)}}
	boom := errors.New("store unavailable")
	dst := &fakeCommitter{err: boom}
	logger, _ := test.NewNullLogger()
	s := NewSession(src, dst, logger)
	ctx := context.Background()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	_, changes, _ := s.Move(moveOf(domain.StatusTodo, 1, domain.StatusTodo, 0))
	if err := s.Commit(ctx, changes); !errors.Is(err, boom) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if got := s.Board().Column(domain.StatusTodo)[0].ID; got != "b" {
		t.Fatalf("expected optimistic order to be kept, first item %s", got)
	}

	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := s.Board().Column(domain.StatusTodo)[0].ID; got != "a" {
		t.Fatalf("expected refresh to restore source order, first item %s", got)
	}
}

func TestSessionCommitSkipsEmptyChangeSet(t *testing.T) {
	dst := &fakeCommitter{}
	s := NewSession(&fakeSource{}, dst, nil)
	if err := s.Commit(context.Background(), nil); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(dst.got) != 0 {
		t.Fatalf("committer should not be called for empty change sets")
	}
}

func TestSessionRefreshErrorKeepsBoard(t *testing.T) {
	src := &fakeSource{items: []Item{todo("a", 1000)}}
	s := NewSession(src, &fakeCommitter{}, nil)
	ctx := context.Background()
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	src.err = errors.New("timeout")
	if err := s.Refresh(ctx); err == nil {
		t.Fatalf("expected refresh error")
	}
	if s.Board().Len(domain.StatusTodo) != 1 {
		t.Fatalf("board should be kept after failed refresh")
	}
}
