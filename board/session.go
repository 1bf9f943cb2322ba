package board

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// ItemSource returns the authoritative flat item list.
type ItemSource interface {
	BoardItems(ctx context.Context) ([]Item, error)
}

// Committer persists a change set.
type Committer interface {
	CommitPositions(ctx context.Context, changes []Change) error
}

// ErrNotLoaded is returned by Move before the first successful Refresh.
var ErrNotLoaded = errors.New("board not loaded")

// Session owns one board for the lifetime of a view. It is not safe for
// concurrent use.
type Session struct {
	source    ItemSource
	committer Committer
	logger    *log.Logger

	board  Board
	loaded bool
}

// NewSession creates a session reading from source and writing to committer.
func NewSession(source ItemSource, committer Committer, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Session{source: source, committer: committer, logger: logger}
}

// Refresh rebuilds the board from the source. On error the previous board is kept.
func (s *Session) Refresh(ctx context.Context) error {
	items, err := s.source.BoardItems(ctx)
	if err != nil {
		return err
	}
	b, err := New(items)
	if err != nil {
		return err
	}
	s.board = b
	s.loaded = true
	return nil
}

// Board returns the board currently held by the session.
func (s *Session) Board() Board {
	return s.board
}

// Move reconciles m against the held board, keeps the result and returns
// the change set to persist. Rejected moves are logged and leave the board
// as it was.
func (s *Session) Move(m Move) (Result, []Change, error) {
	if !s.loaded {
		return Result{}, nil, ErrNotLoaded
	}
	before := s.board
	after, res := Reconcile(before, m)
	switch res.Outcome {
	case OutcomeApplied:
	case OutcomeRejected:
		fields := log.Fields{
			"source_bucket": m.Source.Bucket,
			"source_index":  m.Source.Index,
			"reason":        res.Reason,
		}
		if m.Destination != nil {
			fields["dest_bucket"] = m.Destination.Bucket
			fields["dest_index"] = m.Destination.Index
		}
		s.logger.WithFields(fields).Warn("board move rejected")
		return res, nil, nil
	default:
		return res, nil, nil
	}
	changes := Emit(before, after, m)
	s.board = after
	s.logger.WithFields(log.Fields{
		"item":    res.Moved.ID,
		"bucket":  res.Moved.Bucket,
		"changes": len(changes),
	}).Debug("board move applied")
	return res, changes, nil
}

// Commit hands changes to the committer. A failed commit leaves the board
// as computed; call Refresh to resynchronise.
func (s *Session) Commit(ctx context.Context, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}
	if err := s.committer.CommitPositions(ctx, changes); err != nil {
		s.logger.WithError(err).WithField("changes", len(changes)).Error("board commit failed")
		return err
	}
	return nil
}
