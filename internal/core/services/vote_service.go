package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/ports"
)

// maxTallyAttempts bounds automatic retries of the tally increment on
// store-level serialization conflicts.
const maxTallyAttempts = 3

type voteService struct {
	positions ports.PositionRepository
	ballots   ports.BallotRepository
	users     ports.UserRepository
	bus       ports.EventBus
	logger    *slog.Logger
}

func NewVoteService(
	positions ports.PositionRepository,
	ballots ports.BallotRepository,
	users ports.UserRepository,
	bus ports.EventBus,
	logger *slog.Logger,
) ports.VoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &voteService{
		positions: positions,
		ballots:   ballots,
		users:     users,
		bus:       bus,
		logger:    logger,
	}
}

// CastVote runs the vote pipeline: guard check-and-reserve, atomic tally
// increment, ballot confirmation, then event publication. Each step is atomic
// against the store; the pipeline as a whole is not. A failed increment after
// a successful reservation releases the reservation, so a failed attempt
// never consumes the user's one-vote entitlement. The event is published
// strictly after the tally commit.
func (s *voteService) CastVote(ctx context.Context, input ports.CastVoteInput) (*ports.CastVoteResult, error) {
	user, err := s.users.GetByID(ctx, input.UserID.String())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	position, err := s.positions.GetByID(ctx, input.PositionID)
	if err != nil {
		return nil, err
	}
	if !position.IsActive {
		return nil, domain.ErrPositionNotFound
	}
	if !position.HasCandidate(input.CandidateIndex) {
		return nil, domain.ErrCandidateIndex
	}

	// Last cancellation point. Once the guard reserves a ballot the request
	// must run to commit or explicit rollback, never be left half-applied.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reserved, err := s.ballots.Reserve(ctx, input.UserID, input.PositionID)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, domain.ErrAlreadyVoted
	}

	ctx = context.WithoutCancel(ctx)

	newTally, err := s.incrementTally(ctx, input.PositionID, input.CandidateIndex)
	if err != nil {
		if relErr := s.ballots.Release(ctx, input.UserID, input.PositionID); relErr != nil {
			s.logger.Error("failed to release ballot reservation",
				"user_id", input.UserID,
				"position_id", input.PositionID,
				"error", relErr,
			)
		}
		return nil, err
	}

	// The snapshot carries the vote's own post-increment tally from the
	// store; no re-read sits between the commit and the reported result.
	updated := position
	updated.Candidates[input.CandidateIndex].Votes = newTally
	candidate := updated.Candidates[input.CandidateIndex]
	if err := s.ballots.Confirm(ctx, input.UserID, input.PositionID, input.CandidateIndex, candidate.Name); err != nil {
		// The tally is committed; the reservation still blocks a re-vote.
		// The snapshot can be stamped by a later reconciliation, so the vote
		// is reported as recorded.
		s.logger.Error("failed to confirm ballot record",
			"user_id", input.UserID,
			"position_id", input.PositionID,
			"error", err,
		)
	}

	s.logger.Info("vote recorded",
		"user_id", input.UserID,
		"position_id", input.PositionID,
		"candidate_index", input.CandidateIndex,
		"new_tally", newTally,
	)
	s.bus.Publish(domain.ChangeEvent{
		Kind:           domain.EventVoteRecorded,
		PositionID:     updated.ID,
		Position:       updated,
		CandidateIndex: input.CandidateIndex,
		NewTally:       newTally,
		OccurredAt:     time.Now(),
	})

	ballots, err := s.ballots.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	user.Ballots = ballots

	return &ports.CastVoteResult{Position: updated, User: user}, nil
}

func (s *voteService) incrementTally(ctx context.Context, positionID uuid.UUID, candidateIndex int) (int64, error) {
	var lastErr error
	for attempt := 1; attempt <= maxTallyAttempts; attempt++ {
		newTally, err := s.positions.IncrementTally(ctx, positionID, candidateIndex)
		if err == nil {
			return newTally, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return 0, err
		}
		lastErr = err
		s.logger.Warn("tally increment conflict, retrying",
			"position_id", positionID,
			"candidate_index", candidateIndex,
			"attempt", attempt,
		)
	}
	return 0, lastErr
}
