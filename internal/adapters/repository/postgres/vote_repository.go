package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// CastVote locks the project row, so votes on one project are applied one
// at a time and the stored totals always match the vote rows.
func (r *voteRepository) CastVote(ctx context.Context, projectID, userID uuid.UUID, direction domain.Direction) (domain.Tally, error) {
	if !direction.Valid() {
		return domain.Tally{}, domain.ErrInvalidDirection
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Tally{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var up, down int
	err = tx.QueryRowContext(ctx,
		`SELECT upvotes, downvotes FROM projects WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		projectID,
	).Scan(&up, &down)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Tally{}, domain.ErrProjectNotFound
		}
		return domain.Tally{}, fmt.Errorf("failed to lock project: %w", err)
	}

	var value int
	err = tx.QueryRowContext(ctx,
		`SELECT value FROM votes WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	).Scan(&value)
	if err != nil && err != sql.ErrNoRows {
		return domain.Tally{}, fmt.Errorf("failed to check existing vote: %w", err)
	}
	existing := domain.DirectionFromValue(value)

	next := direction
	switch {
	case existing == direction:
		next = domain.DirectionNone
		_, err = tx.ExecContext(ctx, `DELETE FROM votes WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	case existing != domain.DirectionNone:
		_, err = tx.ExecContext(ctx,
			`UPDATE votes SET value = $3, updated_at = NOW() WHERE project_id = $1 AND user_id = $2`,
			projectID, userID, direction.Value(),
		)
	default:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO votes (id, project_id, user_id, value) VALUES ($1, $2, $3, $4)`,
			uuid.New(), projectID, userID, direction.Value(),
		)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Tally{}, fmt.Errorf("%w: %v", domain.ErrDuplicateVote, err)
		}
		return domain.Tally{}, fmt.Errorf("failed to save vote: %w", err)
	}

	up, down = recount(up, down, existing, next)
	_, err = tx.ExecContext(ctx,
		`UPDATE projects SET upvotes = $2, downvotes = $3, updated_at = NOW() WHERE id = $1`,
		projectID, up, down,
	)
	if err != nil {
		return domain.Tally{}, fmt.Errorf("failed to update project totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Tally{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return domain.NewTally(projectID, up, down, next), nil
}

func recount(up, down int, from, to domain.Direction) (int, int) {
	switch from {
	case domain.DirectionUp:
		up = max(up-1, 0)
	case domain.DirectionDown:
		down = max(down-1, 0)
	}
	switch to {
	case domain.DirectionUp:
		up++
	case domain.DirectionDown:
		down++
	}
	return up, down
}

func (r *voteRepository) GetUserVote(ctx context.Context, projectID, userID uuid.UUID) (domain.Direction, error) {
	var value int
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM votes WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.DirectionNone, nil
		}
		return domain.DirectionNone, fmt.Errorf("failed to get user vote: %w", err)
	}
	return domain.DirectionFromValue(value), nil
}

func (r *voteRepository) GetUserVotes(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) (map[uuid.UUID]domain.Direction, error) {
	ids := make([]string, len(projectIDs))
	for i, id := range projectIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id, value FROM votes WHERE user_id = $1 AND project_id = ANY($2::uuid[])`,
		userID, pq.StringArray(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user votes: %w", err)
	}
	defer rows.Close()

	votes := make(map[uuid.UUID]domain.Direction)
	for rows.Next() {
		var (
			projectID uuid.UUID
			value     int
		)
		if err := rows.Scan(&projectID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan user vote: %w", err)
		}
		votes[projectID] = domain.DirectionFromValue(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user votes: %w", err)
	}
	return votes, nil
}
