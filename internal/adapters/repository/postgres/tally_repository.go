package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

type tallyRepository struct {
	db *sql.DB
}

func NewTallyRepository(db *sql.DB) ports.TallyRepository {
	return &tallyRepository{
		db: db,
	}
}

func (r *tallyRepository) SummarizeVotes(ctx context.Context, projectID uuid.UUID) error {
	query := `
		UPDATE projects p
		SET upvotes = (SELECT COUNT(*) FROM votes v WHERE v.project_id = p.id AND v.value = 1),
		    downvotes = (SELECT COUNT(*) FROM votes v WHERE v.project_id = p.id AND v.value = -1),
		    updated_at = NOW()
		WHERE p.id = $1
	`

	_, err := r.db.ExecContext(ctx, query, projectID)
	if err != nil {
		return fmt.Errorf("failed to summarize votes for project %s: %w", projectID, err)
	}

	return nil
}
