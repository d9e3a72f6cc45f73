package ports

import (
	"context"

	"github.com/google/uuid"
)

type TallyRepository interface {
	SummarizeVotes(ctx context.Context, projectID uuid.UUID) error
}

type SummaryService interface {
	SummarizeAllVotes(ctx context.Context) error
}
