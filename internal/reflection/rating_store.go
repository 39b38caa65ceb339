package reflection

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reflectcare/reflection-platform/internal/pipeline"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

// RatingStore persists user quality ratings against synthesized
// records. Ratings feed future prompt tuning and are write-only here.
type RatingStore interface {
	SaveRating(ctx context.Context, recordID string, rating int) error
}

// pgxExecutor is the pgxpool surface the store needs.
type pgxExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PostgresRatingStore struct {
	db     pgxExecutor
	logger *logging.Logger
}

func NewPostgresRatingStore(db pgxExecutor, logger *logging.Logger) *PostgresRatingStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &PostgresRatingStore{db: db, logger: logger.Component("rating_store")}
}

const saveRatingSQL = `
INSERT INTO reflection_ratings (record_id, rating, rated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (record_id) DO UPDATE SET rating = EXCLUDED.rating, rated_at = NOW()`

func (s *PostgresRatingStore) SaveRating(ctx context.Context, recordID string, rating int) error {
	if _, err := uuid.Parse(recordID); err != nil {
		return pipeline.E(pipeline.KindEmptyInput, "rating: record id %q is not a valid UUID", recordID)
	}
	if rating < 1 || rating > 5 {
		return pipeline.E(pipeline.KindEmptyInput, "rating: value must be between 1 and 5, got %d", rating)
	}
	if _, err := s.db.Exec(ctx, saveRatingSQL, recordID, rating); err != nil {
		return pipeline.Wrap(pipeline.KindInternal, err, "rating: save failed")
	}
	s.logger.Info("rating saved", "record_id", recordID, "rating", rating)
	return nil
}
