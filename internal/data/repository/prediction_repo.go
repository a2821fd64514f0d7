package repository

import (
	"context"
	"errors"
	"fmt"

	"heart-predict/internal/data/entity"
	"heart-predict/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PredictionRepository interface {
	Create(ctx context.Context, prediction *entity.Prediction) error
	FindByID(ctx context.Context, id int64) (*entity.Prediction, error)
	FindByUserID(ctx context.Context, userID int64, limit, offset int) ([]*entity.Prediction, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id, userID int64) error
}

const predictionColumns = `id, user_id, age, sex, cp, trestbps, chol, fbs, restecg,
		       thalach, exang, oldpeak, slope, probability, prediction, created_at`

type predictionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPredictionRepository(db database.PgxIface, log *zap.Logger) PredictionRepository {
	return &predictionRepository{
		db:  db,
		log: log.With(zap.String("repository", "prediction")),
	}
}

// Create stores a prediction and sets its generated id.
func (r *predictionRepository) Create(ctx context.Context, p *entity.Prediction) error {
	query := `
		INSERT INTO predictions (user_id, age, sex, cp, trestbps, chol, fbs, restecg,
		                         thalach, exang, oldpeak, slope, probability, prediction, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		p.UserID,
		p.Age,
		p.Sex,
		p.CP,
		p.Trestbps,
		p.Chol,
		p.FBS,
		p.RestECG,
		p.Thalach,
		p.Exang,
		p.Oldpeak,
		p.Slope,
		p.Probability,
		p.Label,
		p.CreatedAt,
	).Scan(&p.ID)

	if err != nil {
		r.log.Error("Failed to create prediction",
			zap.Error(err),
			zap.Int64("user_id", p.UserID),
		)
		return fmt.Errorf("create prediction for user %d: %w", p.UserID, err)
	}

	return nil
}

func (r *predictionRepository) FindByID(ctx context.Context, id int64) (*entity.Prediction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM predictions
		WHERE id = $1
	`, predictionColumns)

	prediction, err := scanPrediction(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find prediction", zap.Error(err), zap.Int64("prediction_id", id))
		return nil, fmt.Errorf("find prediction %d: %w", id, err)
	}

	return prediction, nil
}

// FindByUserID returns a page of the user's predictions, newest first.
func (r *predictionRepository) FindByUserID(ctx context.Context, userID int64, limit, offset int) ([]*entity.Prediction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM predictions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, predictionColumns)

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list predictions",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find predictions of user %d: %w", userID, err)
	}
	defer rows.Close()

	predictions := make([]*entity.Prediction, 0)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			r.log.Error("Failed to scan prediction row", zap.Error(err))
			return nil, fmt.Errorf("scan prediction row: %w", err)
		}
		predictions = append(predictions, p)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate prediction rows: %w", err)
	}

	return predictions, nil
}

func (r *predictionRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM predictions WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Database error counting predictions", zap.Error(err), zap.Int64("user_id", userID))
		return 0, fmt.Errorf("count predictions of user %d: %w", userID, err)
	}

	return count, nil
}

// Delete removes a prediction owned by userID.
func (r *predictionRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM predictions WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to delete prediction",
			zap.Error(err),
			zap.Int64("prediction_id", id),
			zap.Int64("user_id", userID),
		)
		return fmt.Errorf("delete prediction %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("prediction %d: %w", id, ErrNotFound)
	}

	return nil
}

func scanPrediction(row pgx.Row) (*entity.Prediction, error) {
	var p entity.Prediction
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Age,
		&p.Sex,
		&p.CP,
		&p.Trestbps,
		&p.Chol,
		&p.FBS,
		&p.RestECG,
		&p.Thalach,
		&p.Exang,
		&p.Oldpeak,
		&p.Slope,
		&p.Probability,
		&p.Label,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
