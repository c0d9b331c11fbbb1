package taste

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrProfileNotFound = errors.New("taste profile not found")

type Repository interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpsertProfile(ctx context.Context, profile *Profile) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var profile Profile
	query := `
		SELECT user_id, category_weights, atmosphere_weights, context_weights,
		       style_label, updated_at
		FROM taste_profiles
		WHERE user_id = $1
	`

	err := r.db.GetContext(ctx, &profile, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *postgresRepository) UpsertProfile(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO taste_profiles (user_id, category_weights, atmosphere_weights, context_weights, style_label)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET
			category_weights = $2, atmosphere_weights = $3,
			context_weights = $4, style_label = $5,
			updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at
	`

	return r.db.QueryRowxContext(
		ctx, query,
		profile.UserID, profile.CategoryWeights, profile.AtmosphereWeights,
		profile.ContextWeights, profile.StyleLabel,
	).Scan(&profile.UpdatedAt)
}
