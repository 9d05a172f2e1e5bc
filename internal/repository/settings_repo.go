package repository

import (
	"context"
	"errors"

	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingsRepository struct {
	DB *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

// GetPlatformSettings reads the single platform configuration row. Read-only
// at transaction time; callers pass the value down explicitly instead of
// re-reading mid-flow.
func (r *SettingsRepository) GetPlatformSettings(ctx context.Context) (*model.PlatformSettings, error) {
	var s model.PlatformSettings
	q := `
		SELECT feepercent, fixedfee, minsplitamount, splitenabled,
		       clientkey, serverkey, isproduction
		FROM platform_settings
		WHERE id=1
	`
	err := r.DB.QueryRow(ctx, q).Scan(
		&s.FeePercent, &s.FixedFee, &s.MinSplitAmount, &s.SplitEnabled,
		&s.Credentials.ClientKey, &s.Credentials.ServerKey, &s.Credentials.IsProduction,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetFeeTiers returns the optional tiered fee table, lowest tier first. Empty
// means the flat policy applies.
func (r *SettingsRepository) GetFeeTiers(ctx context.Context) ([]model.FeeTier, error) {
	q := `
		SELECT minamount, maxamount, feepercent
		FROM platform_fee_tiers
		ORDER BY minamount
	`
	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.FeeTier
	for rows.Next() {
		var t model.FeeTier
		if err := rows.Scan(&t.MinAmount, &t.MaxAmount, &t.FeePercent); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetInstructorPaymentSettings returns nil, nil when the instructor has not
// configured merchant keys. Callers treat that as "payment unavailable" for
// direct routing, or fall back to non-split per the eligibility predicate.
func (r *SettingsRepository) GetInstructorPaymentSettings(ctx context.Context, instructorID uuid.UUID) (*model.InstructorPaymentSettings, error) {
	var s model.InstructorPaymentSettings
	q := `
		SELECT instructorid, clientkey, serverkey, isproduction
		FROM instructor_payment_settings
		WHERE instructorid=$1
	`
	err := r.DB.QueryRow(ctx, q, instructorID).Scan(
		&s.InstructorID, &s.Credentials.ClientKey, &s.Credentials.ServerKey, &s.Credentials.IsProduction,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpsertInstructorPaymentSettings saves an instructor's merchant keys.
func (r *SettingsRepository) UpsertInstructorPaymentSettings(ctx context.Context, s *model.InstructorPaymentSettings) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO instructor_payment_settings (instructorid, clientkey, serverkey, isproduction)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (instructorid) DO UPDATE
		SET clientkey=EXCLUDED.clientkey,
		    serverkey=EXCLUDED.serverkey,
		    isproduction=EXCLUDED.isproduction
	`, s.InstructorID, s.Credentials.ClientKey, s.Credentials.ServerKey, s.Credentials.IsProduction)
	return err
}
