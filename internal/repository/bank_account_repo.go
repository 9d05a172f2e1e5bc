package repository

import (
	"context"
	"errors"

	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BankAccountRepository struct {
	DB *pgxpool.Pool
}

func NewBankAccountRepository(db *pgxpool.Pool) *BankAccountRepository {
	return &BankAccountRepository{DB: db}
}

// GetByInstructor returns nil, nil when the instructor has no bank account on
// file.
func (r *BankAccountRepository) GetByInstructor(ctx context.Context, instructorID uuid.UUID) (*model.InstructorBankAccount, error) {
	var a model.InstructorBankAccount
	q := `
		SELECT accountid, instructorid, bankname, accountnumber, accountholder, isverified, createdat
		FROM instructor_bank_accounts
		WHERE instructorid=$1
	`
	err := r.DB.QueryRow(ctx, q, instructorID).Scan(
		&a.AccountID, &a.InstructorID, &a.BankName, &a.AccountNumber, &a.AccountHolder, &a.IsVerified, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Upsert saves the instructor's bank account. A changed account number resets
// verification.
func (r *BankAccountRepository) Upsert(ctx context.Context, a *model.InstructorBankAccount) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO instructor_bank_accounts
			(accountid, instructorid, bankname, accountnumber, accountholder, isverified, createdat)
		VALUES ($1, $2, $3, $4, $5, false, NOW())
		ON CONFLICT (instructorid) DO UPDATE
		SET bankname=EXCLUDED.bankname,
		    accountnumber=EXCLUDED.accountnumber,
		    accountholder=EXCLUDED.accountholder,
		    isverified=CASE
		        WHEN instructor_bank_accounts.accountnumber = EXCLUDED.accountnumber
		        THEN instructor_bank_accounts.isverified
		        ELSE false
		    END
	`, a.AccountID, a.InstructorID, a.BankName, a.AccountNumber, a.AccountHolder)
	return err
}

// SetVerified is the admin verification toggle.
func (r *BankAccountRepository) SetVerified(ctx context.Context, instructorID uuid.UUID, verified bool) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE instructor_bank_accounts
		SET isverified=$2
		WHERE instructorid=$1
	`, instructorID, verified)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
