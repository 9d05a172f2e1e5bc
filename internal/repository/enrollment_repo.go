package repository

import (
	"context"

	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentRepository struct {
	DB *pgxpool.Pool
}

func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// CreateTx inserts the enrollment inside the caller's settlement transaction.
// ON CONFLICT keeps webhook redelivery from duplicating the row.
func (r *EnrollmentRepository) CreateTx(ctx context.Context, tx pgx.Tx, userID, courseID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO course_enrollments (userid, courseid, enrolledat)
		VALUES ($1, $2, NOW())
		ON CONFLICT (userid, courseid) DO NOTHING
	`, userID, courseID)
	return err
}

// Create inserts an enrollment outside any transaction (free courses).
func (r *EnrollmentRepository) Create(ctx context.Context, userID, courseID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO course_enrollments (userid, courseid, enrolledat)
		VALUES ($1, $2, NOW())
		ON CONFLICT (userid, courseid) DO NOTHING
	`, userID, courseID)
	return err
}

func (r *EnrollmentRepository) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM course_enrollments WHERE userid=$1 AND courseid=$2)`
	err := r.DB.QueryRow(ctx, q, userID, courseID).Scan(&exists)
	return exists, err
}

// ListByUser returns the user's enrollments, newest first.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Enrollment, error) {
	q := `
		SELECT enrollmentid, userid, courseid, enrolledat
		FROM course_enrollments
		WHERE userid=$1
		ORDER BY enrolledat DESC
	`
	rows, err := r.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.EnrollmentID, &e.UserID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, nil
}
