package repository

import (
	"context"
	"errors"

	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CourseRepository struct {
	DB *pgxpool.Pool
}

func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) GetByID(ctx context.Context, courseID uuid.UUID) (*model.Course, error) {
	var c model.Course
	q := `
		SELECT courseid, instructorid, title, description, price, published, createdat, deletedat
		FROM courses
		WHERE courseid=$1 AND deletedat IS NULL
	`
	if err := r.DB.QueryRow(ctx, q, courseID).Scan(
		&c.CourseID, &c.InstructorID, &c.Title, &c.Description, &c.Price, &c.Published, &c.CreatedAt, &c.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListPublished returns browsable courses, newest first.
func (r *CourseRepository) ListPublished(ctx context.Context, limit, offset int) ([]model.Course, error) {
	q := `
		SELECT courseid, instructorid, title, description, price, published, createdat, deletedat
		FROM courses
		WHERE published=true AND deletedat IS NULL
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.CourseID, &c.InstructorID, &c.Title, &c.Description, &c.Price, &c.Published, &c.CreatedAt, &c.DeletedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
