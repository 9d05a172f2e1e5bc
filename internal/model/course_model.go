package model

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	CourseID     uuid.UUID  `json:"course_id"`
	InstructorID uuid.UUID  `json:"instructor_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	Price        int64      `json:"price"` // IDR, whole rupiah
	Published    bool       `json:"published"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}
