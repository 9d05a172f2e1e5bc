package services

import (
	"context"

	"AnyCademyAPI/internal/apperr"
	"AnyCademyAPI/internal/model"
	"AnyCademyAPI/internal/repository"

	"github.com/google/uuid"
)

type CourseService struct {
	Courses     *repository.CourseRepository
	Enrollments *repository.EnrollmentRepository
}

func NewCourseService(cr *repository.CourseRepository, er *repository.EnrollmentRepository) *CourseService {
	return &CourseService{Courses: cr, Enrollments: er}
}

func (s *CourseService) Browse(ctx context.Context, limit, offset int) ([]model.Course, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Courses.ListPublished(ctx, limit, offset)
}

func (s *CourseService) Get(ctx context.Context, courseID uuid.UUID) (*model.Course, error) {
	course, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperr.NotFound("course not found")
	}
	return course, nil
}

func (s *CourseService) MyEnrollments(ctx context.Context, userID uuid.UUID) ([]model.Enrollment, error) {
	return s.Enrollments.ListByUser(ctx, userID)
}

// IsEnrolled gates course playback.
func (s *CourseService) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return s.Enrollments.Exists(ctx, userID, courseID)
}
