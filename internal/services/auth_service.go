package services

import (
	"context"
	"regexp"

	"AnyCademyAPI/internal/apperr"
	"AnyCademyAPI/internal/model"
	"AnyCademyAPI/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 8
	tokenHours     = 24
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type AuthService struct {
	Users *repository.UserRepository
}

func NewAuthService(u *repository.UserRepository) *AuthService {
	return &AuthService{Users: u}
}

func (s *AuthService) validateEmail(email string) error {
	if email == "" {
		return apperr.Validation("email is required")
	}
	if !emailRegex.MatchString(email) {
		return apperr.Validation("invalid email format")
	}
	return nil
}

func (s *AuthService) validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return apperr.Validation("password too short")
	}
	return nil
}

// Register creates a user. Only student and instructor are self-assignable;
// admin roles are granted by a super admin afterwards.
func (s *AuthService) Register(ctx context.Context, email, password, fullName, role string) (uuid.UUID, error) {
	if err := s.validateEmail(email); err != nil {
		return uuid.Nil, err
	}
	if err := s.validatePassword(password); err != nil {
		return uuid.Nil, err
	}
	if role != model.RoleStudent && role != model.RoleInstructor {
		return uuid.Nil, apperr.Validation("role must be student or instructor")
	}

	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, apperr.Validation("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, err
	}

	return s.Users.CreateUser(ctx, email, string(hash), fullName, role)
}

// Login verifies credentials and returns the user for token issuance.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Validation("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Validation("invalid email or password")
	}
	return user, nil
}

// ChangeRole is the super-admin-only role management path. The HTTP gate
// enforces the caller's role; this validates the target.
func (s *AuthService) ChangeRole(ctx context.Context, userID uuid.UUID, role string) error {
	switch role {
	case model.RoleStudent, model.RoleInstructor, model.RoleAdmin, model.RoleSuperAdmin:
	default:
		return apperr.Validation("unknown role: " + role)
	}

	changed, err := s.Users.UpdateRole(ctx, userID, role)
	if err != nil {
		return err
	}
	if !changed {
		return apperr.NotFound("user not found")
	}
	return nil
}

// TokenHours is how long issued JWTs live.
func (s *AuthService) TokenHours() int { return tokenHours }
