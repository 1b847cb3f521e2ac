package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/events"
	"learnportal-backend/internal/logger"
	"learnportal-backend/internal/metrics"
	"learnportal-backend/internal/repository"
)

type intakeService struct {
	regRepo  repository.RegistrationRepository
	userRepo repository.UserRepository
	bus      *events.Bus
	metrics  metrics.Recorder
	validate *validator.Validate
}

func NewIntakeService(
	regRepo repository.RegistrationRepository,
	userRepo repository.UserRepository,
	bus *events.Bus,
	rec metrics.Recorder,
) IntakeService {
	return &intakeService{
		regRepo:  regRepo,
		userRepo: userRepo,
		bus:      bus,
		metrics:  rec,
		validate: validator.New(),
	}
}

func (s *intakeService) Submit(ctx context.Context, input SubmitRegistrationInput) (*domain.RegistrationRequest, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	// Early duplicate rejection. The partial unique index on non-rejected
	// emails remains the real guard; this check only spares the applicant a
	// round trip through the insert.
	if _, err := s.regRepo.GetActiveByEmail(ctx, input.Email); err == nil {
		s.metrics.RecordDuplicateRejection()
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		s.metrics.RecordDuplicateRejection()
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	req := &domain.RegistrationRequest{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		FullName:     firstName + " " + lastName,
		Phone:        input.Phone,
		Bio:          input.Bio,
		Department:   input.Department,
		Position:     input.Position,
		EmployeeID:   input.EmployeeID,
	}

	if err := s.regRepo.Create(ctx, req); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// Lost the check-then-insert race; the constraint is the
			// canonical signal.
			s.metrics.RecordDuplicateRejection()
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to store registration request: %w", err)
	}

	s.metrics.RecordSubmission()
	s.bus.Publish(events.Event{Table: events.TableRegistrations, Op: events.OpInsert, Row: req})
	logger.Info("registration request submitted", "registration_id", req.ID, "email", req.Email)
	return req, nil
}

func (s *intakeService) validateInput(input SubmitRegistrationInput) error {
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &domain.ValidationError{
				Field:  fieldName(verrs[0]),
				Reason: reasonFor(verrs[0]),
			}
		}
		return err
	}
	if input.Password != input.ConfirmPassword {
		return &domain.ValidationError{Field: "confirm_password", Reason: "passwords do not match"}
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "ConfirmPassword":
		return "confirm_password"
	case "FirstName":
		return "first_name"
	case "LastName":
		return "last_name"
	default:
		return strings.ToLower(fe.Field())
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

func (s *intakeService) Get(ctx context.Context, id string) (*domain.RegistrationRequest, error) {
	return s.regRepo.GetByID(ctx, id)
}

func (s *intakeService) List(ctx context.Context, status domain.RegistrationStatus, page, pageSize int32) ([]domain.RegistrationRequest, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.regRepo.List(ctx, status, page, pageSize)
}
