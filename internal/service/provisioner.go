package service

import (
	"context"
	"errors"
	"time"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/events"
	"learnportal-backend/internal/identity"
	"learnportal-backend/internal/logger"
	"learnportal-backend/internal/metrics"
	"learnportal-backend/internal/repository"
)

// Provisioning step labels for failure metrics.
const (
	stepIdentity   = "identity"
	stepUserRecord = "user_record"
)

type provisionerService struct {
	provider    identity.Provider
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	bus         *events.Bus
	metrics     metrics.Recorder
}

func NewProvisioner(
	provider identity.Provider,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	bus *events.Bus,
	rec metrics.Recorder,
) Provisioner {
	return &provisionerService{
		provider:    provider,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		bus:         bus,
		metrics:     rec,
	}
}

func (s *provisionerService) Provision(ctx context.Context, req *domain.RegistrationRequest, companyID *string, approvedBy string) (string, error) {
	// Step 1 (mandatory): external identity under the UID derived from the
	// registration id. A retry or a racing approval targets the same UID, so
	// at most one identity ever exists per registration.
	uid := identity.UIDFor(req.ID)
	if _, err := s.provider.CreateIdentity(ctx, identity.Identity{
		UID:           uid,
		Email:         req.Email,
		PasswordHash:  []byte(req.PasswordHash),
		DisplayName:   req.FullName,
		EmailVerified: true,
	}); err != nil {
		s.metrics.RecordProvisioningFailure(stepIdentity)
		return "", &domain.AuthProvisioningError{Err: err}
	}

	// Step 2 (mandatory): local account record.
	now := time.Now().UTC()
	user := &domain.User{
		ID:             uid,
		RegistrationID: req.ID,
		Email:          req.Email,
		Role:           domain.UserRoleUser,
		CompanyID:      companyID,
		ApprovalStatus: string(domain.RegistrationStatusApproved),
		ApprovedBy:     approvedBy,
		ApprovedAt:     &now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Another decider already provisioned this registration. The
			// identity under this UID is theirs; leave it alone.
			return "", domain.ErrConflict
		}
		s.metrics.RecordProvisioningFailure(stepUserRecord)
		// Compensate so the identity does not outlive the failed user row.
		// Deletion is best effort; the orphan sweep flags anything missed.
		if derr := s.provider.DeleteIdentity(ctx, uid); derr != nil {
			logger.Error("orphaned identity: compensating deletion failed",
				"registration_id", req.ID, "uid", uid, "error", derr)
		}
		return "", &domain.UserRecordError{Err: err}
	}
	s.bus.Publish(events.Event{Table: events.TableUsers, Op: events.OpInsert, Row: user})

	// Step 3 (best effort): profile mirroring the request. Failure is a
	// warning only and never changes the result.
	profile := &domain.UserProfile{
		UserID:     uid,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Bio:        req.Bio,
		Department: req.Department,
		Position:   req.Position,
		EmployeeID: req.EmployeeID,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		s.metrics.RecordProfileWriteFailure()
		logger.Warn("profile write failed; user remains valid without one",
			"registration_id", req.ID, "user_id", uid, "error", err)
	} else {
		s.bus.Publish(events.Event{Table: events.TableProfiles, Op: events.OpInsert, Row: profile})
	}

	return uid, nil
}
