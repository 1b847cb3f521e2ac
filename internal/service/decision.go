package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/events"
	"learnportal-backend/internal/logger"
	"learnportal-backend/internal/metrics"
	"learnportal-backend/internal/repository"
)

type decisionService struct {
	regRepo     repository.RegistrationRepository
	companyRepo repository.CompanyRepository
	logRepo     repository.ApprovalLogRepository
	provisioner Provisioner
	emailSvc    EmailService
	bus         *events.Bus
	metrics     metrics.Recorder
}

func NewDecisionService(
	regRepo repository.RegistrationRepository,
	companyRepo repository.CompanyRepository,
	logRepo repository.ApprovalLogRepository,
	provisioner Provisioner,
	emailSvc EmailService,
	bus *events.Bus,
	rec metrics.Recorder,
) DecisionService {
	return &decisionService{
		regRepo:     regRepo,
		companyRepo: companyRepo,
		logRepo:     logRepo,
		provisioner: provisioner,
		emailSvc:    emailSvc,
		bus:         bus,
		metrics:     rec,
	}
}

func (s *decisionService) Decide(ctx context.Context, registrationID, decidedBy string, decision domain.Decision) (*DecisionResult, error) {
	req, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.RegistrationStatusPending {
		return nil, domain.ErrInvalidState
	}

	switch d := decision.(type) {
	case domain.Rejection:
		return s.reject(ctx, req, decidedBy, d)
	case domain.RegularApproval:
		return s.approve(ctx, req, decidedBy, decision, nil)
	case domain.CompanyApproval:
		if d.CompanyID == "" {
			return nil, &domain.ValidationError{Field: "company_id", Reason: "must not be empty"}
		}
		if _, err := s.companyRepo.GetByID(ctx, d.CompanyID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &domain.ValidationError{Field: "company_id", Reason: "unknown company"}
			}
			return nil, fmt.Errorf("failed to look up company: %w", err)
		}
		companyID := d.CompanyID
		return s.approve(ctx, req, decidedBy, decision, &companyID)
	default:
		return nil, fmt.Errorf("unsupported decision type %T", decision)
	}
}

func (s *decisionService) reject(ctx context.Context, req *domain.RegistrationRequest, decidedBy string, d domain.Rejection) (*DecisionResult, error) {
	entry := &domain.ApprovalLogEntry{
		RegistrationID: req.ID,
		ApprovedBy:     decidedBy,
		Action:         domain.ApprovalActionRejected,
		Notes:          d.Notes,
	}
	if err := s.regRepo.Finalize(ctx, req.ID, domain.RegistrationStatusRejected, entry); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.metrics.RecordDecisionConflict()
		}
		return nil, err
	}

	req.Status = domain.RegistrationStatusRejected
	s.metrics.RecordDecision(string(domain.ApprovalActionRejected))
	s.bus.Publish(events.Event{Table: events.TableRegistrations, Op: events.OpUpdate, Row: req})
	s.bus.Publish(events.Event{Table: events.TableApprovalLogs, Op: events.OpInsert, Row: entry})
	logger.Info("registration rejected", "registration_id", req.ID, "decided_by", decidedBy)

	s.notify(func(ctx context.Context) error {
		return s.emailSvc.SendRejection(ctx, req.Email, req.FullName, d.Notes)
	}, req.ID)

	return &DecisionResult{Request: req, Action: domain.ApprovalActionRejected}, nil
}

func (s *decisionService) approve(ctx context.Context, req *domain.RegistrationRequest, decidedBy string, decision domain.Decision, companyID *string) (*DecisionResult, error) {
	userID, err := s.provisioner.Provision(ctx, req, companyID, decidedBy)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.metrics.RecordDecisionConflict()
		}
		// Mandatory steps failed: no log entry, no status change. The
		// request stays pending and reviewable.
		return nil, err
	}

	entry := &domain.ApprovalLogEntry{
		RegistrationID: req.ID,
		UserID:         &userID,
		ApprovedBy:     decidedBy,
		Action:         decision.Action(),
		CompanyID:      companyID,
		Notes:          decision.DecisionNotes(),
	}
	if err := s.regRepo.Finalize(ctx, req.ID, domain.RegistrationStatusApproved, entry); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.metrics.RecordDecisionConflict()
			// A concurrent rejection won after our provisioning; the user
			// and identity exist against a rejected request. Surface loudly
			// so an operator reconciles.
			logger.Error("provisioned but lost finalize race",
				"registration_id", req.ID, "user_id", userID)
		}
		return nil, err
	}

	req.Status = domain.RegistrationStatusApproved
	s.metrics.RecordDecision(string(decision.Action()))
	s.bus.Publish(events.Event{Table: events.TableRegistrations, Op: events.OpUpdate, Row: req})
	s.bus.Publish(events.Event{Table: events.TableApprovalLogs, Op: events.OpInsert, Row: entry})
	logger.Info("registration approved",
		"registration_id", req.ID, "user_id", userID, "action", decision.Action(), "decided_by", decidedBy)

	s.notify(func(ctx context.Context) error {
		return s.emailSvc.SendWelcome(ctx, req.Email, req.FullName)
	}, req.ID)

	return &DecisionResult{Request: req, Action: decision.Action(), UserID: &userID}, nil
}

// notify dispatches an email without tying it to the caller's lifetime.
// Delivery failure never affects the decision outcome.
func (s *decisionService) notify(send func(context.Context) error, registrationID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			logger.Warn("notification dispatch failed", "registration_id", registrationID, "error", err)
		}
	}()
}

func (s *decisionService) History(ctx context.Context, registrationID string) ([]domain.ApprovalLogEntry, error) {
	if _, err := s.regRepo.GetByID(ctx, registrationID); err != nil {
		return nil, err
	}
	return s.logRepo.ListByRegistration(ctx, registrationID)
}

func (s *decisionService) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return s.companyRepo.List(ctx)
}
