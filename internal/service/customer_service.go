package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/followup"
	"github.com/spec-kit/crm-service/internal/persistence"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// CustomerService coordinates customer workflows, including the follow-up
// state transition and its audit narrative.
type CustomerService struct {
	pool       *pgxpool.Pool
	customers  repository.CustomerRepository
	history    repository.AuditRepository
	dispatcher events.Dispatcher
}

// CustomerDependencies bundles requirements for the customer service.
type CustomerDependencies struct {
	Pool         *pgxpool.Pool
	CustomerRepo repository.CustomerRepository
	AuditRepo    repository.AuditRepository
	Dispatcher   events.Dispatcher
}

// CustomerInput describes a create or update payload.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   *string
	Company *string
}

// NewCustomerService constructs the service.
func NewCustomerService(deps CustomerDependencies) *CustomerService {
	return &CustomerService{
		pool:       deps.Pool,
		customers:  deps.CustomerRepo,
		history:    deps.AuditRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateCustomer creates a customer record.
func (s *CustomerService) CreateCustomer(ctx context.Context, actor domain.Identity, input CustomerInput) (*domain.Customer, error) {
	customer := &domain.Customer{
		Number:  uuid.NewString(),
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   input.Phone,
		Company: input.Company,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventCustomerCreated,
		CustomerID: customer.ID,
		Actor:      actorFrom(actor),
		Payload:    events.CustomerCreatedPayload{Number: customer.Number, Name: customer.Name},
	})
	return customer, nil
}

// ListCustomers pages over customer records.
func (s *CustomerService) ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	customers, err := s.customers.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return customers, nil
}

// GetCustomer loads a single customer record.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer")
		}
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return customer, nil
}

// UpdateCustomer updates mutable contact fields.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Email = strings.TrimSpace(input.Email)
	customer.Phone = input.Phone
	customer.Company = input.Company

	if err := s.customers.Update(ctx, customer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer")
		}
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer record.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("customer")
		}
		return apperrors.NewPersistenceFailure(err)
	}
	return nil
}

// SetFollowUp applies a new follow-up value. The previous value is read
// under a row lock inside the same transaction that writes the new value
// and appends the audit entry, so the narrative always describes the true
// prior state and partial writes cannot occur.
func (s *CustomerService) SetFollowUp(ctx context.Context, actor domain.Identity, customerID string, next *time.Time) (*domain.Customer, followup.Change, error) {
	change, err := s.applyFollowUp(ctx, customerID, func(prev *time.Time) followup.Change {
		return followup.Diff(prev, next)
	}, next)
	if err != nil {
		return nil, followup.Change{}, err
	}

	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, followup.Change{}, err
	}

	if change.Changed() {
		s.publishFollowUpEvent(ctx, actor, customerID, change, eventTypeFor(change.Kind))
	}
	return customer, change, nil
}

// MarkFollowUpDone clears the follow-up through the differ with the
// completion narrative.
func (s *CustomerService) MarkFollowUpDone(ctx context.Context, actor domain.Identity, customerID string) (*domain.Customer, followup.Change, error) {
	change, err := s.applyFollowUp(ctx, customerID, followup.MarkDone, nil)
	if err != nil {
		return nil, followup.Change{}, err
	}

	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, followup.Change{}, err
	}

	if change.Changed() {
		s.publishFollowUpEvent(ctx, actor, customerID, change, events.EventFollowUpCompleted)
	}
	return customer, change, nil
}

// ListHistory returns the customer's audit trail, oldest first.
func (s *CustomerService) ListHistory(ctx context.Context, customerID string) ([]domain.AuditEntry, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return entries, nil
}

func (s *CustomerService) applyFollowUp(ctx context.Context, customerID string, diff func(prev *time.Time) followup.Change, next *time.Time) (followup.Change, error) {
	var change followup.Change
	err := persistence.WithinTx(ctx, s.pool, func(tx pgx.Tx) error {
		prev, err := s.customers.GetFollowUpForUpdate(ctx, tx, customerID)
		if err != nil {
			return err
		}

		change = diff(prev)
		if !change.Changed() {
			return nil
		}

		if err := s.customers.SetFollowUp(ctx, tx, customerID, next); err != nil {
			return err
		}
		entry := &domain.AuditEntry{CustomerID: customerID, Text: change.Narrative}
		return s.history.Append(ctx, tx, entry)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return followup.Change{}, apperrors.NewNotFound("customer")
		}
		return followup.Change{}, apperrors.NewPersistenceFailure(err)
	}
	return change, nil
}

func (s *CustomerService) publishFollowUpEvent(ctx context.Context, actor domain.Identity, customerID string, change followup.Change, eventType events.EventType) {
	s.publish(ctx, events.Event{
		Type:       eventType,
		CustomerID: customerID,
		Actor:      actorFrom(actor),
		Payload:    events.FollowUpChangedPayload{Narrative: change.Narrative},
	})
}

func (s *CustomerService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventTypeFor(kind followup.ChangeKind) events.EventType {
	switch kind {
	case followup.KindScheduled:
		return events.EventFollowUpScheduled
	case followup.KindRescheduled:
		return events.EventFollowUpRescheduled
	default:
		return events.EventFollowUpCleared
	}
}

func actorFrom(identity domain.Identity) events.Actor {
	return events.Actor{SubjectID: identity.SubjectID, Role: identity.Role}
}
