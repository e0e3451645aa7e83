package item

import (
	"context"
	"fmt"

	"github.com/benpsk/item-service/internal/validation"
)

// State is the terminal state of a submission.
type State string

const (
	StateRejected  State = "rejected"
	StatePersisted State = "persisted"
)

// Submission is the outcome of validating and storing a form. Errors holds
// the full collection when the submission was rejected.
type Submission struct {
	State  State
	Item   Item
	Errors *validation.Errors
}

func (s Submission) Rejected() bool {
	return s.State == StateRejected
}

type Service struct {
	store     Store
	validator *Validator
}

func NewService(store Store, validator *Validator) *Service {
	if validator == nil {
		validator = NewValidator()
	}
	return &Service{store: store, validator: validator}
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.store.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	return s.store.FindByID(ctx, id)
}

// Validate runs the rule set over form, appending to errs. errs may already
// hold binding failures; a nil errs starts a new collection.
func (s *Service) Validate(form Form, errs *validation.Errors) *validation.Errors {
	if errs == nil {
		errs = validation.NewErrors(ObjectName)
	}
	s.validator.Validate(&form, errs)
	return errs
}

// Create validates form and saves it when no error was reported.
func (s *Service) Create(ctx context.Context, form Form, errs *validation.Errors) (Submission, error) {
	errs = s.Validate(form, errs)
	if errs.HasErrors() {
		return Submission{State: StateRejected, Errors: errs}, nil
	}

	saved, err := s.store.Save(ctx, form.Item())
	if err != nil {
		return Submission{}, fmt.Errorf("save item: %w", err)
	}
	return Submission{State: StatePersisted, Item: saved, Errors: errs}, nil
}

// Update validates form and overwrites the item with the given id. An unknown
// id fails with ErrNotFound before any validation happens.
func (s *Service) Update(ctx context.Context, id int64, form Form, errs *validation.Errors) (Submission, error) {
	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Submission{}, err
	}

	errs = s.Validate(form, errs)
	if errs.HasErrors() {
		return Submission{State: StateRejected, Item: current, Errors: errs}, nil
	}

	next := form.Item()
	if err := s.store.Update(ctx, id, next); err != nil {
		return Submission{}, fmt.Errorf("update item %d: %w", id, err)
	}
	updated, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Submission{}, fmt.Errorf("reload item %d: %w", id, err)
	}
	return Submission{State: StatePersisted, Item: updated, Errors: errs}, nil
}
