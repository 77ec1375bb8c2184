package catalog

import (
	"context"
	"errors"

	"correspondance-app/internal/domain"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Service holds every catalog operation. Mutations are attributed to an
// acting user and recorded as a Contribution in the same transaction.
type Service struct {
	db       *gorm.DB
	log      zerolog.Logger
	observer func(Contribution)
}

func NewService(db *gorm.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}

// OnContribution registers fn to be called after each committed contribution.
func (s *Service) OnContribution(fn func(Contribution)) {
	s.observer = fn
}

// DB exposes the underlying handle for read paths living outside the package.
func (s *Service) DB() *gorm.DB {
	return s.db
}

// mutation runs inside the transaction and returns the contribution to
// append. A nil contribution means the call was a no-op.
type mutation func(tx *gorm.DB) (*Contribution, error)

// attributed runs fn and the contribution insert as a single transaction.
func (s *Service) attributed(ctx context.Context, actor uint, op string, fn mutation) (*Contribution, error) {
	if actor == 0 {
		return nil, domain.ErrAnonymous
	}

	var recorded *Contribution
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := fn(tx)
		if err != nil {
			return err
		}
		if c == nil {
			return nil
		}
		c.UserID = actor
		if err := tx.Create(c).Error; err != nil {
			return &domain.PersistenceError{Cause: err}
		}
		recorded = c
		return nil
	})
	if err != nil {
		return nil, s.surface(op, actor, err)
	}

	if recorded != nil {
		s.log.Info().
			Str("op", op).
			Uint("user_id", actor).
			Str("action", recorded.Action).
			Str("kind", recorded.Kind()).
			Msg("contribution recorded")
		if s.observer != nil {
			s.observer(*recorded)
		}
	}
	return recorded, nil
}

// surface passes domain errors through and wraps anything else as a
// PersistenceError, logging storage failures.
func (s *Service) surface(op string, actor uint, err error) error {
	var (
		ve *domain.ValidationError
		ce *domain.ConflictError
		pe *domain.PersistenceError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ce), errors.Is(err, domain.ErrNotFound):
		return err
	case errors.As(err, &pe):
	default:
		pe = &domain.PersistenceError{Cause: err}
	}
	s.log.Error().Err(pe.Cause).Str("op", op).Uint("user_id", actor).Msg("transaction rolled back")
	return pe
}

// storeErr maps a write error, turning unique index violations into conflictMsg.
func storeErr(err error, conflictMsg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.ConflictError{Message: conflictMsg}
	}
	return &domain.PersistenceError{Cause: err}
}

// findErr maps a lookup error.
func findErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.NotFoundError{Resource: resource}
	}
	return &domain.PersistenceError{Cause: err}
}

func idPtr(id uint) *uint {
	return &id
}
