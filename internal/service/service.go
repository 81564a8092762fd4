package service

import (
	"context"
	"errors"
	"time"

	"github.com/Dan9191/hypo-service/internal/market"
	"github.com/Dan9191/hypo-service/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownTown     = errors.New("unknown town")
	ErrUnknownCategory = errors.New("unknown property category")
	ErrMissingContact  = errors.New("missing contact info")
	ErrInvalidLeadType = errors.New("invalid lead type")
	ErrInvalidEmail    = errors.New("invalid email")
)

// Notifier delivers accepted leads
type Notifier interface {
	SendLead(ctx context.Context, lead *models.Lead) error
}

// Service handles business logic
type Service struct {
	store    *market.Store
	notifier Notifier
	log      *logrus.Logger
	now      func() time.Time
}

// NewService initializes a new service
func NewService(store *market.Store, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{store: store, notifier: notifier, log: log, now: time.Now}
}

// Snapshot returns the market snapshot currently in use
func (s *Service) Snapshot() *market.Snapshot {
	return s.store.Current()
}
