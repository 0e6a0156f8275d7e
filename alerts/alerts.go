// Package alerts is the append-only log of disaster notices broadcast by administrators.
package alerts

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"go-relieflink/db"
	"go-relieflink/metrics"
	"go-relieflink/types"
)

const minMessageLength = 10

type Service struct {
	store db.AlertStore
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store db.AlertStore, log *zap.Logger) *Service {
	return &Service{store: store, log: log.Named("alerts"), now: time.Now}
}

// Broadcast validates and appends a new alert. Nothing is written when validation fails.
func (s *Service) Broadcast(ctx context.Context, disaster types.DisasterType, message string) (types.DisasterAlert, error) {
	if !disaster.Valid() {
		return types.DisasterAlert{}, types.NewValidationError("type", "unknown disaster type %q", disaster)
	}
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) < minMessageLength {
		return types.DisasterAlert{}, types.NewValidationError("message", "message must be at least %d characters", minMessageLength)
	}

	alert, err := s.store.AddAlert(ctx, types.DisasterAlert{
		Type:      disaster,
		Message:   message,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("broadcast_alert").Inc()
		s.log.Error("failed to store alert", zap.String("type", string(disaster)), zap.Error(err))
		return types.DisasterAlert{}, err
	}

	metrics.AlertsBroadcastTotal.WithLabelValues(string(disaster)).Inc()
	s.log.Info("alert broadcast", zap.String("alertId", alert.ID), zap.String("type", string(disaster)))
	return alert, nil
}

// List returns every alert, newest first.
func (s *Service) List(ctx context.Context) ([]types.DisasterAlert, error) {
	return s.store.ListAlerts(ctx, 0)
}

func (s *Service) LatestFromStore(ctx context.Context) (types.DisasterAlert, bool, error) {
	recent, err := s.store.ListAlerts(ctx, 1)
	if err != nil {
		return types.DisasterAlert{}, false, err
	}
	latest, ok := Latest(recent)
	return latest, ok, nil
}

// Latest picks the alert with the greatest createdAt. On a tie the first one wins.
func Latest(alerts []types.DisasterAlert) (types.DisasterAlert, bool) {
	if len(alerts) == 0 {
		return types.DisasterAlert{}, false
	}
	latest := alerts[0]
	for _, a := range alerts[1:] {
		if a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	return latest, true
}
