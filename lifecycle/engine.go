// Package lifecycle governs an aid request from submission to delivery.
//
// The only transitions are pending -> assigned -> delivered. Each transition is
// applied through db.RequestStore.UpdateRequest, so the state check and the write
// happen atomically and two concurrent assignments cannot both succeed.
package lifecycle

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-relieflink/db"
	"go-relieflink/metrics"
	"go-relieflink/types"
)

const (
	actionAssign  = "assign"
	actionDeliver = "deliver"
)

// Victim identifies who is submitting a request.
type Victim struct {
	ID   string
	Name string
}

type Engine struct {
	store db.RequestStore
	log   *zap.Logger
	now   func() time.Time
}

func NewEngine(store db.RequestStore, log *zap.Logger) *Engine {
	return &Engine{store: store, log: log.Named("lifecycle"), now: time.Now}
}

// CreateRequest validates and stores a new pending request.
func (e *Engine) CreateRequest(ctx context.Context, victim Victim, location string, items []types.ItemKind) (types.AidRequest, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return types.AidRequest{}, types.NewValidationError("location", "location is required")
	}
	kinds, err := normalizeItems(items)
	if err != nil {
		return types.AidRequest{}, err
	}

	name := strings.TrimSpace(victim.Name)
	if name == "" {
		name = "Anonymous"
	}

	req, err := e.store.AddRequest(ctx, types.AidRequest{
		VictimID:   victim.ID,
		VictimName: name,
		Location:   location,
		Items:      kinds,
		Status:     types.StatusPending,
		CreatedAt:  e.now().UTC(),
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_request").Inc()
		e.log.Error("failed to store request", zap.String("victimId", victim.ID), zap.Error(err))
		return types.AidRequest{}, err
	}

	metrics.RequestsCreatedTotal.Inc()
	e.log.Info("request created",
		zap.String("requestId", req.ID),
		zap.String("victimId", req.VictimID),
		zap.Int("items", len(req.Items)))
	return req, nil
}

// AssignVolunteer binds a volunteer to a pending request. An existing
// assignment is never overwritten.
func (e *Engine) AssignVolunteer(ctx context.Context, requestID, volunteerID, volunteerName string) (types.AidRequest, error) {
	volunteerID = strings.TrimSpace(volunteerID)
	volunteerName = strings.TrimSpace(volunteerName)
	if volunteerID == "" {
		return types.AidRequest{}, types.NewValidationError("volunteerId", "volunteer is required")
	}
	if volunteerName == "" {
		return types.AidRequest{}, types.NewValidationError("volunteerName", "volunteer name is required")
	}

	req, err := e.store.UpdateRequest(ctx, requestID, func(r *types.AidRequest) error {
		if r.Status != types.StatusPending {
			return &types.InvalidTransitionError{RequestID: requestID, From: r.Status, Action: actionAssign}
		}
		r.Status = types.StatusAssigned
		r.AssignedVolunteerID = volunteerID
		r.AssignedVolunteerName = volunteerName
		return nil
	})
	if err != nil {
		return types.AidRequest{}, e.transitionFailed(actionAssign, requestID, err)
	}

	metrics.RequestsAssignedTotal.Inc()
	e.log.Info("volunteer assigned",
		zap.String("requestId", requestID),
		zap.String("volunteerId", volunteerID))
	return req, nil
}

// MarkDelivered closes an assigned request.
func (e *Engine) MarkDelivered(ctx context.Context, requestID string) (types.AidRequest, error) {
	return e.deliver(ctx, requestID, "")
}

// ConfirmDelivery is MarkDelivered restricted to the volunteer the request is assigned to.
func (e *Engine) ConfirmDelivery(ctx context.Context, requestID, volunteerID string) (types.AidRequest, error) {
	if volunteerID == "" {
		return types.AidRequest{}, types.ErrNotAssignee
	}
	return e.deliver(ctx, requestID, volunteerID)
}

func (e *Engine) deliver(ctx context.Context, requestID, volunteerID string) (types.AidRequest, error) {
	req, err := e.store.UpdateRequest(ctx, requestID, func(r *types.AidRequest) error {
		if r.Status != types.StatusAssigned {
			return &types.InvalidTransitionError{RequestID: requestID, From: r.Status, Action: actionDeliver}
		}
		if volunteerID != "" && r.AssignedVolunteerID != volunteerID {
			return types.ErrNotAssignee
		}
		delivered := e.now().UTC()
		r.Status = types.StatusDelivered
		r.DeliveredAt = &delivered
		return nil
	})
	if err != nil {
		return types.AidRequest{}, e.transitionFailed(actionDeliver, requestID, err)
	}

	metrics.RequestsDeliveredTotal.Inc()
	e.log.Info("request delivered",
		zap.String("requestId", requestID),
		zap.String("volunteerId", req.AssignedVolunteerID))
	return req, nil
}

func (e *Engine) transitionFailed(action, requestID string, err error) error {
	switch {
	case types.IsInvalidTransition(err):
		metrics.TransitionsRejectedTotal.WithLabelValues(action).Inc()
		e.log.Warn("transition rejected", zap.String("action", action), zap.String("requestId", requestID), zap.Error(err))
	case types.IsRemote(err):
		metrics.OperationErrorsTotal.WithLabelValues(action + "_request").Inc()
		e.log.Error("transition failed", zap.String("action", action), zap.String("requestId", requestID), zap.Error(err))
	}
	return err
}

func (e *Engine) GetRequest(ctx context.Context, id string) (types.AidRequest, error) {
	return e.store.GetRequest(ctx, id)
}

func (e *Engine) ListRequests(ctx context.Context) ([]types.AidRequest, error) {
	return e.store.ListRequests(ctx)
}

func (e *Engine) RequestsForVictim(ctx context.Context, victimID string) ([]types.AidRequest, error) {
	return e.store.ListRequestsByVictim(ctx, victimID)
}

// TasksForVolunteer returns assigned and delivered requests of one volunteer.
func (e *Engine) TasksForVolunteer(ctx context.Context, volunteerID string) ([]types.AidRequest, error) {
	return e.store.ListVolunteerTasks(ctx, volunteerID)
}

// normalizeItems rejects empty or unknown item sets and collapses duplicates,
// keeping first occurrence order.
func normalizeItems(items []types.ItemKind) ([]types.ItemKind, error) {
	if len(items) == 0 {
		return nil, types.NewValidationError("items", "at least one item is required")
	}
	seen := make(map[types.ItemKind]bool, len(items))
	kinds := make([]types.ItemKind, 0, len(items))
	for _, k := range items {
		if !k.Valid() {
			return nil, types.NewValidationError("items", "unknown item kind %q", k)
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// CheckOffered rejects items that victims cannot request during the active
// disaster. Unknown kinds are left for CreateRequest to report.
func CheckOffered(items []types.ItemKind, active types.DisasterType) error {
	for _, k := range items {
		if k.Valid() && !k.OfferedFor(active) {
			return types.NewValidationError("items", "%s is not offered during a %s", k.Label(), active)
		}
	}
	return nil
}
