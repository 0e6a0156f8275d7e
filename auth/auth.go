// Package auth resolves who is calling and what role they hold.
//
// Roles are stored implicitly: a user is an admin if admins/{uid} exists, a
// volunteer if volunteers/{uid} exists, and a victim otherwise.
package auth

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"go-relieflink/db"
	"go-relieflink/metrics"
	"go-relieflink/types"
)

// roleOrder is the precedence used when a uid has profiles under several roles.
var roleOrder = []types.Role{types.RoleAdmin, types.RoleVolunteer}

type Service struct {
	profiles db.ProfileStore
	validate *validator.Validate
	log      *zap.Logger
}

func NewService(profiles db.ProfileStore, log *zap.Logger) *Service {
	return &Service{profiles: profiles, validate: validator.New(), log: log.Named("auth")}
}

// ResolveRole returns the role of uid. Users with no admin or volunteer
// profile are victims, whether or not a victim profile exists yet.
func (s *Service) ResolveRole(ctx context.Context, uid string) (types.Role, error) {
	for _, role := range roleOrder {
		ok, err := s.profiles.ProfileExists(ctx, role, uid)
		if err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("resolve_role").Inc()
			s.log.Error("role lookup failed", zap.String("uid", uid), zap.String("role", string(role)), zap.Error(err))
			return "", err
		}
		if ok {
			return role, nil
		}
	}
	return types.RoleVictim, nil
}

// Profile loads the stored profile for uid under its resolved role.
func (s *Service) Profile(ctx context.Context, uid string) (types.User, error) {
	role, err := s.ResolveRole(ctx, uid)
	if err != nil {
		return types.User{}, err
	}
	return s.profiles.GetProfile(ctx, role, uid)
}

// ListVolunteers returns every volunteer profile, available or not.
func (s *Service) ListVolunteers(ctx context.Context) ([]types.User, error) {
	return s.profiles.ListProfiles(ctx, types.RoleVolunteer)
}

// Registration is the profile a signed-in user submits after sign-up.
type Registration struct {
	UID         string
	Email       string
	Name        string
	Role        types.Role
	PhoneNumber string
	Location    string
}

// RegisterProfile writes the role-specific profile for a user. The role of an
// existing user cannot be changed by registering again.
func (s *Service) RegisterProfile(ctx context.Context, reg Registration) (types.User, error) {
	user, err := s.buildProfile(reg)
	if err != nil {
		return types.User{}, err
	}

	for _, role := range []types.Role{types.RoleAdmin, types.RoleVolunteer, types.RoleVictim} {
		if role == user.Role {
			continue
		}
		exists, err := s.profiles.ProfileExists(ctx, role, user.ID)
		if err != nil {
			return types.User{}, err
		}
		if exists {
			s.log.Warn("role change rejected",
				zap.String("uid", user.ID),
				zap.String("current", string(role)),
				zap.String("requested", string(user.Role)))
			return types.User{}, types.NewValidationError("role", "account is already registered as %s", role)
		}
	}

	if err := s.profiles.SaveProfile(ctx, user); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("register_profile").Inc()
		s.log.Error("failed to save profile", zap.String("uid", user.ID), zap.Error(err))
		return types.User{}, err
	}
	s.log.Info("profile registered", zap.String("uid", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *Service) buildProfile(reg Registration) (types.User, error) {
	if reg.UID == "" {
		return types.User{}, types.NewValidationError("uid", "uid is required")
	}
	name := strings.TrimSpace(reg.Name)
	if utf8.RuneCountInString(name) < 2 {
		return types.User{}, types.NewValidationError("name", "name must be at least 2 characters")
	}
	email := strings.TrimSpace(reg.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return types.User{}, types.NewValidationError("email", "invalid email address")
	}
	if !reg.Role.Valid() {
		return types.User{}, types.NewValidationError("role", "unknown role %q", reg.Role)
	}

	user := types.User{ID: reg.UID, Name: name, Email: email, Role: reg.Role}
	switch reg.Role {
	case types.RoleVictim:
		user.PhoneNumber = strings.TrimSpace(reg.PhoneNumber)
		user.Location = strings.TrimSpace(reg.Location)
	case types.RoleVolunteer:
		available := true
		user.PhoneNumber = strings.TrimSpace(reg.PhoneNumber)
		user.Availability = &available
	}
	return user, nil
}
