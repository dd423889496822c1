package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/platform/apperror"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/platform/relation"
	"github.com/philly/snapgram/internal/platform/transaction"
	"github.com/philly/snapgram/internal/platform/validator"
	"github.com/philly/snapgram/internal/users/domain"
	"github.com/philly/snapgram/internal/users/ports"
)

const searchLimit = 20

var (
	ErrFollowTargetNotFound = apperror.NotFound(
		apperror.BusinessCodeUserNotFound,
		"The user requested to follow does not exist.",
	)

	ErrUserNotFound = apperror.NotFound(
		apperror.BusinessCodeUserNotFound,
		"The requested user does not exist.",
	)

	ErrActorNotFound = apperror.NotFound(
		apperror.BusinessCodeUserNotFound,
		"No user found. You need to be signed in.",
	)

	ErrNoUsersFound = apperror.NotFound(
		apperror.BusinessCodeNoUsersFound,
		"No users found with that name.",
	)

	ErrUsernameTaken = apperror.Conflict(
		apperror.BusinessCodeUsernameTaken,
		"This username is already taken.",
	)

	ErrUsernameReserved = apperror.Conflict(
		apperror.BusinessCodeUsernameReserved,
		"This username cannot be taken.",
	)

	ErrInvalidUsername = apperror.Validation(
		apperror.BusinessCodeInvalidUsername,
		"Username must be 3 to 13 letters, numbers, or underscores.",
	)

	ErrInvalidSearch = apperror.Validation(
		apperror.BusinessCodeInvalidSearch,
		"Search must be between 1 and 13 characters.",
	)
)

// UserService handles profiles, usernames, search and the follow graph.
type UserService struct {
	repo      ports.UserRepository
	profiles  ports.ProfileReader
	follows   *relation.Toggler
	logger    logger.Logger
	sanitizer *validator.PlainText
}

func NewUserService(
	repo ports.UserRepository,
	profiles ports.ProfileReader,
	edges relation.EdgeStore,
	tx transaction.Manager,
	events eventbus.Publisher,
	logger logger.Logger,
) *UserService {
	s := &UserService{
		repo:      repo,
		profiles:  profiles,
		logger:    logger,
		sanitizer: validator.NewPlainText(),
	}
	s.follows = relation.NewToggler(relation.Config{
		Kind:   relation.KindFollow,
		Lookup: s.followTargetExists,
	}, edges, tx, events, logger)
	return s
}

// ProvisionUser records a newly authenticated identity. Calling it again for
// the same identity returns the existing user.
func (s *UserService) ProvisionUser(ctx context.Context, externalID, email, imageURL string) (*domain.User, error) {
	if existing, err := s.repo.FindByExternalID(ctx, externalID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ports.ErrUserNotFound) {
		return nil, s.internal(ctx, err, "failed to load user")
	}

	user, err := domain.NewUser(externalID, email, imageURL)
	if err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ports.ErrUserExists) {
			// Lost a race with a parallel first sign-in.
			return s.repo.FindByExternalID(ctx, externalID)
		}
		return nil, s.internal(ctx, err, "failed to create user")
	}

	s.logger.Info(ctx, "user provisioned", "user_id", user.ID)
	return user, nil
}

// ResolveExternalID maps an identity-provider subject to the internal ID.
func (s *UserService) ResolveExternalID(ctx context.Context, externalID string) (uuid.UUID, error) {
	user, err := s.repo.FindByExternalID(ctx, externalID)
	if errors.Is(err, ports.ErrUserNotFound) {
		return uuid.Nil, ErrActorNotFound
	}
	if err != nil {
		return uuid.Nil, s.internal(ctx, err, "failed to resolve user")
	}
	return user.ID, nil
}

// GetUserData returns the actor's own profile, or nil when the actor has no
// record yet.
func (s *UserService) GetUserData(ctx context.Context, actorID uuid.UUID) (*domain.Profile, error) {
	user, err := s.repo.FindByID(ctx, actorID)
	if errors.Is(err, ports.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load user")
	}
	return s.loadProfile(ctx, user)
}

// GetProfile returns a user's public profile with posts newest first.
func (s *UserService) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	user, err := s.findByUsername(ctx, username, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return s.loadProfile(ctx, user)
}

// ToggleFollow follows the target when the actor does not follow them yet
// and unfollows otherwise. Following oneself is a no-op.
func (s *UserService) ToggleFollow(ctx context.Context, actorID uuid.UUID, targetUsername string) (relation.Outcome, error) {
	target, err := s.findByUsername(ctx, targetUsername, ErrFollowTargetNotFound)
	if err != nil {
		return "", err
	}
	return s.follows.Toggle(ctx, target.ID, actorID)
}

// IsFollowing reports whether the actor follows username.
func (s *UserService) IsFollowing(ctx context.Context, actorID uuid.UUID, username string) (bool, error) {
	target, err := s.findByUsername(ctx, username, ErrUserNotFound)
	if err != nil {
		return false, err
	}
	return s.follows.Exists(ctx, target.ID, actorID)
}

// SearchUsers finds users whose username contains substring. An empty
// result is reported as NotFound.
func (s *UserService) SearchUsers(ctx context.Context, substring string) ([]*domain.Profile, error) {
	substring = strings.TrimSpace(substring)
	if !validator.RuneLengthBetween(substring, 1, validator.MaxUsernameLength) {
		return nil, ErrInvalidSearch
	}

	users, err := s.repo.Search(ctx, substring, searchLimit)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to search users")
	}
	if len(users) == 0 {
		return nil, ErrNoUsersFound
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	connections, err := s.profiles.Connections(ctx, ids)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load connections")
	}

	results := make([]*domain.Profile, len(users))
	for i, u := range users {
		results[i] = &domain.Profile{User: u, Connections: connections[u.ID]}
	}
	return results, nil
}

// UpdateProfileParams carries the optional fields of a profile edit. Nil
// leaves the field untouched.
type UpdateProfileParams struct {
	Username *string
	Bio      *string
}

func (s *UserService) UpdateProfile(ctx context.Context, actorID uuid.UUID, params UpdateProfileParams) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, actorID)
	if errors.Is(err, ports.ErrUserNotFound) {
		return nil, ErrActorNotFound
	}
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load user")
	}

	if params.Username != nil && *params.Username != user.Username {
		if err := s.applyUsername(ctx, user, *params.Username); err != nil {
			return nil, err
		}
	}
	if params.Bio != nil {
		user.UpdateBio(s.sanitizer.Clean(*params.Bio))
	}

	return user, s.save(ctx, user)
}

// ChangeUsername sets the actor's username; this is how a new user finishes
// setup.
func (s *UserService) ChangeUsername(ctx context.Context, actorID uuid.UUID, username string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, actorID)
	if errors.Is(err, ports.ErrUserNotFound) {
		return nil, ErrActorNotFound
	}
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load user")
	}

	if err := s.applyUsername(ctx, user, username); err != nil {
		return nil, err
	}
	return user, s.save(ctx, user)
}

func (s *UserService) applyUsername(ctx context.Context, user *domain.User, username string) error {
	switch err := user.ChangeUsername(username); {
	case errors.Is(err, validator.ErrUsernameReserved):
		return ErrUsernameReserved
	case err != nil:
		return ErrInvalidUsername.WithDetails(err.Error())
	}

	owner, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, ports.ErrUserNotFound):
		return nil
	case err != nil:
		return s.internal(ctx, err, "failed to check username")
	case owner.ID != user.ID:
		return ErrUsernameTaken
	}
	return nil
}

func (s *UserService) save(ctx context.Context, user *domain.User) error {
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, ports.ErrUsernameTaken) {
			return ErrUsernameTaken
		}
		return s.internal(ctx, err, "failed to update user")
	}
	return nil
}

func (s *UserService) loadProfile(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	connections, err := s.profiles.Connections(ctx, []uuid.UUID{user.ID})
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load connections")
	}
	posts, err := s.profiles.PostsByOwner(ctx, user.ID)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load posts")
	}
	return &domain.Profile{User: user, Connections: connections[user.ID], Posts: posts}, nil
}

func (s *UserService) findByUsername(ctx context.Context, username string, notFound *apperror.AppError) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, ports.ErrUserNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, s.internal(ctx, err, "failed to load user")
	}
	return user, nil
}

func (s *UserService) followTargetExists(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ports.ErrUserNotFound) {
		return ErrFollowTargetNotFound
	}
	if err != nil {
		return s.internal(ctx, err, "failed to load user")
	}
	return nil
}

func (s *UserService) internal(ctx context.Context, err error, message string) error {
	s.logger.Error(ctx, message, "error", err)
	return apperror.Internal(err, message)
}
