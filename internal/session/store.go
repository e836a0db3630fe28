// Package session keeps submitted profiles in Redis for the length of a
// session. Nothing outlives the TTL.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"niche-finder/internal/common/config"
	apperrors "niche-finder/internal/common/errors"
	"niche-finder/internal/common/logger"
	"niche-finder/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL       = 24 * time.Hour
	DefaultKeyPrefix = "niche:session:"
)

type Store struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

// NewStore creates a Redis-backed session store.
func NewStore(client *redis.Client, cfg config.SessionConfig, log logger.Logger) *Store {
	ttl := cfg.TTLDuration()
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Store{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "session-store"}),
	}
}

// TTL is the expiry applied on every save.
func (s *Store) TTL() time.Duration { return s.ttl }

func (s *Store) key(id string) string { return s.prefix + id }

// Save stores profile under a fresh session id.
func (s *Store) Save(ctx context.Context, profile *models.UserProfile) (string, error) {
	if profile == nil {
		return "", apperrors.NewProfileInvalidError("profile is nil")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return "", apperrors.NewProfileInvalidError(err.Error())
	}

	id := uuid.NewString()
	ok, err := s.client.SetNX(ctx, s.key(id), string(data), s.ttl).Result()
	if err != nil {
		return "", apperrors.NewSessionStoreFailedError("save", err)
	}
	if !ok {
		return "", apperrors.NewSessionStoreFailedError("save", errors.New("session id collision"))
	}

	s.logger.Debug("session saved", map[string]interface{}{"sessionId": id, "ttl": s.ttl.String()})
	return id, nil
}

// Load returns the profile stored for id.
func (s *Store) Load(ctx context.Context, id string) (*models.UserProfile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewProfileNotFoundError(id)
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NewProfileNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewSessionStoreFailedError("load", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, apperrors.NewProfileInvalidError(err.Error()).WithMetadata("sessionId", id)
	}
	return &profile, nil
}

// Replace swaps the whole profile for an existing session and restarts its TTL.
func (s *Store) Replace(ctx context.Context, id string, profile *models.UserProfile) error {
	if profile == nil {
		return apperrors.NewProfileInvalidError("profile is nil")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewSessionExpiredError(id)
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return apperrors.NewProfileInvalidError(err.Error())
	}

	ok, err := s.client.SetXX(ctx, s.key(id), string(data), s.ttl).Result()
	if err != nil {
		return apperrors.NewSessionStoreFailedError("replace", err)
	}
	if !ok {
		return apperrors.NewSessionExpiredError(id)
	}

	s.logger.Debug("session replaced", map[string]interface{}{"sessionId": id})
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return apperrors.NewSessionStoreFailedError("delete", err)
	}
	return nil
}

// Resolve returns inline when it is set, otherwise the profile stored for
// sessionID. Workers accept either form.
func (s *Store) Resolve(ctx context.Context, sessionID string, inline *models.UserProfile) (*models.UserProfile, error) {
	if inline != nil {
		return inline, nil
	}
	if sessionID == "" {
		return nil, apperrors.NewProfileInvalidError("either profile or sessionId is required")
	}
	if s == nil {
		return nil, apperrors.NewProfileNotFoundError(sessionID)
	}
	return s.Load(ctx, sessionID)
}
