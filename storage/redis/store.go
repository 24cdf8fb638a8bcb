// Package redis provides a Redis-backed session store. Keys share the
// session namespace prefix; change notification rides a pub/sub channel
// scoped to the same namespace, tagged with the writer's origin so
// subscribers can skip their own writes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/lumenlms/sessionkit/core/logger"
	"github.com/lumenlms/sessionkit/core/session"
)

const (
	keyToken       = "token"
	keyRole        = "role"
	keyPermissions = "permissions"
	keyUser        = "user"
	keyTenant      = "tenant"
	channelSuffix  = "events"
)

// Store implements session.Store over a Redis client.
type Store struct {
	client goredis.UniversalClient
	ns     string
	origin string
	log    *slog.Logger
}

// Option is a functional option for configuring the Store.
type Option func(*Store)

// WithLogger configures structured logging. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Store over the given Redis client and key namespace.
func New(client goredis.UniversalClient, namespace string, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if namespace == "" {
		return nil, errors.New("namespace is required")
	}

	s := &Store{
		client: client,
		ns:     namespace,
		origin: uuid.NewString(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Origin returns this writer's origin ID.
func (s *Store) Origin() string {
	return s.origin
}

// changeMessage is the payload published on the namespace channel.
type changeMessage struct {
	Origin string `json:"origin"`
}

func (s *Store) Load(ctx context.Context) (session.Snapshot, error) {
	vals, err := s.client.MGet(ctx,
		s.key(keyToken), s.key(keyRole), s.key(keyPermissions), s.key(keyUser), s.key(keyTenant),
	).Result()
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("mget session keys: %w", err)
	}

	token := asString(vals[0])
	if token == "" {
		return session.Snapshot{}, session.ErrNoSession
	}

	snap := session.Snapshot{
		Token: token,
		Role:  asString(vals[1]),
	}
	if err := decodeJSON(asString(vals[2]), &snap.Permissions); err != nil {
		return session.Snapshot{}, fmt.Errorf("decode permissions: %w", err)
	}
	if err := decodeJSON(asString(vals[3]), &snap.User); err != nil {
		return session.Snapshot{}, fmt.Errorf("decode user: %w", err)
	}
	if err := decodeJSON(asString(vals[4]), &snap.Tenant); err != nil {
		return session.Snapshot{}, fmt.Errorf("decode tenant: %w", err)
	}
	return snap, nil
}

func (s *Store) Save(ctx context.Context, snap session.Snapshot) error {
	perms, err := json.Marshal(snap.Permissions)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	user, err := json.Marshal(snap.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	tenant, err := json.Marshal(snap.Tenant)
	if err != nil {
		return fmt.Errorf("encode tenant: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(keyToken), snap.Token, 0)
	pipe.Set(ctx, s.key(keyRole), snap.Role, 0)
	pipe.Set(ctx, s.key(keyPermissions), perms, 0)
	pipe.Set(ctx, s.key(keyUser), user, 0)
	pipe.Set(ctx, s.key(keyTenant), tenant, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session keys: %w", err)
	}

	s.notify(ctx)
	return nil
}

func (s *Store) SavePermissions(ctx context.Context, permissions []string) error {
	perms, err := json.Marshal(permissions)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	if err := s.client.Set(ctx, s.key(keyPermissions), perms, 0).Err(); err != nil {
		return fmt.Errorf("save permissions: %w", err)
	}

	s.notify(ctx)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	err := s.client.Del(ctx,
		s.key(keyToken), s.key(keyRole), s.key(keyPermissions), s.key(keyUser), s.key(keyTenant),
	).Err()
	if err != nil {
		return fmt.Errorf("delete session keys: %w", err)
	}

	s.notify(ctx)
	return nil
}

// Watch emits events published by other writers of the same namespace.
func (s *Store) Watch(ctx context.Context) (<-chan session.Event, error) {
	pubsub := s.client.Subscribe(ctx, s.channel())
	// Force the subscription to be established before returning so
	// callers never miss events published right after Watch.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close() //nolint:errcheck
		return nil, fmt.Errorf("subscribe %s: %w", s.channel(), err)
	}

	out := make(chan session.Event, 1)

	go func() {
		defer close(out)
		defer pubsub.Close() //nolint:errcheck

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change changeMessage
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					s.log.Error("malformed session change message",
						logger.Component("redisstore"), logger.Error(err))
					continue
				}
				if change.Origin == s.origin {
					continue
				}
				select {
				case out <- session.Event{Origin: change.Origin}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (s *Store) notify(ctx context.Context) {
	payload, err := json.Marshal(changeMessage{Origin: s.origin})
	if err != nil {
		return
	}
	if err := s.client.Publish(ctx, s.channel(), payload).Err(); err != nil {
		s.log.Error("failed to publish session change",
			logger.Component("redisstore"), logger.Error(err))
	}
}

func (s *Store) key(name string) string {
	return s.ns + "_" + name
}

func (s *Store) channel() string {
	return s.ns + "_" + channelSuffix
}

func asString(v any) string {
	str, ok := v.(string)
	if !ok {
		return ""
	}
	return str
}

func decodeJSON(raw string, out any) error {
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}
