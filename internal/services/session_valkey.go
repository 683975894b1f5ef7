package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"alfredoptarigan/interview-prep/internal/models"
)

const (
	valkeySessionPrefix = "interview:session:"
	valkeyLockPrefix    = "interview:lock:"
	valkeyLockRetry     = 50 * time.Millisecond
)

// unlockScript deletes the lock only while it still holds our token, so an
// expired lease taken over by another replica is left alone.
var unlockScript = valkey.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ValkeySessionStore keeps sessions as JSON values in Valkey so several API
// replicas can share them. It is a cache like the memory store: entries carry
// the configured TTL and nothing is promised across a Valkey restart.
type ValkeySessionStore struct {
	client    valkey.Client
	ttl       time.Duration
	lockLease time.Duration
}

// NewValkeySessionStore connects to Valkey. lockLease bounds how long a turn
// lock survives a replica that dies while holding it.
func NewValkeySessionStore(ctx context.Context, address, password string, ttl, lockLease time.Duration) (*ValkeySessionStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		Password:    password,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create Valkey client: %w", err)
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping Valkey: %w", err)
	}

	if lockLease <= 0 {
		lockLease = 2 * time.Minute
	}

	return &ValkeySessionStore{client: client, ttl: ttl, lockLease: lockLease}, nil
}

func (v *ValkeySessionStore) Close() {
	v.client.Close()
}

func (v *ValkeySessionStore) ttlSeconds() int64 {
	if secs := int64(v.ttl / time.Second); secs > 0 {
		return secs
	}
	return 1
}

// Create implements SessionStore.
func (v *ValkeySessionStore) Create(ctx context.Context, session *models.Session) error {
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	cmd := v.client.B().Set().Key(valkeySessionPrefix + session.ID).Value(string(payload)).Nx()
	var res valkey.ValkeyResult
	if v.ttl > 0 {
		res = v.client.Do(ctx, cmd.ExSeconds(v.ttlSeconds()).Build())
	} else {
		res = v.client.Do(ctx, cmd.Build())
	}

	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return fmt.Errorf("session %s already exists", session.ID)
		}
		return fmt.Errorf("unable to store session %s: %w", session.ID, err)
	}

	return nil
}

// Get implements SessionStore.
func (v *ValkeySessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := v.client.Do(ctx, v.client.B().Get().Key(valkeySessionPrefix+id).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("unable to load session %s: %w", id, err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}

	return &session, nil
}

// Update implements SessionStore. Only existing keys are overwritten; the TTL is
// refreshed on every write.
func (v *ValkeySessionStore) Update(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	cmd := v.client.B().Set().Key(valkeySessionPrefix + session.ID).Value(string(payload)).Xx()
	var res valkey.ValkeyResult
	if v.ttl > 0 {
		res = v.client.Do(ctx, cmd.ExSeconds(v.ttlSeconds()).Build())
	} else {
		res = v.client.Do(ctx, cmd.Build())
	}

	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("unable to update session %s: %w", session.ID, err)
	}

	return nil
}

// Delete implements SessionStore.
func (v *ValkeySessionStore) Delete(ctx context.Context, id string) error {
	if err := v.client.Do(ctx, v.client.B().Del().Key(valkeySessionPrefix+id).Build()).Error(); err != nil {
		return fmt.Errorf("unable to delete session %s: %w", id, err)
	}
	return nil
}

// Lock implements SessionLocker with SET NX PX on a per-session key. It polls
// until the key is free or ctx is done.
func (v *ValkeySessionStore) Lock(ctx context.Context, id string) (func(), error) {
	key := valkeyLockPrefix + id
	token := uuid.NewString()

	for {
		err := v.client.Do(ctx, v.client.B().Set().Key(key).Value(token).Nx().Px(v.lockLease).Build()).Error()
		if err == nil {
			break
		}
		if !valkey.IsValkeyNil(err) {
			return nil, fmt.Errorf("unable to lock session %s: %w", id, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("unable to lock session %s: %w", id, ctx.Err())
		case <-time.After(valkeyLockRetry):
		}
	}

	return func() {
		release, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := unlockScript.Exec(release, v.client, []string{key}, []string{token}).Error(); err != nil {
			log.Printf("⚠️  Failed to release lock for session %s: %v\n", id, err)
		}
	}, nil
}
