package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	fieldToken       = "token"
	fieldRole        = "role"
	fieldTenant      = "tenant"
	fieldPermissions = "perms"
)

// Persistence mirrors the session snapshot into a single Redis hash so a
// restarted client can resume. Only the token, role, tenant slug, and
// permission list are stored; Clear removes all of them, including the
// locally cached organization identifier and permission snapshot.
type Persistence struct {
	rdb    *redis.Client
	prefix string
	ttl    int64
}

// NewPersistence creates a persistence adapter. prefix namespaces the Redis
// key; the default "ap" is used when empty.
func NewPersistence(rdb *redis.Client, prefix string) *Persistence {
	if prefix == "" {
		prefix = "ap"
	}
	return &Persistence{rdb: rdb, prefix: prefix}
}

func (p *Persistence) key() string {
	return p.prefix + ":session"
}

// Save writes the snapshot. Unauthenticated snapshots are stored as a clear.
func (p *Persistence) Save(ctx context.Context, snap Snapshot) error {
	if !snap.Authenticated() {
		return p.Clear(ctx)
	}

	perms, err := json.Marshal(snap.Permissions)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}

	err = p.rdb.HSet(ctx, p.key(),
		fieldToken, snap.AccessToken,
		fieldRole, string(snap.Role),
		fieldTenant, snap.TenantSlug,
		fieldPermissions, string(perms),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Load reads the persisted snapshot. The second return value is false when
// nothing is persisted.
func (p *Persistence) Load(ctx context.Context) (Snapshot, bool, error) {
	fields, err := p.rdb.HGetAll(ctx, p.key()).Result()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 || fields[fieldToken] == "" {
		return Snapshot{}, false, nil
	}

	snap := Snapshot{
		AccessToken: fields[fieldToken],
		Role:        Role(fields[fieldRole]),
		TenantSlug:  fields[fieldTenant],
	}
	if raw := fields[fieldPermissions]; raw != "" {
		var perms []string
		if err := json.Unmarshal([]byte(raw), &perms); err != nil {
			return Snapshot{}, false, fmt.Errorf("decode permissions: %w", err)
		}
		snap.Permissions = dedupe(perms)
	}
	return snap, true, nil
}

// Clear removes the persisted snapshot. Idempotent.
func (p *Persistence) Clear(ctx context.Context) error {
	if err := p.rdb.Del(ctx, p.key()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
