// Package directory resolves free-text agent identifiers against the
// guild member list. Resolution never hard-fails: unresolved input falls
// back to the literal text.
package directory

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/config"
	"github.com/DavidK2709/dcbot/internal/platform"
)

const memberCacheKey = "guild:members"

var (
	numericInput  = regexp.MustCompile(`^\d+$`)
	bracketPrefix = regexp.MustCompile(`^\[(\d+)\]\s*`)
)

// Resolved is one assignment target: a renderable mention plus the
// display name; both equal the raw input when resolution failed.
type Resolved struct {
	Mention  string
	Nickname string
}

// Directory looks up guild members, optionally through a Redis cache.
type Directory struct {
	client platform.Client
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New constructs a Directory. cache may be nil to disable caching.
func New(client platform.Client, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Directory {
	return &Directory{client: client, cache: cache, ttl: ttl, logger: logger}
}

// NewRedis connects the member cache using the provided configuration.
// An unreachable Redis is a warning; the directory degrades to direct
// platform fetches.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return client
}

// ResolveAll resolves a delimiter-separated identifier list.
func (d *Directory) ResolveAll(ctx context.Context, raw string) []Resolved {
	parts := strings.Split(raw, ";")
	result := make([]Resolved, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, d.Resolve(ctx, trimmed))
	}
	return result
}

// Resolve matches one identifier: numeric input (zero-padded to two
// digits) against a bracketed service-number prefix, otherwise an exact
// case-insensitive display-name match with the prefix stripped.
func (d *Directory) Resolve(ctx context.Context, input string) Resolved {
	clean := strings.TrimSpace(input)
	fallback := Resolved{Mention: clean, Nickname: clean}

	members, err := d.members(ctx)
	if err != nil {
		d.logger.Warn("member fetch failed, keeping literal input", zap.Error(err))
		return fallback
	}

	if numericInput.MatchString(clean) {
		padded := clean
		if len(padded) < 2 {
			padded = "0" + padded
		}
		for _, member := range members {
			match := bracketPrefix.FindStringSubmatch(member.DisplayName)
			if match != nil && match[1] == padded {
				return Resolved{Mention: "<@" + member.UserID + ">", Nickname: member.DisplayName}
			}
		}
		return fallback
	}

	for _, member := range members {
		stripped := bracketPrefix.ReplaceAllString(member.DisplayName, "")
		if strings.EqualFold(stripped, clean) {
			return Resolved{Mention: "<@" + member.UserID + ">", Nickname: member.DisplayName}
		}
	}
	return fallback
}

func (d *Directory) members(ctx context.Context) ([]platform.Member, error) {
	if d.cache != nil {
		if raw, err := d.cache.Get(ctx, memberCacheKey).Result(); err == nil {
			var cached []platform.Member
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	members, err := d.client.FetchMembers(ctx)
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		if raw, err := json.Marshal(members); err == nil {
			if err := d.cache.Set(ctx, memberCacheKey, raw, d.ttl).Err(); err != nil {
				d.logger.Warn("failed to cache member list", zap.Error(err))
			}
		}
	}
	return members, nil
}
