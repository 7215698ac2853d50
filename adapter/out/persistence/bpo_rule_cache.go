package persistence

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
	"bpo_server/pkg/logger"
)

const activeRulesKey = "routing:rules:active"

// RuleCache is a read-through Redis cache in front of a RoutingRuleRepository.
// Only the hot-path ListActive is cached; admin reads go straight through.
// Any Redis failure degrades to the inner repository.
type RuleCache struct {
	inner out.RoutingRuleRepository
	redis *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// NewRuleCache wraps a rule repository with Redis caching. ttl bounds cache
// staleness between rule mutations on other instances (default 5m).
func NewRuleCache(inner out.RoutingRuleRepository, client *redis.Client, ttl time.Duration) *RuleCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RuleCache{
		inner: inner,
		redis: client,
		ttl:   ttl,
		log:   logger.Default().WithField("component", "rule_cache"),
	}
}

// ListActive serves active rules from cache when possible.
func (c *RuleCache) ListActive(ctx context.Context) ([]*domain.RoutingRule, error) {
	if cached, err := c.redis.Get(ctx, activeRulesKey).Bytes(); err == nil {
		var rules []*domain.RoutingRule
		if err := json.Unmarshal(cached, &rules); err == nil {
			return rules, nil
		}
		// Corrupt entry; drop it and fall through.
		c.redis.Del(ctx, activeRulesKey)
	} else if err != redis.Nil {
		c.log.WithError(err).Warn("Rule cache read failed, falling back to database")
	}

	rules, err := c.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rules); err == nil {
		if err := c.redis.Set(ctx, activeRulesKey, data, c.ttl).Err(); err != nil {
			c.log.WithError(err).Warn("Rule cache write failed")
		}
	}

	return rules, nil
}

func (c *RuleCache) List(ctx context.Context) ([]*domain.RoutingRule, error) {
	return c.inner.List(ctx)
}

func (c *RuleCache) GetByID(ctx context.Context, id int64) (*domain.RoutingRule, error) {
	return c.inner.GetByID(ctx, id)
}

func (c *RuleCache) Create(ctx context.Context, rule *domain.RoutingRule) error {
	if err := c.inner.Create(ctx, rule); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *RuleCache) Update(ctx context.Context, rule *domain.RoutingRule) error {
	if err := c.inner.Update(ctx, rule); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *RuleCache) Delete(ctx context.Context, id int64) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// invalidate drops the cached active set after a mutation. A failed delete
// only extends staleness until the TTL expires.
func (c *RuleCache) invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, activeRulesKey).Err(); err != nil {
		c.log.WithError(err).Warn("Rule cache invalidation failed")
	}
}

// Ensure RuleCache implements out.RoutingRuleRepository
var _ out.RoutingRuleRepository = (*RuleCache)(nil)
