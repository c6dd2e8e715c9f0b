package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
)

const keyPrefix = "ticket:"

// TicketCache fronts ticket-by-id reads with redis. Entries are invalidated
// on every mutation; readers treat them as eventually-consistent snapshots.
// A nil cache is valid and behaves as a permanent miss.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTicketCache creates a cache over the given client.
func NewTicketCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *TicketCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TicketCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached ticket, or false on a miss.
func (c *TicketCache) Get(ctx context.Context, id string) (*domain.Ticket, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("ticket cache read failed", zap.String("ticket_id", id), zap.Error(err))
		}
		return nil, false
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		c.logger.Warn("ticket cache entry corrupt", zap.String("ticket_id", id), zap.Error(err))
		return nil, false
	}
	return &ticket, true
}

// Set stores the ticket with the configured TTL.
func (c *TicketCache) Set(ctx context.Context, ticket *domain.Ticket) {
	if c == nil || c.client == nil || ticket == nil {
		return
	}
	raw, err := json.Marshal(ticket)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+ticket.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("ticket cache write failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
}

// Invalidate drops the entry for a ticket id.
func (c *TicketCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		c.logger.Warn("ticket cache invalidation failed", zap.String("ticket_id", id), zap.Error(err))
	}
}
