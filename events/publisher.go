// Package events publishes domain events to Redis for other services (chat, push).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kindred_server/models"

	"github.com/redis/go-redis/v9"
)

// ChannelMatchCreated is the Redis channel match events are published on.
const ChannelMatchCreated = "EVENT_MATCH_CREATED"

// MatchCreatedEvent is the JSON payload published for each new match.
type MatchCreatedEvent struct {
	Type       string    `json:"type"`
	MatchID    string    `json:"matchId"`
	Profile1ID string    `json:"profile1Id"`
	Profile2ID string    `json:"profile2Id"`
	MatchScore float64   `json:"matchScore"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RedisPublisher publishes match events with PUBLISH.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a publisher on rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// NewMatchCreatedEvent builds the payload for m.
func NewMatchCreatedEvent(m models.Match) MatchCreatedEvent {
	return MatchCreatedEvent{
		Type:       ChannelMatchCreated,
		MatchID:    m.ID,
		Profile1ID: m.Profile1ID,
		Profile2ID: m.Profile2ID,
		MatchScore: m.MatchScore,
		CreatedAt:  m.CreatedAt,
	}
}

// MatchCreated implements services.MatchNotifier.
func (p *RedisPublisher) MatchCreated(ctx context.Context, m models.Match) error {
	payload, err := json.Marshal(NewMatchCreatedEvent(m))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ChannelMatchCreated, err)
	}
	if err := p.rdb.Publish(ctx, ChannelMatchCreated, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ChannelMatchCreated, err)
	}
	return nil
}
