package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
)

// ComponentAuditEvent is published after a reconciliation pass that
// actually wrote rows.
type ComponentAuditEvent struct {
	LineItemID    uuid.UUID `json:"line_item_id"`
	TreeVersionID uuid.UUID `json:"tree_version_id"`
	Added         int       `json:"added"`
	Removed       int       `json:"removed"`
	Modified      int       `json:"modified"`
	At            time.Time `json:"at"`
}

// AuditNotifier fans reconciliation summaries out to interested listeners.
// Publishing is best effort: a failed publish never fails the write that
// produced the event.
type AuditNotifier interface {
	ComponentsReconciled(ctx context.Context, ev ComponentAuditEvent)
}

const componentAuditChannel = "quotevault:component_audit"

type redisAuditNotifier struct {
	rdb     *redis.Client
	log     *logger.Logger
	channel string
}

func NewRedisAuditNotifier(rdb *redis.Client, baseLog *logger.Logger) AuditNotifier {
	return &redisAuditNotifier{
		rdb:     rdb,
		log:     baseLog.With("service", "AuditNotifier"),
		channel: componentAuditChannel,
	}
}

func (n *redisAuditNotifier) ComponentsReconciled(ctx context.Context, ev ComponentAuditEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.Warn("failed to encode audit event", "error", err)
		return
	}
	if err := n.rdb.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.log.Warn("failed to publish audit event",
			"channel", n.channel,
			"line_item_id", ev.LineItemID,
			"error", err)
	}
}

type nopAuditNotifier struct{}

// NewNopAuditNotifier returns a notifier that drops every event. Used when
// Redis is not configured.
func NewNopAuditNotifier() AuditNotifier {
	return nopAuditNotifier{}
}

func (nopAuditNotifier) ComponentsReconciled(context.Context, ComponentAuditEvent) {}
