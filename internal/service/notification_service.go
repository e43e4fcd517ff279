package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/persistence"
)

// NotificationService reacts to domain events: every follow-up transition
// is logged and enqueued onto the Redis reminder list for external
// delivery workers.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	queue      *persistence.Redis
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, queue *persistence.Redis, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		queue:      queue,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCustomerCreated, n.handleCustomerCreated)
	n.dispatcher.Subscribe(events.EventFollowUpScheduled, n.handleFollowUpChanged)
	n.dispatcher.Subscribe(events.EventFollowUpRescheduled, n.handleFollowUpChanged)
	n.dispatcher.Subscribe(events.EventFollowUpCleared, n.handleFollowUpChanged)
	n.dispatcher.Subscribe(events.EventFollowUpCompleted, n.handleFollowUpChanged)
}

func (n *NotificationService) handleCustomerCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CustomerCreated",
		zap.String("customer_id", event.CustomerID),
		zap.String("actor", event.Actor.SubjectID))
	return nil
}

func (n *NotificationService) handleFollowUpChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("FollowUpChanged",
		zap.String("customer_id", event.CustomerID),
		zap.String("event_type", string(event.Type)),
		zap.String("actor", event.Actor.SubjectID))

	n.enqueueReminder(ctx, event)
	n.sendWebhookStub(event)
	return nil
}

func (n *NotificationService) enqueueReminder(ctx context.Context, event events.Event) {
	if n.queue == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("marshal reminder payload", zap.Error(err))
		return
	}
	if err := n.queue.Enqueue(ctx, n.cfg.ReminderQueue, payload); err != nil {
		// delivery is best-effort; the audit trail is the source of truth
		n.logger.Warn("enqueue reminder", zap.Error(err))
	}
}

func (n *NotificationService) sendWebhookStub(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("customer_id", event.CustomerID),
		zap.String("event_type", string(event.Type)))
}
