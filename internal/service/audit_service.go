package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/sales-dashboard/internal/events"
)

// AuditService writes an audit log line for every domain event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handle)
	a.dispatcher.Subscribe(events.EventStaffLoggedIn, a.handle)
	a.dispatcher.Subscribe(events.EventPlanSubmitted, a.handle)
	a.dispatcher.Subscribe(events.EventPortfolioRefreshed, a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("staff_id", event.StaffID),
		zap.Any("payload", event.Payload),
	)
	return nil
}
