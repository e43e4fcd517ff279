package worker

import (
	"github.com/spec-kit/crm-service/internal/service"
)

// StartNotificationWorker registers follow-up notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
