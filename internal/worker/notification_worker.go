package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/persistence"
	"github.com/spec-kit/employee-service/internal/service"
)

// StartNotificationWorker registers notification handlers on dispatcher. When
// redis is available, events are also published to channel.
func StartNotificationWorker(dispatcher events.Dispatcher, redis *persistence.Redis, channel string, logger *zap.Logger) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}

	var sink events.EventHandler
	if redis != nil && redis.Client != nil {
		sink = events.NewRedisPublisher(redis.Client, channel, redis.Timeout).Handle
		logger.Info("employee events fan out to redis", zap.String("channel", channel))
	}

	notifications := service.NewNotificationService(dispatcher, logger, sink)
	notifications.RegisterHandlers()
	return notifications
}
