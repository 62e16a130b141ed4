package server

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/go-social/internal/database"
	"github.com/npezzotti/go-social/internal/stats"
	"github.com/npezzotti/go-social/internal/types"
)

// Metric names registered with the stats provider.
const (
	metricActiveConnections       = "NumActiveConnections"
	metricDirectMessagesRouted    = "DirectMessagesRouted"
	metricGroupMessagesRouted     = "GroupMessagesRouted"
	metricNotificationsDispatched = "NotificationsDispatched"
	metricPresenceBroadcasts      = "PresenceBroadcasts"
)

// MessagingServer owns the connection registry and drives message routing,
// presence broadcasting and notification dispatch over it.
type MessagingServer struct {
	log      *log.Logger
	db       database.SocialRepository
	stats    stats.StatsProvider
	registry *registry
}

func NewMessagingServer(logger *log.Logger, db database.SocialRepository, su stats.StatsProvider) (*MessagingServer, error) {
	ms := &MessagingServer{
		log:      logger,
		db:       db,
		stats:    su,
		registry: newRegistry(),
	}

	for _, name := range []string{
		metricActiveConnections,
		metricDirectMessagesRouted,
		metricGroupMessagesRouted,
		metricNotificationsDispatched,
		metricPresenceBroadcasts,
	} {
		su.RegisterMetric(name)
	}

	return ms, nil
}

// Accept takes ownership of an upgraded connection for the given user,
// registers it and starts its read and write loops. Any prior connection for
// the same user is closed and replaced.
func (ms *MessagingServer) Accept(user types.User, conn *websocket.Conn) error {
	c, err := NewClient(user, conn, ms, ms.log)
	if err != nil {
		return err
	}

	if prev := ms.registry.register(c); prev != nil {
		ms.log.Printf("replacing connection %s for user %d with %s", prev.sessionId, user.Id, c.sessionId)
		prev.close()
	} else {
		ms.stats.Incr(metricActiveConnections)
	}

	go c.Write()
	go c.Read()

	ms.log.Printf("user %d connected with session %s", user.Id, c.sessionId)
	ms.broadcastPresence()

	return nil
}

// dropClient removes c from the registry if it is still the registered
// connection for its user. Presence is rebroadcast only when the mapping
// actually changed; a stale close from a replaced connection is a no-op.
func (ms *MessagingServer) dropClient(c *Client) {
	if ms.registry.unregister(c) {
		ms.stats.Decr(metricActiveConnections)
		ms.log.Printf("user %d disconnected, session %s", c.user.Id, c.sessionId)
		ms.broadcastPresence()
	}
}

// Shutdown closes every live connection and waits for the registry to drain
// or the context to expire.
func (ms *MessagingServer) Shutdown(ctx context.Context) error {
	ms.log.Println("shutting down messaging server")
	for _, c := range ms.registry.clients() {
		c.close()
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if len(ms.registry.snapshot()) == 0 {
				return nil
			}
		}
	}
}
