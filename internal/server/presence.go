package server

import (
	"database/sql"

	"github.com/npezzotti/go-social/internal/types"
)

// broadcastPresence recomputes and pushes the roster to every live
// connection. Each viewer gets their own userlist and grouplist built from
// their follow graph, so the frames are per viewer rather than shared.
// Frames are full snapshots; a viewer that misses one is made consistent by
// the next broadcast. A failure building one viewer's roster is logged and
// does not stop the fan-out to the rest.
func (ms *MessagingServer) broadcastPresence() {
	clients := ms.registry.clients()
	online := ms.registry.snapshot()

	for _, c := range clients {
		if err := ms.pushRosterTo(c, online); err != nil {
			ms.log.Printf("failed to build roster for user %d: %v", c.user.Id, err)
		}
	}

	ms.stats.Incr(metricPresenceBroadcasts)
}

// PushRoster rebuilds and pushes the roster for a single user, if they are
// connected. Used after membership or follow-graph changes made over HTTP.
func (ms *MessagingServer) PushRoster(userId int) {
	c, ok := ms.registry.lookup(userId)
	if !ok {
		return
	}

	if err := ms.pushRosterTo(c, ms.registry.snapshot()); err != nil {
		ms.log.Printf("failed to build roster for user %d: %v", c.user.Id, err)
	}
}

func (ms *MessagingServer) pushRosterTo(c *Client, online []int) error {
	rows, err := ms.db.ListContacts(c.user.Id)
	if err != nil {
		return err
	}

	onlineSet := make(map[int]bool, len(online))
	for _, id := range online {
		onlineSet[id] = true
	}

	contacts := make([]types.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, types.Contact{
			User: types.User{
				Id:        row.Id,
				Username:  row.Username,
				AvatarUrl: row.AvatarUrl,
			},
			Online:      onlineSet[row.Id],
			LastMessage: preview(c.user.Id, row.LastSenderId, row.LastMessage, row.LastMessageTime),
		})
	}

	groupRows, err := ms.db.ListGroupsWithLastMessage(c.user.Id)
	if err != nil {
		return err
	}

	groups := make([]types.Group, 0, len(groupRows))
	for _, row := range groupRows {
		groups = append(groups, types.Group{
			Id:          row.Id,
			Name:        row.Name,
			Description: row.Description,
			CreatorId:   row.CreatorId,
			CreatedAt:   row.CreatedAt,
			LastMessage: preview(c.user.Id, row.LastSenderId, row.LastMessage, row.LastMessageTime),
		})
	}

	c.queueMessage(UserListFrame(online, contacts))
	c.queueMessage(GroupListFrame(groups))

	return nil
}

// preview builds the viewer-relative last-message decoration from the
// nullable columns of a roster row. Returns nil when no message exists.
func preview(viewerId int, senderId sql.NullInt64, text sql.NullString, ts sql.NullTime) *types.MessagePreview {
	if !text.Valid {
		return nil
	}

	direction := types.DirectionIncoming
	if senderId.Valid && int(senderId.Int64) == viewerId {
		direction = types.DirectionOutgoing
	}

	return &types.MessagePreview{
		Text:      text.String,
		Timestamp: ts.Time,
		Direction: direction,
	}
}
