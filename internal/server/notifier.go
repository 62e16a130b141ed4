package server

import (
	"database/sql"
	"errors"

	"github.com/npezzotti/go-social/internal/database"
	"github.com/npezzotti/go-social/internal/types"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotActionable        = errors.New("notification cannot be acted on")
)

// Dispatch persists a notification and pushes the recipient's full
// notification list to their live connection, if any. The stored row is
// returned so HTTP callers can echo it.
func (ms *MessagingServer) Dispatch(params database.CreateNotificationParams) (types.Notification, error) {
	row, err := ms.db.CreateNotification(params)
	if err != nil {
		return types.Notification{}, err
	}

	ms.stats.Incr(metricNotificationsDispatched)
	ms.pushNotifications(params.UserId)

	return notificationFromRow(row), nil
}

// UpdateNotificationStatus resolves an actionable notification to accepted or
// rejected on behalf of userId. Only the recipient can act; anyone else sees
// the notification as not found. Accepting a group invite or join request
// also adds the joining user to the group; a failure there is logged and the
// accepted status stands, since the notification decision itself already
// committed.
func (ms *MessagingServer) UpdateNotificationStatus(id, userId int, status string) (types.Notification, error) {
	row, err := ms.db.GetNotification(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Notification{}, ErrNotificationNotFound
		}
		return types.Notification{}, err
	}

	if row.UserId != userId {
		return types.Notification{}, ErrNotificationNotFound
	}

	if row.Status != types.StatusUnread || !types.Actionable(row.Type) {
		return types.Notification{}, ErrNotActionable
	}

	if err := ms.db.UpdateNotificationStatus(id, status); err != nil {
		return types.Notification{}, err
	}
	row.Status = status

	if status == types.StatusAccepted && row.GroupId.Valid {
		groupId := int(row.GroupId.Int64)

		// a group invite admits the invited user, a join request admits
		// the requester
		var joiner int
		switch row.Type {
		case types.NotificationGroupInvite:
			joiner = row.UserId
		case types.NotificationJoinRequest:
			joiner = row.InviterId
		}

		if joiner != 0 {
			if err := ms.db.AddGroupMember(groupId, joiner); err != nil {
				ms.log.Printf("failed to add user %d to group %d: %v", joiner, groupId, err)
			} else {
				ms.PushRoster(joiner)
			}
		}
	}

	ms.pushNotifications(row.UserId)

	return notificationFromRow(row), nil
}

// MarkAllRead flips the read flag on all of a user's notifications. The flag
// is independent of status; unread actionable notifications stay actionable.
func (ms *MessagingServer) MarkAllRead(userId int) error {
	if err := ms.db.MarkNotificationsRead(userId); err != nil {
		return err
	}

	ms.pushNotifications(userId)
	return nil
}

// notificationFromRow converts a stored notification to its wire shape.
func notificationFromRow(row database.Notification) types.Notification {
	n := types.Notification{
		Id:        row.Id,
		UserId:    row.UserId,
		InviterId: row.InviterId,
		Type:      row.Type,
		Message:   row.Message,
		Status:    row.Status,
		Read:      row.Read,
		CreatedAt: row.CreatedAt,
	}
	if row.GroupId.Valid {
		gid := int(row.GroupId.Int64)
		n.GroupId = &gid
	}
	if row.EventId.Valid {
		eid := int(row.EventId.Int64)
		n.EventId = &eid
	}
	return n
}

// pushNotifications sends the user's full notification list to their live
// connection. Best effort; offline users fetch the list over HTTP.
func (ms *MessagingServer) pushNotifications(userId int) {
	c, ok := ms.registry.lookup(userId)
	if !ok {
		return
	}

	rows, err := ms.db.ListNotifications(userId)
	if err != nil {
		ms.log.Printf("failed to list notifications for user %d: %v", userId, err)
		return
	}

	notifications := make([]types.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, notificationFromRow(row))
	}

	c.queueMessage(NotificationsFrame(notifications))
}
