package server

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/npezzotti/go-social/internal/database"
	"github.com/npezzotti/go-social/internal/stats"
	"github.com/npezzotti/go-social/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDispatch(t *testing.T) {
	params := database.CreateNotificationParams{
		UserId:    2,
		InviterId: 1,
		Type:      types.NotificationFollowRequest,
		Message:   "alice wants to follow you",
	}
	row := database.Notification{
		Id:        10,
		UserId:    2,
		InviterId: 1,
		Type:      types.NotificationFollowRequest,
		Message:   "alice wants to follow you",
		Status:    types.StatusUnread,
	}

	t.Run("pushes list to online recipient", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		recipient := newTestClient(t, ms, types.User{Id: 2, Username: "bob"})
		ms.registry.register(recipient)

		db.On("CreateNotification", params).Return(row, nil).Once()
		db.On("ListNotifications", 2).Return([]database.Notification{row}, nil).Once()
		su.On("Incr", "NotificationsDispatched").Once()

		n, err := ms.Dispatch(params)
		assert.NoError(t, err, "expected no error dispatching notification")
		assert.Equal(t, row.Id, n.Id, "expected stored notification to be returned")
		assert.Equal(t, types.StatusUnread, n.Status, "expected new notification to be unread")
		assert.False(t, n.Read, "expected new notification to be unread")

		frames := drainFrames(recipient)
		assert.Len(t, frames, 1, "expected a notifications frame")
		assert.Equal(t, FrameNotifications, frames[0].Type, "expected a notifications-list frame")
		assert.Len(t, frames[0].Notifications, 1, "expected the full notification list")
	})

	t.Run("persists for offline recipient", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)

		db.On("CreateNotification", params).Return(row, nil).Once()
		su.On("Incr", "NotificationsDispatched").Once()

		n, err := ms.Dispatch(params)
		assert.NoError(t, err, "expected no error dispatching to offline recipient")
		assert.Equal(t, row.Id, n.Id, "expected stored notification to be returned")
	})

	t.Run("returns persistence error", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)

		db.On("CreateNotification", params).Return(database.Notification{}, errors.New("db error")).Once()

		_, err := ms.Dispatch(params)
		assert.Error(t, err, "expected persistence error to be returned")
	})
}

func TestUpdateNotificationStatus(t *testing.T) {
	groupId := int64(5)

	t.Run("not found", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		db.On("GetNotification", 10).Return(database.Notification{}, sql.ErrNoRows).Once()

		_, err := ms.UpdateNotificationStatus(10, 2, types.StatusAccepted)
		assert.ErrorIs(t, err, ErrNotificationNotFound, "expected not found error")
	})

	t.Run("not found for wrong user", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		db.On("GetNotification", 10).Return(database.Notification{
			Id: 10, UserId: 2, Type: types.NotificationFollowRequest, Status: types.StatusUnread,
		}, nil).Once()

		_, err := ms.UpdateNotificationStatus(10, 3, types.StatusAccepted)
		assert.ErrorIs(t, err, ErrNotificationNotFound, "expected another user's notification to be hidden")
	})

	t.Run("already resolved", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		db.On("GetNotification", 10).Return(database.Notification{
			Id: 10, UserId: 2, Type: types.NotificationFollowRequest, Status: types.StatusAccepted,
		}, nil).Once()

		_, err := ms.UpdateNotificationStatus(10, 2, types.StatusRejected)
		assert.ErrorIs(t, err, ErrNotActionable, "expected resolved notification to not be actionable")
	})

	t.Run("informational type is not actionable", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		db.On("GetNotification", 10).Return(database.Notification{
			Id: 10, UserId: 2, Type: types.NotificationEventInvite, Status: types.StatusUnread,
		}, nil).Once()

		_, err := ms.UpdateNotificationStatus(10, 2, types.StatusAccepted)
		assert.ErrorIs(t, err, ErrNotActionable, "expected event invite to not be actionable")
	})

	t.Run("accepted group invite joins the recipient", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		db.On("GetNotification", 10).Return(database.Notification{
			Id: 10, UserId: 2, InviterId: 1,
			GroupId: sql.NullInt64{Int64: groupId, Valid: true},
			Type:    types.NotificationGroupInvite, Status: types.StatusUnread,
		}, nil).Once()
		db.On("UpdateNotificationStatus", 10, types.StatusAccepted).Return(nil).Once()
		db.On("AddGroupMember", 5, 2).Return(nil).Once()

		n, err := ms.UpdateNotificationStatus(10, 2, types.StatusAccepted)
		assert.NoError(t, err, "expected no error accepting group invite")
		assert.Equal(t, types.StatusAccepted, n.Status, "expected returned notification to be accepted")
	})

	t.Run("accepted join request joins the requester", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		db.On("GetNotification", 10).Return(database.Notification{
			Id: 10, UserId: 2, InviterId: 7,
			GroupId: sql.NullInt64{Int64: groupId, Valid: true},
			Type:    types.NotificationJoinRequest, Status: types.StatusUnread,
		}, nil).Once()
		db.On("UpdateNotificationStatus", 10, types.StatusAccepted).Return(nil).Once()
		db.On("AddGroupMember", 5, 7).Return(nil).Once()

		_, err := ms.UpdateNotificationStatus(10, 2, types.StatusAccepted)
		assert.NoError(t, err, "expected no error accepting join request")
	})

	t.Run("membership failure does not roll back the decision", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		db.On("GetNotification", 10).Return(database.Notification{
			Id: 10, UserId: 2, InviterId: 1,
			GroupId: sql.NullInt64{Int64: groupId, Valid: true},
			Type:    types.NotificationGroupInvite, Status: types.StatusUnread,
		}, nil).Once()
		db.On("UpdateNotificationStatus", 10, types.StatusAccepted).Return(nil).Once()
		db.On("AddGroupMember", 5, 2).Return(errors.New("db error")).Once()

		n, err := ms.UpdateNotificationStatus(10, 2, types.StatusAccepted)
		assert.NoError(t, err, "expected accepted status to stand despite membership failure")
		assert.Equal(t, types.StatusAccepted, n.Status, "expected returned notification to be accepted")
	})

	t.Run("rejection does not touch membership", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		db.On("GetNotification", 10).Return(database.Notification{
			Id: 10, UserId: 2, InviterId: 1,
			GroupId: sql.NullInt64{Int64: groupId, Valid: true},
			Type:    types.NotificationGroupInvite, Status: types.StatusUnread,
		}, nil).Once()
		db.On("UpdateNotificationStatus", 10, types.StatusRejected).Return(nil).Once()

		n, err := ms.UpdateNotificationStatus(10, 2, types.StatusRejected)
		assert.NoError(t, err, "expected no error rejecting group invite")
		assert.Equal(t, types.StatusRejected, n.Status, "expected returned notification to be rejected")
	})
}

func TestMarkAllRead(t *testing.T) {
	t.Run("marks and pushes to online user", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		c := newTestClient(t, ms, types.User{Id: 2, Username: "bob"})
		ms.registry.register(c)

		db.On("MarkNotificationsRead", 2).Return(nil).Once()
		db.On("ListNotifications", 2).Return([]database.Notification{
			{Id: 10, UserId: 2, Type: types.NotificationFollowRequest, Status: types.StatusUnread, Read: true},
		}, nil).Once()

		err := ms.MarkAllRead(2)
		assert.NoError(t, err, "expected no error marking notifications read")

		frames := drainFrames(c)
		assert.Len(t, frames, 1, "expected a notifications frame")
		assert.Equal(t, FrameNotifications, frames[0].Type, "expected a notifications-list frame")
		assert.True(t, frames[0].Notifications[0].Read, "expected pushed notification to be read")
		assert.Equal(t, types.StatusUnread, frames[0].Notifications[0].Status, "expected read flag to leave status untouched")
	})

	t.Run("returns persistence error", func(t *testing.T) {
		db := &database.MockSocialRepository{}
		defer db.AssertExpectations(t)
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)

		ms := newTestMessagingServer(t, db, su)
		db.On("MarkNotificationsRead", 2).Return(errors.New("db error")).Once()

		err := ms.MarkAllRead(2)
		assert.Error(t, err, "expected persistence error to be returned")
	})
}
