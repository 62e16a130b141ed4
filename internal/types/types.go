package types

import (
	"time"
)

type User struct {
	Id           int       `json:"id"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email_address,omitempty"`
	AvatarUrl    string    `json:"avatar_url,omitempty"`
	Password     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// MessagePreview is the last-message decoration attached to userlist and
// grouplist entries. Direction is relative to the viewer.
type MessagePreview struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Direction string    `json:"direction"`
}

const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Contact is one entry of a viewer's userlist: a user from the viewer's
// follow graph decorated with presence and the viewer-relative preview.
type Contact struct {
	User
	Online      bool            `json:"online"`
	LastMessage *MessagePreview `json:"last_message,omitempty"`
}

type Group struct {
	Id          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CreatorId   int             `json:"creator_id"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	LastMessage *MessagePreview `json:"last_message,omitempty"`
}

type Message struct {
	Id          int       `json:"id"`
	SenderId    int       `json:"sender_id"`
	SenderName  string    `json:"sender_name,omitempty"`
	RecipientId int       `json:"recipient_id,omitempty"`
	GroupId     int       `json:"group_id,omitempty"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
}

const (
	NotificationFollowRequest = "follow_request"
	NotificationGroupInvite   = "group_invite"
	NotificationJoinRequest   = "join_request"
	NotificationEventInvite   = "event_invite"
)

const (
	StatusUnread   = "unread"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type Notification struct {
	Id        int       `json:"id"`
	UserId    int       `json:"user_id"`
	InviterId int       `json:"inviter_id"`
	GroupId   *int      `json:"group_id"`
	EventId   *int      `json:"event_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Actionable reports whether the notification type supports accept/reject.
func Actionable(notifType string) bool {
	switch notifType {
	case NotificationFollowRequest, NotificationGroupInvite, NotificationJoinRequest:
		return true
	}
	return false
}
