package database

import (
	"database/sql"
	"time"
)

type User struct {
	Id           int
	Username     string
	EmailAddress string
	PasswordHash string
	AvatarUrl    string
	CreatedAt    time.Time
}

type Group struct {
	Id          int
	Name        string
	Description string
	CreatorId   int
	CreatedAt   time.Time
}

// Message is one row of the messages table. Direct messages carry
// RecipientId, group messages carry GroupId; exactly one is set.
type Message struct {
	Id          int
	SenderId    int
	SenderName  string
	RecipientId sql.NullInt64
	GroupId     sql.NullInt64
	Content     string
	CreatedAt   time.Time
}

type Notification struct {
	Id        int
	UserId    int
	InviterId int
	GroupId   sql.NullInt64
	EventId   sql.NullInt64
	Type      string
	Message   string
	Status    string
	Read      bool
	CreatedAt time.Time
}

// Contact is the userlist read model: one row per user in the viewer's
// follow graph with the most recent direct message exchanged with the
// viewer, if any.
type Contact struct {
	User
	LastMessage     sql.NullString
	LastMessageTime sql.NullTime
	LastSenderId    sql.NullInt64
}

// GroupWithLastMessage is the grouplist read model.
type GroupWithLastMessage struct {
	Group
	LastMessage     sql.NullString
	LastMessageTime sql.NullTime
	LastSenderId    sql.NullInt64
}

type CreateAccountParams struct {
	Username     string
	EmailAddress string
	PasswordHash string
	AvatarUrl    string
}

type CreateDirectMessageParams struct {
	SenderId    int
	RecipientId int
	Content     string
	CreatedAt   time.Time
}

type CreateGroupMessageParams struct {
	SenderId  int
	GroupId   int
	Content   string
	CreatedAt time.Time
}

type CreateNotificationParams struct {
	UserId    int
	InviterId int
	GroupId   *int
	EventId   *int
	Type      string
	Message   string
}
