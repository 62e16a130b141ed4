package server

import (
	"time"

	"github.com/npezzotti/go-social/internal/types"
)

// Frame kinds exchanged over the live connection. Inbound frames carry
// FrameChat, FrameGroupChat or a typing indicator; typing indicators are
// relayed as-is, everything else is outbound only.
const (
	FrameChat          = "chat"
	FrameGroupChat     = "group-chat"
	FrameTyping        = "typing"
	FrameStopTyping    = "stop"
	FrameUserList      = "userlist"
	FrameGroupList     = "grouplist"
	FrameNotifications = "notifications-list"
	FrameError         = "error"
)

// ClientFrame is one inbound envelope. To identifies the recipient user for
// direct chat, GroupId the target group for group chat. The sending user and
// timestamp are stamped server-side from the connection.
type ClientFrame struct {
	Type    string `json:"type"`
	To      int    `json:"to,omitempty"`
	GroupId int    `json:"group_id,omitempty"`
	Text    string `json:"text,omitempty"`
}

// ServerFrame is one outbound envelope. Only the fields relevant to Type are
// populated.
type ServerFrame struct {
	Type          string               `json:"type"`
	From          int                  `json:"from,omitempty"`
	Username      string               `json:"username,omitempty"`
	GroupId       int                  `json:"group_id,omitempty"`
	Text          string               `json:"text,omitempty"`
	Online        []int                `json:"online,omitempty"`
	Users         []types.Contact      `json:"users,omitempty"`
	Groups        []types.Group        `json:"groups,omitempty"`
	Notifications []types.Notification `json:"notifications,omitempty"`
	Error         string               `json:"error,omitempty"`
	Kind          string               `json:"kind,omitempty"`
	Timestamp     time.Time            `json:"timestamp"`
}

func ChatFrame(sender types.User, text string, ts time.Time) *ServerFrame {
	return &ServerFrame{
		Type:      FrameChat,
		From:      sender.Id,
		Username:  sender.Username,
		Text:      text,
		Timestamp: ts,
	}
}

func GroupChatFrame(sender types.User, groupId int, text string, ts time.Time) *ServerFrame {
	return &ServerFrame{
		Type:      FrameGroupChat,
		From:      sender.Id,
		Username:  sender.Username,
		GroupId:   groupId,
		Text:      text,
		Timestamp: ts,
	}
}

// TypingFrame is an ephemeral indicator; kind is FrameTyping or
// FrameStopTyping.
func TypingFrame(sender types.User, kind string) *ServerFrame {
	return &ServerFrame{
		Type:      kind,
		From:      sender.Id,
		Username:  sender.Username,
		Timestamp: Now(),
	}
}

func UserListFrame(online []int, users []types.Contact) *ServerFrame {
	return &ServerFrame{
		Type:      FrameUserList,
		Online:    online,
		Users:     users,
		Timestamp: Now(),
	}
}

func GroupListFrame(groups []types.Group) *ServerFrame {
	return &ServerFrame{
		Type:      FrameGroupList,
		Groups:    groups,
		Timestamp: Now(),
	}
}

func NotificationsFrame(notifications []types.Notification) *ServerFrame {
	return &ServerFrame{
		Type:          FrameNotifications,
		Notifications: notifications,
		Timestamp:     Now(),
	}
}

// ErrorFrame acknowledges a rejected inbound frame. Kind names the inbound
// frame type the error refers to.
func ErrorFrame(kind, msg string) *ServerFrame {
	return &ServerFrame{
		Type:      FrameError,
		Kind:      kind,
		Error:     msg,
		Timestamp: Now(),
	}
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
