package server

import (
	"strings"
	"unicode/utf8"

	"github.com/npezzotti/go-social/internal/database"
)

const maxMessageRunes = 200

// validateText trims the submitted text and checks the length bound. The
// bound is counted in runes, not bytes.
func validateText(text string) (string, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "message is empty"
	}
	if utf8.RuneCountInString(text) > maxMessageRunes {
		return "", "message exceeds 200 characters"
	}
	return text, ""
}

// routeDirect persists a direct message and delivers it to the recipient's
// live connection, if any. The message is durable before any delivery is
// attempted; the submitting connection never receives its own message back.
func (ms *MessagingServer) routeDirect(c *Client, frame *ClientFrame) {
	text, errMsg := validateText(frame.Text)
	if errMsg != "" {
		c.queueMessage(ErrorFrame(FrameChat, errMsg))
		return
	}

	if frame.To == 0 {
		c.queueMessage(ErrorFrame(FrameChat, "invalid recipient"))
		return
	}

	ts := Now()
	msg, err := ms.db.CreateDirectMessage(database.CreateDirectMessageParams{
		SenderId:    c.user.Id,
		RecipientId: frame.To,
		Content:     text,
		CreatedAt:   ts,
	})
	if err != nil {
		ms.log.Printf("failed to store message from user %d to user %d: %v", c.user.Id, frame.To, err)
		c.queueMessage(ErrorFrame(FrameChat, "failed to send message"))
		return
	}

	// self-messages are persisted but never echoed back to the submitting
	// connection
	if recipient, ok := ms.registry.lookup(frame.To); ok && recipient != c {
		recipient.queueMessage(ChatFrame(c.user, msg.Content, msg.CreatedAt))
	}

	ms.stats.Incr(metricDirectMessagesRouted)

	// the last-message previews in everyone's roster just changed
	ms.broadcastPresence()
}

// relayTyping forwards a typing indicator to the recipient's live
// connection. Indicators are ephemeral: nothing is persisted, and an offline
// recipient simply never sees it.
func (ms *MessagingServer) relayTyping(c *Client, frame *ClientFrame) {
	if frame.To == 0 {
		return
	}

	if recipient, ok := ms.registry.lookup(frame.To); ok && recipient != c {
		recipient.queueMessage(TypingFrame(c.user, frame.Type))
	}
}

// routeGroup persists a group message and fans it out to every group member
// with a live connection, except the submitting connection itself.
func (ms *MessagingServer) routeGroup(c *Client, frame *ClientFrame) {
	text, errMsg := validateText(frame.Text)
	if errMsg != "" {
		c.queueMessage(ErrorFrame(FrameGroupChat, errMsg))
		return
	}

	if frame.GroupId == 0 {
		c.queueMessage(ErrorFrame(FrameGroupChat, "invalid group"))
		return
	}

	member, err := ms.db.IsGroupMember(c.user.Id, frame.GroupId)
	if err != nil {
		ms.log.Printf("failed to check membership of user %d in group %d: %v", c.user.Id, frame.GroupId, err)
		c.queueMessage(ErrorFrame(FrameGroupChat, "failed to send message"))
		return
	}
	if !member {
		c.queueMessage(ErrorFrame(FrameGroupChat, "not a member of group"))
		return
	}

	ts := Now()
	msg, err := ms.db.CreateGroupMessage(database.CreateGroupMessageParams{
		SenderId:  c.user.Id,
		GroupId:   frame.GroupId,
		Content:   text,
		CreatedAt: ts,
	})
	if err != nil {
		ms.log.Printf("failed to store message from user %d to group %d: %v", c.user.Id, frame.GroupId, err)
		c.queueMessage(ErrorFrame(FrameGroupChat, "failed to send message"))
		return
	}

	members, err := ms.db.GroupMembers(frame.GroupId)
	if err != nil {
		ms.log.Printf("failed to list members of group %d: %v", frame.GroupId, err)
		return
	}

	out := GroupChatFrame(c.user, frame.GroupId, msg.Content, msg.CreatedAt)
	for _, id := range members {
		recipient, ok := ms.registry.lookup(id)
		if !ok || recipient == c {
			continue
		}
		recipient.queueMessage(out)
	}

	ms.stats.Incr(metricGroupMessagesRouted)
	ms.broadcastPresence()
}
