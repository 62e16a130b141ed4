package database

import (
	"database/sql"
	"fmt"
	"time"
)

func (db *PgSocialRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO users (username, email, password_hash, avatar_url, created_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, username, email, avatar_url, created_at",
		params.Username,
		params.EmailAddress,
		params.PasswordHash,
		params.AvatarUrl,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.AvatarUrl,
		&u.CreatedAt,
	)

	return u, err
}

func (db *PgSocialRepository) GetAccountById(accountId int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, avatar_url, created_at FROM users "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.AvatarUrl,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgSocialRepository) GetAccountByEmail(email string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, password_hash, avatar_url, created_at FROM users "+
			"WHERE email = $1 LIMIT 1",
		email,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.PasswordHash,
		&user.AvatarUrl,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgSocialRepository) CreateDirectMessage(params CreateDirectMessageParams) (Message, error) {
	res := db.conn.QueryRow(
		"INSERT INTO messages (sender_id, recipient_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, sender_id, recipient_id, content, created_at",
		params.SenderId,
		params.RecipientId,
		params.Content,
		params.CreatedAt,
	)

	var msg Message
	err := res.Scan(
		&msg.Id,
		&msg.SenderId,
		&msg.RecipientId,
		&msg.Content,
		&msg.CreatedAt,
	)

	return msg, err
}

func (db *PgSocialRepository) CreateGroupMessage(params CreateGroupMessageParams) (Message, error) {
	res := db.conn.QueryRow(
		"INSERT INTO messages (sender_id, group_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, sender_id, group_id, content, created_at",
		params.SenderId,
		params.GroupId,
		params.Content,
		params.CreatedAt,
	)

	var msg Message
	err := res.Scan(
		&msg.Id,
		&msg.SenderId,
		&msg.GroupId,
		&msg.Content,
		&msg.CreatedAt,
	)

	return msg, err
}

// GetDirectMessages returns the direct history for the (userId, peerId)
// pair, newest first. Ties on created_at break by id so pagination with
// limit/offset stays stable.
func (db *PgSocialRepository) GetDirectMessages(userId, peerId, limit, offset int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(
		"SELECT m.id, m.sender_id, u.username, m.recipient_id, m.content, m.created_at "+
			"FROM messages m JOIN users u ON u.id = m.sender_id "+
			"WHERE m.group_id IS NULL AND "+
			"((m.sender_id = $1 AND m.recipient_id = $2) OR (m.sender_id = $2 AND m.recipient_id = $1)) "+
			"ORDER BY m.created_at DESC, m.id DESC LIMIT $3 OFFSET $4",
		userId,
		peerId,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err = rows.Scan(&msg.Id, &msg.SenderId, &msg.SenderName, &msg.RecipientId, &msg.Content, &msg.CreatedAt); err != nil {
			break
		}

		messages = append(messages, msg)
	}

	return messages, err
}

func (db *PgSocialRepository) GetGroupMessages(groupId, limit, offset int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(
		"SELECT m.id, m.sender_id, u.username, m.group_id, m.content, m.created_at "+
			"FROM messages m JOIN users u ON u.id = m.sender_id "+
			"WHERE m.group_id = $1 "+
			"ORDER BY m.created_at DESC, m.id DESC LIMIT $2 OFFSET $3",
		groupId,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err = rows.Scan(&msg.Id, &msg.SenderId, &msg.SenderName, &msg.GroupId, &msg.Content, &msg.CreatedAt); err != nil {
			break
		}

		messages = append(messages, msg)
	}

	return messages, err
}

func (db *PgSocialRepository) IsGroupMember(userId, groupId int) (bool, error) {
	row := db.conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM group_members WHERE user_id = $1 AND group_id = $2)",
		userId,
		groupId,
	)

	var isMember bool
	err := row.Scan(&isMember)

	return isMember, err
}

func (db *PgSocialRepository) GroupMembers(groupId int) ([]int, error) {
	rows, err := db.conn.Query(
		"SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY user_id",
		groupId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []int
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			break
		}

		members = append(members, id)
	}

	return members, err
}

func (db *PgSocialRepository) AddGroupMember(groupId, userId int) error {
	_, err := db.conn.Exec(
		"INSERT INTO group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		groupId,
		userId,
	)

	return err
}

// ListContacts returns the viewer's follow graph (either direction)
// decorated with the most recent direct message exchanged with the viewer.
// Contacts with recent conversations sort first.
func (db *PgSocialRepository) ListContacts(userId int) ([]Contact, error) {
	query := `
		SELECT u.id, u.username, u.avatar_url, lm.content, lm.created_at, lm.sender_id
		FROM users u
		LEFT JOIN LATERAL (
			SELECT content, created_at, sender_id
			FROM messages
			WHERE group_id IS NULL
				AND ((sender_id = u.id AND recipient_id = $1) OR (sender_id = $1 AND recipient_id = u.id))
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON true
		WHERE u.id IN (
			SELECT followed_id FROM followers WHERE follower_id = $1
			UNION
			SELECT follower_id FROM followers WHERE followed_id = $1
		) AND u.id <> $1
		ORDER BY lm.created_at DESC NULLS LAST, u.username ASC`

	rows, err := db.conn.Query(query, userId)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		err := rows.Scan(
			&c.Id,
			&c.Username,
			&c.AvatarUrl,
			&c.LastMessage,
			&c.LastMessageTime,
			&c.LastSenderId,
		)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}

		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

func (db *PgSocialRepository) ListGroupsWithLastMessage(userId int) ([]GroupWithLastMessage, error) {
	query := `
		SELECT g.id, g.name, g.description, g.creator_id, g.created_at,
			lm.content, lm.created_at, lm.sender_id
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		LEFT JOIN LATERAL (
			SELECT content, created_at, sender_id
			FROM messages
			WHERE group_id = g.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON true
		WHERE gm.user_id = $1
		ORDER BY lm.created_at DESC NULLS LAST, g.name ASC`

	rows, err := db.conn.Query(query, userId)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []GroupWithLastMessage
	for rows.Next() {
		var g GroupWithLastMessage
		err := rows.Scan(
			&g.Id,
			&g.Name,
			&g.Description,
			&g.CreatorId,
			&g.CreatedAt,
			&g.LastMessage,
			&g.LastMessageTime,
			&g.LastSenderId,
		)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}

		groups = append(groups, g)
	}

	return groups, rows.Err()
}

func (db *PgSocialRepository) CreateNotification(params CreateNotificationParams) (Notification, error) {
	var groupId, eventId sql.NullInt64
	if params.GroupId != nil {
		groupId = sql.NullInt64{Int64: int64(*params.GroupId), Valid: true}
	}
	if params.EventId != nil {
		eventId = sql.NullInt64{Int64: int64(*params.EventId), Valid: true}
	}

	res := db.conn.QueryRow(
		"INSERT INTO notifications (user_id, inviter_id, group_id, event_id, type, message, status, read, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, 'unread', FALSE, $7) "+
			"RETURNING id, user_id, inviter_id, group_id, event_id, type, message, status, read, created_at",
		params.UserId,
		params.InviterId,
		groupId,
		eventId,
		params.Type,
		params.Message,
		time.Now().UTC(),
	)

	var n Notification
	err := res.Scan(
		&n.Id,
		&n.UserId,
		&n.InviterId,
		&n.GroupId,
		&n.EventId,
		&n.Type,
		&n.Message,
		&n.Status,
		&n.Read,
		&n.CreatedAt,
	)

	return n, err
}

func (db *PgSocialRepository) GetNotification(id int) (Notification, error) {
	row := db.conn.QueryRow(
		"SELECT id, user_id, inviter_id, group_id, event_id, type, message, status, read, created_at "+
			"FROM notifications WHERE id = $1 LIMIT 1",
		id,
	)

	var n Notification
	err := row.Scan(
		&n.Id,
		&n.UserId,
		&n.InviterId,
		&n.GroupId,
		&n.EventId,
		&n.Type,
		&n.Message,
		&n.Status,
		&n.Read,
		&n.CreatedAt,
	)

	return n, err
}

func (db *PgSocialRepository) ListNotifications(userId int) ([]Notification, error) {
	rows, err := db.conn.Query(
		"SELECT id, user_id, inviter_id, group_id, event_id, type, message, status, read, created_at "+
			"FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC",
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		err = rows.Scan(
			&n.Id,
			&n.UserId,
			&n.InviterId,
			&n.GroupId,
			&n.EventId,
			&n.Type,
			&n.Message,
			&n.Status,
			&n.Read,
			&n.CreatedAt,
		)
		if err != nil {
			break
		}

		notifications = append(notifications, n)
	}

	return notifications, err
}

func (db *PgSocialRepository) UpdateNotificationStatus(id int, status string) error {
	_, err := db.conn.Exec(
		"UPDATE notifications SET status = $2 WHERE id = $1",
		id,
		status,
	)

	return err
}

func (db *PgSocialRepository) MarkNotificationsRead(userId int) error {
	_, err := db.conn.Exec(
		"UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE",
		userId,
	)

	return err
}
