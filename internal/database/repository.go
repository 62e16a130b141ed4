package database

type SocialRepository interface {
	Ping() error
	CreateAccount(params CreateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByEmail(email string) (User, error)
	CreateDirectMessage(params CreateDirectMessageParams) (Message, error)
	CreateGroupMessage(params CreateGroupMessageParams) (Message, error)
	GetDirectMessages(userId, peerId, limit, offset int) ([]Message, error)
	GetGroupMessages(groupId, limit, offset int) ([]Message, error)
	IsGroupMember(userId, groupId int) (bool, error)
	GroupMembers(groupId int) ([]int, error)
	AddGroupMember(groupId, userId int) error
	ListContacts(userId int) ([]Contact, error)
	ListGroupsWithLastMessage(userId int) ([]GroupWithLastMessage, error)
	CreateNotification(params CreateNotificationParams) (Notification, error)
	GetNotification(id int) (Notification, error)
	ListNotifications(userId int) ([]Notification, error)
	UpdateNotificationStatus(id int, status string) error
	MarkNotificationsRead(userId int) error
}
