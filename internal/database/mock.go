package database

import (
	"github.com/stretchr/testify/mock"
)

type MockSocialRepository struct {
	mock.Mock
}

func (m *MockSocialRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockSocialRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockSocialRepository) GetAccountById(accountId int) (User, error) {
	args := m.Called(accountId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockSocialRepository) GetAccountByEmail(email string) (User, error) {
	args := m.Called(email)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockSocialRepository) CreateDirectMessage(params CreateDirectMessageParams) (Message, error) {
	args := m.Called(params)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockSocialRepository) CreateGroupMessage(params CreateGroupMessageParams) (Message, error) {
	args := m.Called(params)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockSocialRepository) GetDirectMessages(userId, peerId, limit, offset int) ([]Message, error) {
	args := m.Called(userId, peerId, limit, offset)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockSocialRepository) GetGroupMessages(groupId, limit, offset int) ([]Message, error) {
	args := m.Called(groupId, limit, offset)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockSocialRepository) IsGroupMember(userId, groupId int) (bool, error) {
	args := m.Called(userId, groupId)
	return args.Bool(0), args.Error(1)
}
func (m *MockSocialRepository) GroupMembers(groupId int) ([]int, error) {
	args := m.Called(groupId)
	return args.Get(0).([]int), args.Error(1)
}
func (m *MockSocialRepository) AddGroupMember(groupId, userId int) error {
	args := m.Called(groupId, userId)
	return args.Error(0)
}
func (m *MockSocialRepository) ListContacts(userId int) ([]Contact, error) {
	args := m.Called(userId)
	return args.Get(0).([]Contact), args.Error(1)
}
func (m *MockSocialRepository) ListGroupsWithLastMessage(userId int) ([]GroupWithLastMessage, error) {
	args := m.Called(userId)
	return args.Get(0).([]GroupWithLastMessage), args.Error(1)
}
func (m *MockSocialRepository) CreateNotification(params CreateNotificationParams) (Notification, error) {
	args := m.Called(params)
	return args.Get(0).(Notification), args.Error(1)
}
func (m *MockSocialRepository) GetNotification(id int) (Notification, error) {
	args := m.Called(id)
	return args.Get(0).(Notification), args.Error(1)
}
func (m *MockSocialRepository) ListNotifications(userId int) ([]Notification, error) {
	args := m.Called(userId)
	return args.Get(0).([]Notification), args.Error(1)
}
func (m *MockSocialRepository) UpdateNotificationStatus(id int, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}
func (m *MockSocialRepository) MarkNotificationsRead(userId int) error {
	args := m.Called(userId)
	return args.Error(0)
}
