// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"github.com/pkg/errors"

	"github.com/amarnathcjd/botmock/internal/utils"
)

// ChannelChatDetails describes a broadcast channel at construction time.
// Channels have no member-level permission bundle; posting is reserved
// for the creator and administrators holding can_post_messages.
type ChannelChatDetails struct {
	ID       int64
	Title    string
	Username string

	Owner          *User
	OwnerID        int64
	AnonymousOwner bool

	Admins               []*ChatMemberAdministrator
	AdminIDs             []int64
	BotAppointedAdminIDs []int64
	Members              []ChatMember
	MemberIDs            []int64
	Banned               []*ChatMemberBanned

	AdminRights *ChatAdministratorRights

	PinnedMessages []*Message
	Description    string
}

// ChannelChat is a broadcast channel: subscribers instead of members,
// no default permissions, invite-link and join-request machinery shared
// with supergroups.
type ChannelChat struct {
	env      *Environment
	chatID   int64
	title    string
	username string

	creator *ChatMemberOwner
	members map[int64]ChatMember

	inviteLinks       map[string]*ChatInviteLink
	primaryInviteLink string
	joinRequests      map[int64]*ChatJoinRequest
	bannedSenderChats *utils.Set[int64]

	description string
	photo       *ChatPhoto

	messages  map[int]*Message
	pinned    []*Message
	messageID int
}

// NewChannel registers a broadcast channel.
func (e *Environment) NewChannel(details ChannelChatDetails) (*ChannelChat, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	creator, err := e.resolveOwner(details.Owner, details.OwnerID, details.AnonymousOwner)
	if err != nil {
		return nil, errors.Wrapf(err, "channel %d", details.ID)
	}
	roster, err := e.fillRoster(creator, details.Members, details.MemberIDs, ChatKindChannel)
	if err != nil {
		return nil, errors.Wrapf(err, "channel %d", details.ID)
	}
	adminRights := defaultAdminBundle
	if details.AdminRights != nil {
		adminRights = *details.AdminRights
	}
	appointed := utils.NewSet[int64]()
	for _, id := range details.BotAppointedAdminIDs {
		appointed.Add(id)
	}
	for _, admin := range details.Admins {
		if admin == nil || admin.User == nil {
			return nil, errors.Errorf("channel %d: administrator record without a user", details.ID)
		}
		if admin.User.ID == creator.User.ID {
			continue
		}
		record := *admin
		record.CanBeEdited = appointed.Has(admin.User.ID)
		roster[admin.User.ID] = &record
	}
	for _, id := range details.AdminIDs {
		if id == creator.User.ID {
			continue
		}
		record, ok := e.memberFromID(id, ChatKindChannel)
		if !ok {
			continue
		}
		roster[id] = &ChatMemberAdministrator{
			User:                    record.MemberUser(),
			CanBeEdited:             appointed.Has(id),
			ChatAdministratorRights: adminRights,
		}
	}
	for _, banned := range details.Banned {
		if banned != nil && banned.User != nil {
			roster[banned.User.ID] = banned
		}
	}
	chat := &ChannelChat{
		env:               e,
		chatID:            details.ID,
		title:             details.Title,
		username:          details.Username,
		creator:           creator,
		members:           roster,
		inviteLinks:       make(map[string]*ChatInviteLink),
		joinRequests:      make(map[int64]*ChatJoinRequest),
		bannedSenderChats: utils.NewSet[int64](),
		description:       details.Description,
		messages:          messageIndex(details.PinnedMessages),
		pinned:            append([]*Message(nil), details.PinnedMessages...),
		messageID:         3,
	}
	if err := e.register(chat); err != nil {
		return nil, errors.Wrapf(err, "channel %d", details.ID)
	}
	return chat, nil
}

func (c *ChannelChat) ID() int64 {
	return c.chatID
}

func (c *ChannelChat) Kind() ChatKind {
	return ChatKindChannel
}

func (c *ChannelChat) Username() string {
	return c.username
}

func (c *ChannelChat) baseChat() *Chat {
	return &Chat{
		ID:       c.chatID,
		Type:     ChatKindChannel,
		Title:    c.title,
		Username: c.username,
	}
}

func (c *ChannelChat) GetChat() *Chat {
	chat := c.baseChat()
	chat.Description = c.description
	chat.Photo = c.photo
	chat.InviteLink = c.primaryInviteLink
	chat.PinnedMessage = lastPinned(c.pinned, c.messages)
	return chat
}

func (c *ChannelChat) Creator() *ChatMemberOwner {
	return c.creator
}

func (c *ChannelChat) Member(userID int64) (ChatMember, bool) {
	return resolveMember(c.creator, c.members, userID, c.env.now())
}

func (c *ChannelChat) setMember(userID int64, record ChatMember) {
	c.members[userID] = record
}

func (c *ChannelChat) memberCount() int {
	return countPresent(c.creator, c.members, c.env.now())
}

// AddSubscribers places plain member records for the given users.
func (c *ChannelChat) AddSubscribers(users ...*User) {
	for _, user := range users {
		if user == nil || user.ID == c.creator.User.ID {
			continue
		}
		if _, exists := c.members[user.ID]; exists {
			c.env.Log.Warnf("user %d already has a record in channel %d, skipped", user.ID, c.chatID)
			continue
		}
		c.members[user.ID] = &ChatMemberMember{User: user}
	}
}

// AddJoinRequest queues a pending join request for the given user.
func (c *ChannelChat) AddJoinRequest(user *User, bio string, link *ChatInviteLink) *ChatJoinRequest {
	request := &ChatJoinRequest{
		Chat:       c.baseChat(),
		From:       user,
		UserChatID: user.ID,
		Date:       c.env.now(),
		Bio:        bio,
		InviteLink: link,
	}
	if link != nil {
		link.PendingJoinRequestCount++
	}
	c.joinRequests[user.ID] = request
	return request
}

// InviteLink looks up an invite link by its URL with lazy revocation of
// expired links.
func (c *ChannelChat) InviteLink(url string) (*ChatInviteLink, bool) {
	link, ok := c.inviteLinks[url]
	if !ok {
		return nil, false
	}
	if !link.IsRevoked && link.ExpireDate != 0 && c.env.now() > link.ExpireDate {
		link.IsRevoked = true
	}
	return link, ok
}

func (c *ChannelChat) Message(id int) (*Message, bool) {
	m, ok := c.messages[id]
	return m, ok
}

func (c *ChannelChat) nextMessageID() int {
	id := c.messageID
	c.messageID++
	return id
}

func (c *ChannelChat) putMessage(m *Message) *Message {
	m.MessageID = c.nextMessageID()
	m.Chat = c.baseChat()
	c.messages[m.MessageID] = m
	return m
}

func (c *ChannelChat) deleteMessage(id int) bool {
	if _, ok := c.messages[id]; !ok {
		return false
	}
	delete(c.messages, id)
	return true
}
