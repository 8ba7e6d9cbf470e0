// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"github.com/pkg/errors"

	"github.com/amarnathcjd/botmock/internal/utils"
)

// SupergroupChatDetails describes a supergroup at construction time.
// Administrators may be supplied as full records (Admins), or as bare
// user ids granted the default bundle (AdminIDs). Ids listed in
// BotAppointedAdminIDs count as appointed by the bot and stay editable
// through promoteChatMember.
type SupergroupChatDetails struct {
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

	// Permissions is the chat-wide member bundle; AdminRights the bundle
	// granted to bare-id administrators.
	Permissions *ChatPermissions
	AdminRights *ChatAdministratorRights

	PinnedMessages   []*Message
	Description      string
	StickerSetName   string
	CanSetStickerSet bool
	SlowModeDelay    int
}

// SupergroupChat carries the full membership machinery: administrator
// appointment tracking, invite links, pending join requests and banned
// sender chats.
type SupergroupChat struct {
	env      *Environment
	chatID   int64
	title    string
	username string

	creator         *ChatMemberOwner
	members         map[int64]ChatMember
	appointedAdmins *utils.Set[int64]

	permissions ChatPermissions

	inviteLinks       map[string]*ChatInviteLink
	primaryInviteLink string
	joinRequests      map[int64]*ChatJoinRequest
	bannedSenderChats *utils.Set[int64]

	description      string
	photo            *ChatPhoto
	stickerSetName   string
	canSetStickerSet bool
	slowModeDelay    int

	messages  map[int]*Message
	pinned    []*Message
	messageID int
}

// NewSupergroup registers a supergroup chat.
func (e *Environment) NewSupergroup(details SupergroupChatDetails) (*SupergroupChat, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	creator, err := e.resolveOwner(details.Owner, details.OwnerID, details.AnonymousOwner)
	if err != nil {
		return nil, errors.Wrapf(err, "supergroup %d", details.ID)
	}
	roster, err := e.fillRoster(creator, details.Members, details.MemberIDs, ChatKindSupergroup)
	if err != nil {
		return nil, errors.Wrapf(err, "supergroup %d", details.ID)
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
			return nil, errors.Errorf("supergroup %d: administrator record without a user", details.ID)
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
		record, ok := e.memberFromID(id, ChatKindSupergroup)
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
	permissions := defaultGroupPermissions
	if details.Permissions != nil {
		permissions = *details.Permissions
	}
	chat := &SupergroupChat{
		env:               e,
		chatID:            details.ID,
		title:             details.Title,
		username:          details.Username,
		creator:           creator,
		members:           roster,
		appointedAdmins:   appointed,
		permissions:       permissions,
		inviteLinks:       make(map[string]*ChatInviteLink),
		joinRequests:      make(map[int64]*ChatJoinRequest),
		bannedSenderChats: utils.NewSet[int64](),
		description:       details.Description,
		stickerSetName:    details.StickerSetName,
		canSetStickerSet:  details.CanSetStickerSet,
		slowModeDelay:     details.SlowModeDelay,
		messages:          messageIndex(details.PinnedMessages),
		pinned:            append([]*Message(nil), details.PinnedMessages...),
		messageID:         3,
	}
	if err := e.register(chat); err != nil {
		return nil, errors.Wrapf(err, "supergroup %d", details.ID)
	}
	return chat, nil
}

func (s *SupergroupChat) ID() int64 {
	return s.chatID
}

func (s *SupergroupChat) Kind() ChatKind {
	return ChatKindSupergroup
}

func (s *SupergroupChat) Username() string {
	return s.username
}

func (s *SupergroupChat) baseChat() *Chat {
	return &Chat{
		ID:       s.chatID,
		Type:     ChatKindSupergroup,
		Title:    s.title,
		Username: s.username,
	}
}

func (s *SupergroupChat) GetChat() *Chat {
	chat := s.baseChat()
	chat.Description = s.description
	chat.Photo = s.photo
	chat.Permissions = &s.permissions
	chat.InviteLink = s.primaryInviteLink
	chat.StickerSetName = s.stickerSetName
	chat.CanSetStickerSet = s.canSetStickerSet
	chat.SlowModeDelay = s.slowModeDelay
	chat.PinnedMessage = lastPinned(s.pinned, s.messages)
	return chat
}

func (s *SupergroupChat) Creator() *ChatMemberOwner {
	return s.creator
}

func (s *SupergroupChat) Member(userID int64) (ChatMember, bool) {
	return resolveMember(s.creator, s.members, userID, s.env.now())
}

func (s *SupergroupChat) setMember(userID int64, record ChatMember) {
	s.members[userID] = record
}

func (s *SupergroupChat) memberCount() int {
	return countPresent(s.creator, s.members, s.env.now())
}

// AddMembers places plain member records for the given users, skipping
// anyone who already holds a record in the chat.
func (s *SupergroupChat) AddMembers(users ...*User) {
	for _, user := range users {
		if user == nil || user.ID == s.creator.User.ID {
			continue
		}
		if _, exists := s.members[user.ID]; exists {
			s.env.Log.Warnf("user %d already has a record in supergroup %d, skipped", user.ID, s.chatID)
			continue
		}
		s.members[user.ID] = &ChatMemberMember{User: user}
	}
}

// RemoveMembers drops the records of the given users entirely.
func (s *SupergroupChat) RemoveMembers(users ...*User) {
	for _, user := range users {
		if user == nil {
			continue
		}
		if _, exists := s.members[user.ID]; !exists {
			s.env.Log.Warnf("user %d has no record in supergroup %d, skipped", user.ID, s.chatID)
			continue
		}
		delete(s.members, user.ID)
	}
}

// AddJoinRequest queues a pending join request for the given user, as if
// they had knocked through an invite link.
func (s *SupergroupChat) AddJoinRequest(user *User, bio string, link *ChatInviteLink) *ChatJoinRequest {
	request := &ChatJoinRequest{
		Chat:       s.baseChat(),
		From:       user,
		UserChatID: user.ID,
		Date:       s.env.now(),
		Bio:        bio,
		InviteLink: link,
	}
	if link != nil {
		link.PendingJoinRequestCount++
	}
	s.joinRequests[user.ID] = request
	return request
}

// InviteLink looks up a secondary or primary invite link by its URL,
// applying lazy expiry: an active link past its expire date flips to
// revoked when observed.
func (s *SupergroupChat) InviteLink(url string) (*ChatInviteLink, bool) {
	link, ok := s.inviteLinks[url]
	if !ok {
		return nil, false
	}
	if !link.IsRevoked && link.ExpireDate != 0 && s.env.now() > link.ExpireDate {
		link.IsRevoked = true
	}
	return link, ok
}

func (s *SupergroupChat) Message(id int) (*Message, bool) {
	m, ok := s.messages[id]
	return m, ok
}

func (s *SupergroupChat) nextMessageID() int {
	id := s.messageID
	s.messageID++
	return id
}

func (s *SupergroupChat) putMessage(m *Message) *Message {
	m.MessageID = s.nextMessageID()
	m.Chat = s.baseChat()
	s.messages[m.MessageID] = m
	return m
}

func (s *SupergroupChat) deleteMessage(id int) bool {
	if _, ok := s.messages[id]; !ok {
		return false
	}
	delete(s.messages, id)
	return true
}
