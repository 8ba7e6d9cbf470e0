// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"github.com/pkg/errors"
)

// GroupChatDetails describes a plain (non-super) group at construction
// time. The owner is given inline or as the id of a registered private
// chat; members may be pre-built records or bare ids.
type GroupChatDetails struct {
	ID    int64
	Title string

	Owner          *User
	OwnerID        int64
	AnonymousOwner bool

	Members   []ChatMember
	MemberIDs []int64
	Banned    []*ChatMemberBanned

	Permissions    *ChatPermissions
	PinnedMessages []*Message
	Description    string
}

// GroupChat is a basic group: one creator, a member roster, default
// member permissions, no usernames, no invite-link machinery.
type GroupChat struct {
	env     *Environment
	chatID  int64
	title   string
	creator *ChatMemberOwner
	members map[int64]ChatMember

	permissions ChatPermissions
	description string
	photo       *ChatPhoto

	messages  map[int]*Message
	pinned    []*Message
	messageID int
}

// NewGroup registers a plain group chat.
func (e *Environment) NewGroup(details GroupChatDetails) (*GroupChat, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	creator, err := e.resolveOwner(details.Owner, details.OwnerID, details.AnonymousOwner)
	if err != nil {
		return nil, errors.Wrapf(err, "group %d", details.ID)
	}
	roster, err := e.fillRoster(creator, details.Members, details.MemberIDs, ChatKindGroup)
	if err != nil {
		return nil, errors.Wrapf(err, "group %d", details.ID)
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
	chat := &GroupChat{
		env:         e,
		chatID:      details.ID,
		title:       details.Title,
		creator:     creator,
		members:     roster,
		permissions: permissions,
		description: details.Description,
		messages:    messageIndex(details.PinnedMessages),
		pinned:      append([]*Message(nil), details.PinnedMessages...),
		messageID:   3,
	}
	if err := e.register(chat); err != nil {
		return nil, errors.Wrapf(err, "group %d", details.ID)
	}
	return chat, nil
}

func (g *GroupChat) ID() int64 {
	return g.chatID
}

func (g *GroupChat) Kind() ChatKind {
	return ChatKindGroup
}

// Username is always empty: plain groups have no usernames.
func (g *GroupChat) Username() string {
	return ""
}

func (g *GroupChat) baseChat() *Chat {
	return &Chat{
		ID:    g.chatID,
		Type:  ChatKindGroup,
		Title: g.title,
	}
}

func (g *GroupChat) GetChat() *Chat {
	chat := g.baseChat()
	chat.Description = g.description
	chat.Photo = g.photo
	chat.Permissions = &g.permissions
	chat.PinnedMessage = lastPinned(g.pinned, g.messages)
	return chat
}

// Creator returns the distinguished owner record of the group.
func (g *GroupChat) Creator() *ChatMemberOwner {
	return g.creator
}

// Member resolves the effective membership record of a user, applying
// lazy expiry of bans and restrictions.
func (g *GroupChat) Member(userID int64) (ChatMember, bool) {
	return resolveMember(g.creator, g.members, userID, g.env.now())
}

func (g *GroupChat) setMember(userID int64, record ChatMember) {
	g.members[userID] = record
}

// memberCount counts the creator plus every record whose effective
// status still places the user inside the chat.
func (g *GroupChat) memberCount() int {
	return countPresent(g.creator, g.members, g.env.now())
}

func (g *GroupChat) Message(id int) (*Message, bool) {
	m, ok := g.messages[id]
	return m, ok
}

func (g *GroupChat) nextMessageID() int {
	id := g.messageID
	g.messageID++
	return id
}

func (g *GroupChat) putMessage(m *Message) *Message {
	m.MessageID = g.nextMessageID()
	m.Chat = g.baseChat()
	g.messages[m.MessageID] = m
	return m
}

func (g *GroupChat) deleteMessage(id int) bool {
	if _, ok := g.messages[id]; !ok {
		return false
	}
	delete(g.messages, id)
	return true
}

// countPresent is the shared member-count rule: creator plus members,
// administrators and restricted-but-still-member records, independent of
// insertion order.
func countPresent(creator *ChatMemberOwner, roster map[int64]ChatMember, now int64) int {
	count := 0
	if creator != nil {
		count++
	}
	for id := range roster {
		record, _ := resolveMember(nil, roster, id, now)
		switch r := record.(type) {
		case *ChatMemberAdministrator, *ChatMemberMember:
			count++
		case *ChatMemberRestricted:
			if r.IsMember {
				count++
			}
		}
	}
	return count
}
