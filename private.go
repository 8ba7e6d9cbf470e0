// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"github.com/pkg/errors"
)

// PrivateChatDetails describes a user and their one-to-one chat with the
// bot. A zero ID gets a synthetic identifier assigned.
type PrivateChatDetails struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
	IsPremium    bool

	// Bio and the other metadata fields only show up in getChat.
	Bio            string
	PinnedMessages []*Message
}

// PrivateChat wraps exactly one user and their direct chat with the bot.
type PrivateChat struct {
	env  *Environment
	user *User
	bio  string

	messages   map[int]*Message
	pinned     []*Message
	messageID  int
	menuButton *MenuButton

	// actingAs projects the user onto another chat, letting them speak
	// as a group or channel without a second identity.
	actingAs ChatRoom
}

// NewUser registers a private chat for the given user details.
func (e *Environment) NewUser(details PrivateChatDetails) (*PrivateChat, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if details.FirstName == "" {
		return nil, errors.New("a user needs at least a first name")
	}
	id := details.ID
	if id == 0 {
		id = e.ids.userID()
	}
	chat := &PrivateChat{
		env: e,
		user: &User{
			ID:           id,
			FirstName:    details.FirstName,
			LastName:     details.LastName,
			Username:     details.Username,
			LanguageCode: details.LanguageCode,
			IsPremium:    details.IsPremium,
		},
		bio:       details.Bio,
		messages:  messageIndex(details.PinnedMessages),
		pinned:    append([]*Message(nil), details.PinnedMessages...),
		messageID: 3,
	}
	if err := e.register(chat); err != nil {
		return nil, errors.Wrapf(err, "private chat %d", id)
	}
	return chat, nil
}

func (p *PrivateChat) ID() int64 {
	return p.user.ID
}

func (p *PrivateChat) Kind() ChatKind {
	return ChatKindPrivate
}

func (p *PrivateChat) Username() string {
	return p.user.Username
}

// User returns the identity behind the private chat.
func (p *PrivateChat) User() *User {
	return p.user
}

func (p *PrivateChat) baseChat() *Chat {
	return &Chat{
		ID:        p.user.ID,
		Type:      ChatKindPrivate,
		FirstName: p.user.FirstName,
		LastName:  p.user.LastName,
		Username:  p.user.Username,
	}
}

func (p *PrivateChat) GetChat() *Chat {
	chat := p.baseChat()
	chat.Bio = p.bio
	chat.PinnedMessage = lastPinned(p.pinned, p.messages)
	return chat
}

// ActAs projects the user onto another chat; a nil room clears the
// projection.
func (p *PrivateChat) ActAs(room ChatRoom) {
	p.actingAs = room
}

func (p *PrivateChat) ActingAs() ChatRoom {
	return p.actingAs
}

// Message looks a message up in the chat's store.
func (p *PrivateChat) Message(id int) (*Message, bool) {
	m, ok := p.messages[id]
	return m, ok
}

func (p *PrivateChat) nextMessageID() int {
	id := p.messageID
	p.messageID++
	return id
}

func (p *PrivateChat) putMessage(m *Message) *Message {
	m.MessageID = p.nextMessageID()
	m.Chat = p.baseChat()
	p.messages[m.MessageID] = m
	return m
}

func (p *PrivateChat) deleteMessage(id int) bool {
	if _, ok := p.messages[id]; !ok {
		return false
	}
	delete(p.messages, id)
	return true
}
