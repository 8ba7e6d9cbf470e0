// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"github.com/pkg/errors"
)

// defaultAdminBundle is the rights bundle granted to administrators
// supplied at construction time without an explicit bundle. It matches
// what the official desktop client grants when adding an administrator.
var defaultAdminBundle = ChatAdministratorRights{
	CanManageChat:       true,
	CanChangeInfo:       true,
	CanDeleteMessages:   true,
	CanInviteUsers:      true,
	CanManageVideoChats: true,
	CanRestrictMembers:  true,
	CanPinMessages:      true,
}

// defaultGroupPermissions is the member-level bundle of a freshly
// created group or supergroup.
var defaultGroupPermissions = ChatPermissions{
	CanSendMessages:       true,
	CanSendMediaMessages:  true,
	CanSendPolls:          true,
	CanSendOtherMessages:  true,
	CanAddWebPagePreviews: true,
}

// resolveOwner turns the owner reference of a chat details struct into
// the distinguished creator record. Owners are given either inline or as
// the id of an already-registered private chat; the bot itself can never
// own a chat.
func (e *Environment) resolveOwner(owner *User, ownerID int64, anonymous bool) (*ChatMemberOwner, error) {
	if owner == nil && ownerID == 0 {
		return nil, errors.New("cannot create a chat without an owner")
	}
	if owner != nil {
		if owner.ID == e.bot.ID {
			return nil, ErrInvalidOwner
		}
		return &ChatMemberOwner{User: owner, IsAnonymous: anonymous}, nil
	}
	if ownerID == e.bot.ID {
		return nil, ErrInvalidOwner
	}
	room, ok := e.chats[ownerID]
	if !ok {
		return nil, errors.Errorf("owner %d is not a registered private chat", ownerID)
	}
	private, ok := room.(*PrivateChat)
	if !ok {
		return nil, errors.Errorf("owner %d is not a private chat", ownerID)
	}
	return &ChatMemberOwner{User: private.user, IsAnonymous: anonymous}, nil
}

// memberFromID resolves a bare user id from a construction-time member
// list. The bot's own id synthesizes an administrator record with the
// environment's default rights for the chat class; other ids must name a
// registered private chat or the reference is dropped.
func (e *Environment) memberFromID(id int64, kind ChatKind) (ChatMember, bool) {
	if id == e.bot.ID {
		rights := e.groupAdminRights
		if kind == ChatKindChannel {
			rights = e.channelAdminRights
		}
		return &ChatMemberAdministrator{
			User:                    e.bot,
			CanBeEdited:             false,
			ChatAdministratorRights: rights,
		}, true
	}
	room, ok := e.chats[id]
	if !ok {
		e.Log.Warnf("member %d is not a registered private chat, skipped", id)
		return nil, false
	}
	private, ok := room.(*PrivateChat)
	if !ok {
		e.Log.Warnf("member %d does not reference a private chat, skipped", id)
		return nil, false
	}
	return &ChatMemberMember{User: private.user}, true
}

// fillRoster places pre-built records and bare id references into a
// fresh roster map. Records naming a second creator are rejected: the
// owner goes through the dedicated owner field, nowhere else.
func (e *Environment) fillRoster(creator *ChatMemberOwner, records []ChatMember, ids []int64, kind ChatKind) (map[int64]ChatMember, error) {
	roster := make(map[int64]ChatMember)
	for _, record := range records {
		if record == nil || record.MemberUser() == nil {
			return nil, errors.New("membership record without a user")
		}
		if _, isOwner := record.(*ChatMemberOwner); isOwner {
			return nil, errors.New("creator records are not allowed in member lists")
		}
		userID := record.MemberUser().ID
		if userID == creator.User.ID {
			continue
		}
		if _, dup := roster[userID]; dup {
			e.Log.Warnf("duplicate user %d in member list, skipped", userID)
			continue
		}
		roster[userID] = record
	}
	for _, id := range ids {
		if id == creator.User.ID {
			continue
		}
		if _, dup := roster[id]; dup {
			e.Log.Warnf("duplicate user %d in member list, skipped", id)
			continue
		}
		if record, ok := e.memberFromID(id, kind); ok {
			roster[id] = record
		}
	}
	return roster, nil
}

// messageIndex indexes pre-supplied pinned messages so the message store
// can answer reply lookups for them.
func messageIndex(pinned []*Message) map[int]*Message {
	store := make(map[int]*Message)
	for _, m := range pinned {
		if m != nil {
			store[m.MessageID] = m
		}
	}
	return store
}

// lastPinned returns the most recently pinned message that still exists
// in the message store.
func lastPinned(pinned []*Message, store map[int]*Message) *Message {
	for i := len(pinned) - 1; i >= 0; i-- {
		if _, ok := store[pinned[i].MessageID]; ok {
			return pinned[i]
		}
	}
	return nil
}
