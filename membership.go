// Copyright (c) 2024 RoseLoverX

package botmock

// Capability names a single yes/no question asked about a user in a chat.
// The names split into two vocabularies: ordinary chat permissions
// (answered from a ChatPermissions bundle) and administrator rights
// (answered from a ChatAdministratorRights bundle). A few names, such as
// CapChangeInfo, exist in both bundles; the resolved membership status
// decides which bundle answers.
type Capability string

const (
	CapSendMessages       Capability = "can_send_messages"
	CapSendMediaMessages  Capability = "can_send_media_messages"
	CapSendPolls          Capability = "can_send_polls"
	CapSendOtherMessages  Capability = "can_send_other_messages"
	CapAddWebPagePreviews Capability = "can_add_web_page_previews"

	CapChangeInfo  Capability = "can_change_info"
	CapInviteUsers Capability = "can_invite_users"
	CapPinMessages Capability = "can_pin_messages"

	CapManageChat       Capability = "can_manage_chat"
	CapDeleteMessages   Capability = "can_delete_messages"
	CapManageVideoChats Capability = "can_manage_video_chats"
	CapRestrictMembers  Capability = "can_restrict_members"
	CapPromoteMembers   Capability = "can_promote_members"
	CapPostMessages     Capability = "can_post_messages"
	CapEditMessages     Capability = "can_edit_messages"
	CapManageTopics     Capability = "can_manage_topics"
	CapAnonymous        Capability = "is_anonymous"
)

var permissionLookup = map[Capability]func(*ChatPermissions) bool{
	CapSendMessages:       func(p *ChatPermissions) bool { return p.CanSendMessages },
	CapSendMediaMessages:  func(p *ChatPermissions) bool { return p.CanSendMediaMessages },
	CapSendPolls:          func(p *ChatPermissions) bool { return p.CanSendPolls },
	CapSendOtherMessages:  func(p *ChatPermissions) bool { return p.CanSendOtherMessages },
	CapAddWebPagePreviews: func(p *ChatPermissions) bool { return p.CanAddWebPagePreviews },
	CapChangeInfo:         func(p *ChatPermissions) bool { return p.CanChangeInfo },
	CapInviteUsers:        func(p *ChatPermissions) bool { return p.CanInviteUsers },
	CapPinMessages:        func(p *ChatPermissions) bool { return p.CanPinMessages },
}

var adminRightLookup = map[Capability]func(*ChatAdministratorRights) bool{
	CapManageChat:       func(r *ChatAdministratorRights) bool { return r.CanManageChat },
	CapDeleteMessages:   func(r *ChatAdministratorRights) bool { return r.CanDeleteMessages },
	CapManageVideoChats: func(r *ChatAdministratorRights) bool { return r.CanManageVideoChats },
	CapRestrictMembers:  func(r *ChatAdministratorRights) bool { return r.CanRestrictMembers },
	CapPromoteMembers:   func(r *ChatAdministratorRights) bool { return r.CanPromoteMembers },
	CapChangeInfo:       func(r *ChatAdministratorRights) bool { return r.CanChangeInfo },
	CapInviteUsers:      func(r *ChatAdministratorRights) bool { return r.CanInviteUsers },
	CapPostMessages:     func(r *ChatAdministratorRights) bool { return r.CanPostMessages },
	CapEditMessages:     func(r *ChatAdministratorRights) bool { return r.CanEditMessages },
	CapPinMessages:      func(r *ChatAdministratorRights) bool { return r.CanPinMessages },
	CapManageTopics:     func(r *ChatAdministratorRights) bool { return r.CanManageTopics },
	CapAnonymous:        func(r *ChatAdministratorRights) bool { return r.IsAnonymous },
}

// adminRightOrder fixes the order administrator rights are examined in,
// matching the field order of the promoteChatMember payload, so error
// details always name the same right.
var adminRightOrder = []Capability{
	CapAnonymous,
	CapManageChat,
	CapDeleteMessages,
	CapManageVideoChats,
	CapRestrictMembers,
	CapPromoteMembers,
	CapChangeInfo,
	CapInviteUsers,
	CapPostMessages,
	CapEditMessages,
	CapPinMessages,
	CapManageTopics,
}

func knownCapability(cap Capability) bool {
	if _, ok := permissionLookup[cap]; ok {
		return true
	}
	_, ok := adminRightLookup[cap]
	return ok
}

// effectiveMember reinterprets a membership record at the given time,
// applying expiry of time-bounded bans and restrictions. A kicked record
// past its until date becomes left; a restricted record past its until
// date becomes member (if still a member) or left. An until date of zero
// never expires. The function is pure and idempotent; callers persist the
// rewrite back into the roster.
func effectiveMember(m ChatMember, now int64) ChatMember {
	switch r := m.(type) {
	case *ChatMemberBanned:
		if r.UntilDate != 0 && now > r.UntilDate {
			return &ChatMemberLeft{User: r.User}
		}
	case *ChatMemberRestricted:
		if r.UntilDate != 0 && now > r.UntilDate {
			if r.IsMember {
				return &ChatMemberMember{User: r.User}
			}
			return &ChatMemberLeft{User: r.User}
		}
	}
	return m
}

// authorize evaluates a capability question against an already resolved
// membership record. Asking a question from the wrong vocabulary for the
// resolved status is a programming error reported as ErrInvalidCapability,
// never a silent false.
//
// The defaults argument is the chat's member-level permission bundle; nil
// means the chat has no member permission concept (channels), in which
// case plain members are granted nothing. Private chats pass allPermissions
// since nothing is ever restricted there.
func authorize(m ChatMember, cap Capability, defaults *ChatPermissions) (bool, *Response) {
	if !knownCapability(cap) {
		resp := failWith(ErrInvalidCapability, string(cap))
		return false, &resp
	}
	switch r := m.(type) {
	case *ChatMemberOwner:
		return true, nil
	case *ChatMemberAdministrator:
		get, ok := adminRightLookup[cap]
		if !ok {
			resp := failWith(ErrInvalidCapability, string(cap)+" is not an administrator right")
			return false, &resp
		}
		return get(&r.ChatAdministratorRights), nil
	case *ChatMemberMember:
		get, ok := permissionLookup[cap]
		if !ok {
			resp := failWith(ErrInvalidCapability, string(cap)+" is not a chat permission")
			return false, &resp
		}
		if defaults == nil {
			return false, nil
		}
		return get(defaults), nil
	case *ChatMemberRestricted:
		get, ok := permissionLookup[cap]
		if !ok {
			resp := failWith(ErrInvalidCapability, string(cap)+" is not a chat permission")
			return false, &resp
		}
		return get(&r.ChatPermissions), nil
	case *ChatMemberLeft, *ChatMemberBanned:
		return false, nil
	}
	return false, nil
}

// allPermissions is the bundle private chats answer member checks with.
var allPermissions = ChatPermissions{
	CanSendMessages:       true,
	CanSendMediaMessages:  true,
	CanSendPolls:          true,
	CanSendOtherMessages:  true,
	CanAddWebPagePreviews: true,
	CanChangeInfo:         true,
	CanInviteUsers:        true,
	CanPinMessages:        true,
}

// resolveMember looks up and lazily rewrites the membership record of a
// user in a roster. The creator is tracked outside the roster map and is
// never rewritten.
func resolveMember(creator *ChatMemberOwner, roster map[int64]ChatMember, userID int64, now int64) (ChatMember, bool) {
	if creator != nil && creator.User.ID == userID {
		return creator, true
	}
	record, ok := roster[userID]
	if !ok {
		return nil, false
	}
	effective := effectiveMember(record, now)
	if effective != record {
		roster[userID] = effective
	}
	return effective, true
}
