// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"sort"

	"github.com/amarnathcjd/botmock/internal/utils"
)

// chatRoster exposes the creator and roster map of the membership-bearing
// chat kinds. Private chats have neither.
func chatRoster(room ChatRoom) (*ChatMemberOwner, map[int64]ChatMember, bool) {
	switch chat := room.(type) {
	case *GroupChat:
		return chat.creator, chat.members, true
	case *SupergroupChat:
		return chat.creator, chat.members, true
	case *ChannelChat:
		return chat.creator, chat.members, true
	}
	return nil, nil, false
}

type memberCounter interface {
	memberCount() int
}

// requireBotRight checks that the bot is the creator or an administrator
// holding the given right in the chat.
func (e *Environment) requireBotRight(room ChatRoom, required Capability) *Response {
	creator, roster, ok := chatRoster(room)
	if !ok {
		resp := failKind(ErrChatNotFound)
		return &resp
	}
	record, found := resolveMember(creator, roster, e.bot.ID, e.now())
	if !found {
		resp := failKind(ErrBotNotAdministrator)
		return &resp
	}
	switch r := record.(type) {
	case *ChatMemberOwner:
		return nil
	case *ChatMemberAdministrator:
		get, ok := adminRightLookup[required]
		if !ok {
			resp := failWith(ErrInvalidCapability, string(required))
			return &resp
		}
		if get(&r.ChatAdministratorRights) {
			return nil
		}
		resp := failKind(ErrInsufficientRights)
		return &resp
	}
	resp := failKind(ErrBotNotAdministrator)
	return &resp
}

// supergroupGate resolves the chat for the member-mutation methods,
// which work on supergroups only, and checks the bot's standing.
func (e *Environment) supergroupGate(id ChatID, required Capability) (*SupergroupChat, *Response) {
	room, ok := e.chatBy(id)
	if !ok {
		resp := failKind(ErrChatNotFound)
		return nil, &resp
	}
	chat, ok := room.(*SupergroupChat)
	if !ok {
		resp := failKind(ErrWrongChatKind)
		return nil, &resp
	}
	if errResp := e.requireBotRight(chat, required); errResp != nil {
		return nil, errResp
	}
	return chat, nil
}

// userRef finds the User identity behind an id: a roster record if one
// exists, otherwise a registered private chat.
func (e *Environment) userRef(roster map[int64]ChatMember, id int64) *User {
	if record, ok := roster[id]; ok {
		return record.MemberUser()
	}
	if room, ok := e.chats[id]; ok {
		if private, ok := room.(*PrivateChat); ok {
			return private.user
		}
	}
	return nil
}

// pinStore exposes the pinned-message list and message store of a chat.
func pinStore(room ChatRoom) (*[]*Message, map[int]*Message) {
	switch chat := room.(type) {
	case *PrivateChat:
		return &chat.pinned, chat.messages
	case *GroupChat:
		return &chat.pinned, chat.messages
	case *SupergroupChat:
		return &chat.pinned, chat.messages
	case *ChannelChat:
		return &chat.pinned, chat.messages
	}
	return nil, nil
}

// metadataSlots exposes the mutable surface fields of the titled chat
// kinds. Private chats carry none of them.
func metadataSlots(room ChatRoom) (title *string, description *string, photo **ChatPhoto, ok bool) {
	switch chat := room.(type) {
	case *GroupChat:
		return &chat.title, &chat.description, &chat.photo, true
	case *SupergroupChat:
		return &chat.title, &chat.description, &chat.photo, true
	case *ChannelChat:
		return &chat.title, &chat.description, &chat.photo, true
	}
	return nil, nil, nil, false
}

// senderBanSet exposes the banned-sender-chat set of supergroups and
// channels.
func senderBanSet(room ChatRoom) (*utils.Set[int64], bool) {
	switch chat := room.(type) {
	case *SupergroupChat:
		return chat.bannedSenderChats, true
	case *ChannelChat:
		return chat.bannedSenderChats, true
	}
	return nil, false
}

type GetChat struct {
	ChatID ChatID `json:"chat_id"`
}

func (*GetChat) APIMethod() string { return "getChat" }

func (r *GetChat) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	return resultOf(room.GetChat())
}

type GetChatAdministrators struct {
	ChatID ChatID `json:"chat_id"`
}

func (*GetChatAdministrators) APIMethod() string { return "getChatAdministrators" }

func (r *GetChatAdministrators) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	creator, roster, ok := chatRoster(room)
	if !ok {
		return failKind(ErrWrongChatKind)
	}
	admins := []ChatMember{creator}
	ids := make([]int64, 0, len(roster))
	for id := range roster {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		record, _ := resolveMember(nil, roster, id, e.now())
		if admin, ok := record.(*ChatMemberAdministrator); ok {
			admins = append(admins, admin)
		}
	}
	return resultOf(admins)
}

type GetChatMemberCount struct {
	ChatID ChatID `json:"chat_id"`
}

func (*GetChatMemberCount) APIMethod() string { return "getChatMemberCount" }

func (r *GetChatMemberCount) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	counter, ok := room.(memberCounter)
	if !ok {
		return failKind(ErrWrongChatKind)
	}
	return resultOf(counter.memberCount())
}

type GetChatMember struct {
	ChatID ChatID `json:"chat_id"`
	UserID int64  `json:"user_id"`
}

func (*GetChatMember) APIMethod() string { return "getChatMember" }

func (r *GetChatMember) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	record, errResp := e.membership(room.ID(), r.UserID)
	if errResp != nil {
		return *errResp
	}
	return resultOf(record)
}

type SetChatTitle struct {
	ChatID ChatID `json:"chat_id"`
	Title  string `json:"title" limit:"1-255"`
}

func (*SetChatTitle) APIMethod() string { return "setChatTitle" }

func (r *SetChatTitle) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	title, _, _, ok := metadataSlots(room)
	if !ok {
		return failKind(ErrWrongChatKind)
	}
	if errResp := e.requireBotRight(room, CapChangeInfo); errResp != nil {
		return *errResp
	}
	if resp := checkLimits(r); resp != nil {
		return *resp
	}
	*title = r.Title
	return resultOf(true)
}

type SetChatDescription struct {
	ChatID      ChatID `json:"chat_id"`
	Description string `json:"description,omitempty" limit:"0-255"`
}

func (*SetChatDescription) APIMethod() string { return "setChatDescription" }

func (r *SetChatDescription) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	_, description, _, ok := metadataSlots(room)
	if !ok {
		return failKind(ErrWrongChatKind)
	}
	if errResp := e.requireBotRight(room, CapChangeInfo); errResp != nil {
		return *errResp
	}
	if resp := checkLimits(r); resp != nil {
		return *resp
	}
	*description = r.Description
	return resultOf(true)
}

type SetChatPhoto struct {
	ChatID ChatID `json:"chat_id"`
	Photo  string `json:"photo"`
}

func (*SetChatPhoto) APIMethod() string { return "setChatPhoto" }

func (r *SetChatPhoto) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	_, _, photo, ok := metadataSlots(room)
	if !ok {
		return failKind(ErrWrongChatKind)
	}
	if errResp := e.requireBotRight(room, CapChangeInfo); errResp != nil {
		return *errResp
	}
	*photo = &ChatPhoto{
		SmallFileID:       e.ids.fileID(),
		SmallFileUniqueID: e.ids.fileUniqueID(),
		BigFileID:         e.ids.fileID(),
		BigFileUniqueID:   e.ids.fileUniqueID(),
	}
	return resultOf(true)
}

type DeleteChatPhoto struct {
	ChatID ChatID `json:"chat_id"`
}

func (*DeleteChatPhoto) APIMethod() string { return "deleteChatPhoto" }

func (r *DeleteChatPhoto) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	_, _, photo, ok := metadataSlots(room)
	if !ok {
		return failKind(ErrWrongChatKind)
	}
	if errResp := e.requireBotRight(room, CapChangeInfo); errResp != nil {
		return *errResp
	}
	*photo = nil
	return resultOf(true)
}

type PinChatMessage struct {
	ChatID              ChatID `json:"chat_id"`
	MessageID           int    `json:"message_id"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
}

func (*PinChatMessage) APIMethod() string { return "pinChatMessage" }

func (r *PinChatMessage) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	pinned, store := pinStore(room)
	if _, isPrivate := room.(*PrivateChat); !isPrivate {
		if errResp := e.requireBotRight(room, CapPinMessages); errResp != nil {
			return *errResp
		}
	}
	message, ok := store[r.MessageID]
	if !ok {
		return failKind(ErrMessageNotFound)
	}
	// Re-pinning moves the message to the most-recent slot.
	for i, m := range *pinned {
		if m.MessageID == r.MessageID {
			*pinned = append((*pinned)[:i], (*pinned)[i+1:]...)
			break
		}
	}
	*pinned = append(*pinned, message)
	return resultOf(true)
}

type UnpinChatMessage struct {
	ChatID    ChatID `json:"chat_id"`
	MessageID int    `json:"message_id,omitempty"`
}

func (*UnpinChatMessage) APIMethod() string { return "unpinChatMessage" }

func (r *UnpinChatMessage) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	pinned, store := pinStore(room)
	if _, isPrivate := room.(*PrivateChat); !isPrivate {
		if errResp := e.requireBotRight(room, CapPinMessages); errResp != nil {
			return *errResp
		}
	}
	target := r.MessageID
	if target == 0 {
		latest := lastPinned(*pinned, store)
		if latest == nil {
			return failWith(ErrMessageNotFound, "no pinned message to unpin")
		}
		target = latest.MessageID
	}
	for i, m := range *pinned {
		if m.MessageID == target {
			*pinned = append((*pinned)[:i], (*pinned)[i+1:]...)
			return resultOf(true)
		}
	}
	return failWith(ErrMessageNotFound, "message is not pinned")
}

type UnpinAllChatMessages struct {
	ChatID ChatID `json:"chat_id"`
}

func (*UnpinAllChatMessages) APIMethod() string { return "unpinAllChatMessages" }

func (r *UnpinAllChatMessages) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	pinned, _ := pinStore(room)
	if _, isPrivate := room.(*PrivateChat); !isPrivate {
		if errResp := e.requireBotRight(room, CapPinMessages); errResp != nil {
			return *errResp
		}
	}
	*pinned = nil
	return resultOf(true)
}

type LeaveChat struct {
	ChatID ChatID `json:"chat_id"`
}

func (*LeaveChat) APIMethod() string { return "leaveChat" }

func (r *LeaveChat) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	_, roster, ok := chatRoster(room)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	record, found := resolveMember(nil, roster, e.bot.ID, e.now())
	if !found {
		return failKind(ErrNotAMember)
	}
	roster[e.bot.ID] = &ChatMemberLeft{User: record.MemberUser()}
	return resultOf(true)
}

type BanChatMember struct {
	ChatID         ChatID `json:"chat_id"`
	UserID         int64  `json:"user_id"`
	UntilDate      int64  `json:"until_date,omitempty"`
	RevokeMessages bool   `json:"revoke_messages,omitempty"`
}

func (*BanChatMember) APIMethod() string { return "banChatMember" }

func (r *BanChatMember) handle(e *Environment) Response {
	chat, errResp := e.supergroupGate(r.ChatID, CapRestrictMembers)
	if errResp != nil {
		return *errResp
	}
	if record, found := chat.Member(r.UserID); found {
		switch record.(type) {
		case *ChatMemberOwner:
			return failWith(ErrInsufficientRights, "can't remove the chat owner")
		case *ChatMemberAdministrator:
			return failWith(ErrInsufficientRights, "user is an administrator of the chat")
		}
	}
	user := e.userRef(chat.members, r.UserID)
	if user == nil {
		return failKind(ErrUserNotFound)
	}
	chat.setMember(r.UserID, &ChatMemberBanned{User: user, UntilDate: r.UntilDate})
	if r.RevokeMessages {
		for id, m := range chat.messages {
			if m.From != nil && m.From.ID == r.UserID {
				delete(chat.messages, id)
			}
		}
	}
	return resultOf(true)
}

type UnbanChatMember struct {
	ChatID       ChatID `json:"chat_id"`
	UserID       int64  `json:"user_id"`
	OnlyIfBanned bool   `json:"only_if_banned,omitempty"`
}

func (*UnbanChatMember) APIMethod() string { return "unbanChatMember" }

func (r *UnbanChatMember) handle(e *Environment) Response {
	chat, errResp := e.supergroupGate(r.ChatID, CapRestrictMembers)
	if errResp != nil {
		return *errResp
	}
	record, found := chat.Member(r.UserID)
	if !found {
		return resultOf(true)
	}
	switch m := record.(type) {
	case *ChatMemberBanned:
		chat.setMember(r.UserID, &ChatMemberLeft{User: m.User})
	case *ChatMemberMember:
		// Unbanning a present member throws them out unless the caller
		// asked for a banned-only unban.
		if !r.OnlyIfBanned {
			delete(chat.members, r.UserID)
		}
	}
	return resultOf(true)
}

type RestrictChatMember struct {
	ChatID      ChatID          `json:"chat_id"`
	UserID      int64           `json:"user_id"`
	Permissions ChatPermissions `json:"permissions"`
	UntilDate   int64           `json:"until_date,omitempty"`
}

func (*RestrictChatMember) APIMethod() string { return "restrictChatMember" }

func (r *RestrictChatMember) handle(e *Environment) Response {
	chat, errResp := e.supergroupGate(r.ChatID, CapRestrictMembers)
	if errResp != nil {
		return *errResp
	}
	record, found := chat.Member(r.UserID)
	if !found {
		return failKind(ErrMemberNotFound)
	}
	switch record.(type) {
	case *ChatMemberOwner:
		return failWith(ErrInsufficientRights, "can't restrict the chat owner")
	case *ChatMemberAdministrator:
		return failWith(ErrInsufficientRights, "user is an administrator of the chat")
	}
	// Granting back exactly the chat defaults lifts the restriction.
	if r.Permissions == chat.permissions {
		chat.setMember(r.UserID, &ChatMemberMember{User: record.MemberUser()})
		return resultOf(true)
	}
	isMember := false
	switch m := record.(type) {
	case *ChatMemberMember:
		isMember = true
	case *ChatMemberRestricted:
		isMember = m.IsMember
	}
	chat.setMember(r.UserID, &ChatMemberRestricted{
		User:            record.MemberUser(),
		IsMember:        isMember,
		UntilDate:       r.UntilDate,
		ChatPermissions: r.Permissions,
	})
	return resultOf(true)
}

type PromoteChatMember struct {
	ChatID              ChatID `json:"chat_id"`
	UserID              int64  `json:"user_id"`
	IsAnonymous         bool   `json:"is_anonymous,omitempty"`
	CanManageChat       bool   `json:"can_manage_chat,omitempty"`
	CanDeleteMessages   bool   `json:"can_delete_messages,omitempty"`
	CanManageVideoChats bool   `json:"can_manage_video_chats,omitempty"`
	CanRestrictMembers  bool   `json:"can_restrict_members,omitempty"`
	CanPromoteMembers   bool   `json:"can_promote_members,omitempty"`
	CanChangeInfo       bool   `json:"can_change_info,omitempty"`
	CanInviteUsers      bool   `json:"can_invite_users,omitempty"`
	CanPostMessages     bool   `json:"can_post_messages,omitempty"`
	CanEditMessages     bool   `json:"can_edit_messages,omitempty"`
	CanPinMessages      bool   `json:"can_pin_messages,omitempty"`
	CanManageTopics     bool   `json:"can_manage_topics,omitempty"`
}

func (r *PromoteChatMember) rights() ChatAdministratorRights {
	return ChatAdministratorRights{
		IsAnonymous:         r.IsAnonymous,
		CanManageChat:       r.CanManageChat,
		CanDeleteMessages:   r.CanDeleteMessages,
		CanManageVideoChats: r.CanManageVideoChats,
		CanRestrictMembers:  r.CanRestrictMembers,
		CanPromoteMembers:   r.CanPromoteMembers,
		CanChangeInfo:       r.CanChangeInfo,
		CanInviteUsers:      r.CanInviteUsers,
		CanPostMessages:     r.CanPostMessages,
		CanEditMessages:     r.CanEditMessages,
		CanPinMessages:      r.CanPinMessages,
		CanManageTopics:     r.CanManageTopics,
	}
}

func (*PromoteChatMember) APIMethod() string { return "promoteChatMember" }

func (r *PromoteChatMember) handle(e *Environment) Response {
	chat, errResp := e.supergroupGate(r.ChatID, CapPromoteMembers)
	if errResp != nil {
		return *errResp
	}
	requested := r.rights()
	// The bot may not hand out rights it does not hold itself.
	botRecord, _ := chat.Member(e.bot.ID)
	if botAdmin, ok := botRecord.(*ChatMemberAdministrator); ok {
		for _, right := range adminRightOrder {
			get := adminRightLookup[right]
			if get(&requested) && !get(&botAdmin.ChatAdministratorRights) {
				return failWith(ErrInsufficientRights, "can't grant "+string(right))
			}
		}
	}
	record, found := chat.Member(r.UserID)
	if !found {
		return failKind(ErrMemberNotFound)
	}
	demote := requested == ChatAdministratorRights{}
	switch m := record.(type) {
	case *ChatMemberOwner:
		return failWith(ErrInsufficientRights, "can't promote the chat owner")
	case *ChatMemberAdministrator:
		if !m.CanBeEdited {
			return failWith(ErrInsufficientRights, "user is not an administrator appointed by the bot")
		}
		if demote {
			chat.setMember(r.UserID, &ChatMemberMember{User: m.User})
			chat.appointedAdmins.Delete(r.UserID)
			return resultOf(true)
		}
		m.ChatAdministratorRights = requested
		return resultOf(true)
	case *ChatMemberMember:
		if demote {
			return failWith(ErrInvalidPayload, "no administrator rights were granted")
		}
		chat.setMember(r.UserID, &ChatMemberAdministrator{
			User:                    m.User,
			CanBeEdited:             true,
			ChatAdministratorRights: requested,
		})
		chat.appointedAdmins.Add(r.UserID)
		return resultOf(true)
	default:
		return failKind(ErrNotAMember)
	}
}

type SetChatAdministratorCustomTitle struct {
	ChatID      ChatID `json:"chat_id"`
	UserID      int64  `json:"user_id"`
	CustomTitle string `json:"custom_title" limit:"1-16" noemoji:"true"`
}

func (*SetChatAdministratorCustomTitle) APIMethod() string { return "setChatAdministratorCustomTitle" }

func (r *SetChatAdministratorCustomTitle) handle(e *Environment) Response {
	chat, errResp := e.supergroupGate(r.ChatID, CapPromoteMembers)
	if errResp != nil {
		return *errResp
	}
	if resp := checkLimits(r); resp != nil {
		return *resp
	}
	record, found := chat.Member(r.UserID)
	if !found {
		return failKind(ErrMemberNotFound)
	}
	switch m := record.(type) {
	case *ChatMemberOwner:
		return failWith(ErrInsufficientRights, "can't edit the chat owner")
	case *ChatMemberAdministrator:
		if !m.CanBeEdited {
			return failWith(ErrInsufficientRights, "user is not an administrator appointed by the bot")
		}
		m.CustomTitle = r.CustomTitle
		return resultOf(true)
	default:
		return failWith(ErrInvalidPayload, "user is not an administrator")
	}
}

type BanChatSenderChat struct {
	ChatID       ChatID `json:"chat_id"`
	SenderChatID int64  `json:"sender_chat_id"`
}

func (*BanChatSenderChat) APIMethod() string { return "banChatSenderChat" }

func (r *BanChatSenderChat) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	banned, ok := senderBanSet(room)
	if !ok {
		return failKind(ErrWrongChatKind)
	}
	if errResp := e.requireBotRight(room, CapRestrictMembers); errResp != nil {
		return *errResp
	}
	banned.Add(r.SenderChatID)
	return resultOf(true)
}

type UnbanChatSenderChat struct {
	ChatID       ChatID `json:"chat_id"`
	SenderChatID int64  `json:"sender_chat_id"`
}

func (*UnbanChatSenderChat) APIMethod() string { return "unbanChatSenderChat" }

func (r *UnbanChatSenderChat) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	banned, ok := senderBanSet(room)
	if !ok {
		return failKind(ErrWrongChatKind)
	}
	if errResp := e.requireBotRight(room, CapRestrictMembers); errResp != nil {
		return *errResp
	}
	banned.Delete(r.SenderChatID)
	return resultOf(true)
}

type SetChatPermissions struct {
	ChatID      ChatID          `json:"chat_id"`
	Permissions ChatPermissions `json:"permissions"`
}

func (*SetChatPermissions) APIMethod() string { return "setChatPermissions" }

func (r *SetChatPermissions) handle(e *Environment) Response {
	chat, errResp := e.supergroupGate(r.ChatID, CapRestrictMembers)
	if errResp != nil {
		return *errResp
	}
	chat.permissions = r.Permissions
	return resultOf(true)
}

type SetChatStickerSet struct {
	ChatID         ChatID `json:"chat_id"`
	StickerSetName string `json:"sticker_set_name"`
}

func (*SetChatStickerSet) APIMethod() string { return "setChatStickerSet" }

func (r *SetChatStickerSet) handle(e *Environment) Response {
	chat, errResp := e.supergroupGate(r.ChatID, CapChangeInfo)
	if errResp != nil {
		return *errResp
	}
	if !chat.canSetStickerSet {
		return failWith(ErrInvalidPayload, "can't set supergroup sticker set")
	}
	chat.stickerSetName = r.StickerSetName
	return resultOf(true)
}

type DeleteChatStickerSet struct {
	ChatID ChatID `json:"chat_id"`
}

func (*DeleteChatStickerSet) APIMethod() string { return "deleteChatStickerSet" }

func (r *DeleteChatStickerSet) handle(e *Environment) Response {
	chat, errResp := e.supergroupGate(r.ChatID, CapChangeInfo)
	if errResp != nil {
		return *errResp
	}
	if !chat.canSetStickerSet {
		return failWith(ErrInvalidPayload, "can't set supergroup sticker set")
	}
	chat.stickerSetName = ""
	return resultOf(true)
}
