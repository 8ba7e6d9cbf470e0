// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"encoding/json"
	"strconv"
	"strings"
)

// User is a Telegram user or bot identity. Users are never deleted once
// referenced; identity outlives membership.
type User struct {
	ID                    int64  `json:"id"`
	IsBot                 bool   `json:"is_bot"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name,omitempty"`
	Username              string `json:"username,omitempty"`
	LanguageCode          string `json:"language_code,omitempty"`
	IsPremium             bool   `json:"is_premium,omitempty"`
	AddedToAttachmentMenu bool   `json:"added_to_attachment_menu,omitempty"`

	// Fields only meaningful for the bot itself (getMe).
	CanJoinGroups           bool `json:"can_join_groups,omitempty"`
	CanReadAllGroupMessages bool `json:"can_read_all_group_messages,omitempty"`
	SupportsInlineQueries   bool `json:"supports_inline_queries,omitempty"`
}

type ChatKind string

const (
	ChatKindPrivate    ChatKind = "private"
	ChatKindGroup      ChatKind = "group"
	ChatKindSupergroup ChatKind = "supergroup"
	ChatKindChannel    ChatKind = "channel"
)

// Chat is the externally visible description of a chat, i.e. what the
// getChat method returns. Entities build it on demand by merging their
// base fields, caller-supplied metadata and the latest pinned message.
type Chat struct {
	ID                  int64            `json:"id"`
	Type                ChatKind         `json:"type"`
	Title               string           `json:"title,omitempty"`
	Username            string           `json:"username,omitempty"`
	FirstName           string           `json:"first_name,omitempty"`
	LastName            string           `json:"last_name,omitempty"`
	IsForum             bool             `json:"is_forum,omitempty"`
	Photo               *ChatPhoto       `json:"photo,omitempty"`
	Bio                 string           `json:"bio,omitempty"`
	Description         string           `json:"description,omitempty"`
	InviteLink          string           `json:"invite_link,omitempty"`
	PinnedMessage       *Message         `json:"pinned_message,omitempty"`
	Permissions         *ChatPermissions `json:"permissions,omitempty"`
	SlowModeDelay       int              `json:"slow_mode_delay,omitempty"`
	StickerSetName      string           `json:"sticker_set_name,omitempty"`
	CanSetStickerSet    bool             `json:"can_set_sticker_set,omitempty"`
	LinkedChatID        int64            `json:"linked_chat_id,omitempty"`
	HasProtectedContent bool             `json:"has_protected_content,omitempty"`
}

type ChatPhoto struct {
	SmallFileID       string `json:"small_file_id"`
	SmallFileUniqueID string `json:"small_file_unique_id"`
	BigFileID         string `json:"big_file_id"`
	BigFileUniqueID   string `json:"big_file_unique_id"`
}

// ChatPermissions is the member-level permission bundle of a group or
// supergroup: what an ordinary (or restricted) member may do.
type ChatPermissions struct {
	CanSendMessages       bool `json:"can_send_messages"`
	CanSendMediaMessages  bool `json:"can_send_media_messages"`
	CanSendPolls          bool `json:"can_send_polls"`
	CanSendOtherMessages  bool `json:"can_send_other_messages"`
	CanAddWebPagePreviews bool `json:"can_add_web_page_previews"`
	CanChangeInfo         bool `json:"can_change_info"`
	CanInviteUsers        bool `json:"can_invite_users"`
	CanPinMessages        bool `json:"can_pin_messages"`
}

// ChatAdministratorRights is the administrator-level rights bundle.
type ChatAdministratorRights struct {
	IsAnonymous         bool `json:"is_anonymous"`
	CanManageChat       bool `json:"can_manage_chat"`
	CanDeleteMessages   bool `json:"can_delete_messages"`
	CanManageVideoChats bool `json:"can_manage_video_chats"`
	CanRestrictMembers  bool `json:"can_restrict_members"`
	CanPromoteMembers   bool `json:"can_promote_members"`
	CanChangeInfo       bool `json:"can_change_info"`
	CanInviteUsers      bool `json:"can_invite_users"`
	CanPostMessages     bool `json:"can_post_messages"`
	CanEditMessages     bool `json:"can_edit_messages"`
	CanPinMessages      bool `json:"can_pin_messages"`
	CanManageTopics     bool `json:"can_manage_topics"`
}

type MessageEntity struct {
	Type     string `json:"type"`
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
	URL      string `json:"url,omitempty"`
	User     *User  `json:"user,omitempty"`
	Language string `json:"language,omitempty"`
}

// Message belongs to exactly one chat. Per-chat message ids increase
// monotonically and are never reused.
type Message struct {
	MessageID           int             `json:"message_id"`
	From                *User           `json:"from,omitempty"`
	SenderChat          *Chat           `json:"sender_chat,omitempty"`
	Date                int64           `json:"date"`
	Chat                *Chat           `json:"chat"`
	MessageThreadID     int             `json:"message_thread_id,omitempty"`
	Text                string          `json:"text,omitempty"`
	Entities            []MessageEntity `json:"entities,omitempty"`
	ReplyToMessage      *Message        `json:"reply_to_message,omitempty"`
	HasProtectedContent bool            `json:"has_protected_content,omitempty"`
	PinnedMessage       *Message        `json:"pinned_message,omitempty"`
}

// ChatMember is the membership record of a user in a chat, tagged by
// status. Exactly one variant exists per user per chat.
type ChatMember interface {
	MemberStatus() string
	MemberUser() *User
}

type ChatMemberOwner struct {
	User        *User  `json:"user"`
	IsAnonymous bool   `json:"is_anonymous"`
	CustomTitle string `json:"custom_title,omitempty"`
}

type ChatMemberAdministrator struct {
	User        *User  `json:"user"`
	CanBeEdited bool   `json:"can_be_edited"`
	CustomTitle string `json:"custom_title,omitempty"`
	ChatAdministratorRights
}

type ChatMemberMember struct {
	User *User `json:"user"`
}

type ChatMemberRestricted struct {
	User      *User `json:"user"`
	IsMember  bool  `json:"is_member"`
	UntilDate int64 `json:"until_date"`
	ChatPermissions
}

type ChatMemberLeft struct {
	User *User `json:"user"`
}

type ChatMemberBanned struct {
	User *User `json:"user"`
	// UntilDate of zero means the ban never expires.
	UntilDate int64 `json:"until_date"`
}

func (m *ChatMemberOwner) MemberStatus() string         { return "creator" }
func (m *ChatMemberAdministrator) MemberStatus() string { return "administrator" }
func (m *ChatMemberMember) MemberStatus() string        { return "member" }
func (m *ChatMemberRestricted) MemberStatus() string    { return "restricted" }
func (m *ChatMemberLeft) MemberStatus() string          { return "left" }
func (m *ChatMemberBanned) MemberStatus() string        { return "kicked" }

func (m *ChatMemberOwner) MemberUser() *User         { return m.User }
func (m *ChatMemberAdministrator) MemberUser() *User { return m.User }
func (m *ChatMemberMember) MemberUser() *User        { return m.User }
func (m *ChatMemberRestricted) MemberUser() *User    { return m.User }
func (m *ChatMemberLeft) MemberUser() *User          { return m.User }
func (m *ChatMemberBanned) MemberUser() *User        { return m.User }

func marshalMember(status string, v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tagged := []byte(`{"status":"` + status + `",`)
	if len(raw) == 2 { // empty object
		return append(tagged[:len(tagged)-1], '}'), nil
	}
	return append(tagged, raw[1:]...), nil
}

func (m *ChatMemberOwner) MarshalJSON() ([]byte, error) {
	type alias ChatMemberOwner
	return marshalMember("creator", (*alias)(m))
}

func (m *ChatMemberAdministrator) MarshalJSON() ([]byte, error) {
	type alias ChatMemberAdministrator
	return marshalMember("administrator", (*alias)(m))
}

func (m *ChatMemberMember) MarshalJSON() ([]byte, error) {
	type alias ChatMemberMember
	return marshalMember("member", (*alias)(m))
}

func (m *ChatMemberRestricted) MarshalJSON() ([]byte, error) {
	type alias ChatMemberRestricted
	return marshalMember("restricted", (*alias)(m))
}

func (m *ChatMemberLeft) MarshalJSON() ([]byte, error) {
	type alias ChatMemberLeft
	return marshalMember("left", (*alias)(m))
}

func (m *ChatMemberBanned) MarshalJSON() ([]byte, error) {
	type alias ChatMemberBanned
	return marshalMember("kicked", (*alias)(m))
}

type ChatInviteLink struct {
	InviteLink              string `json:"invite_link"`
	Creator                 *User  `json:"creator"`
	CreatesJoinRequest      bool   `json:"creates_join_request"`
	IsPrimary               bool   `json:"is_primary"`
	IsRevoked               bool   `json:"is_revoked"`
	Name                    string `json:"name,omitempty"`
	ExpireDate              int64  `json:"expire_date,omitempty"`
	MemberLimit             int    `json:"member_limit,omitempty"`
	PendingJoinRequestCount int    `json:"pending_join_request_count,omitempty"`
}

type ChatJoinRequest struct {
	Chat       *Chat           `json:"chat"`
	From       *User           `json:"from"`
	UserChatID int64           `json:"user_chat_id"`
	Date       int64           `json:"date"`
	Bio        string          `json:"bio,omitempty"`
	InviteLink *ChatInviteLink `json:"invite_link,omitempty"`
}

type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// BotCommandScope selects which command set a setMyCommands call
// addresses. ChatID and UserID are only meaningful for the chat-scoped
// scope types.
type BotCommandScope struct {
	Type   string `json:"type"`
	ChatID ChatID `json:"chat_id,omitempty"`
	UserID int64  `json:"user_id,omitempty"`
}

type WebAppInfo struct {
	URL string `json:"url"`
}

type MenuButton struct {
	Type   string      `json:"type"`
	Text   string      `json:"text,omitempty"`
	WebApp *WebAppInfo `json:"web_app,omitempty"`
}

type ChatMemberUpdated struct {
	Chat          *Chat           `json:"chat"`
	From          *User           `json:"from"`
	Date          int64           `json:"date"`
	OldChatMember ChatMember      `json:"old_chat_member"`
	NewChatMember ChatMember      `json:"new_chat_member"`
	InviteLink    *ChatInviteLink `json:"invite_link,omitempty"`
}

type CallbackQuery struct {
	ID           string   `json:"id"`
	From         *User    `json:"from"`
	Message      *Message `json:"message,omitempty"`
	ChatInstance string   `json:"chat_instance"`
	Data         string   `json:"data,omitempty"`
}

// Update is the event envelope delivered to the code under test through
// the environment's update sink.
type Update struct {
	UpdateID        int64              `json:"update_id"`
	Message         *Message           `json:"message,omitempty"`
	EditedMessage   *Message           `json:"edited_message,omitempty"`
	ChannelPost     *Message           `json:"channel_post,omitempty"`
	CallbackQuery   *CallbackQuery     `json:"callback_query,omitempty"`
	MyChatMember    *ChatMemberUpdated `json:"my_chat_member,omitempty"`
	ChatMember      *ChatMemberUpdated `json:"chat_member,omitempty"`
	ChatJoinRequest *ChatJoinRequest   `json:"chat_join_request,omitempty"`
}

// ChatID addresses a chat either by its numeric id or by @username, the
// two forms the real API accepts in chat_id fields.
type ChatID struct {
	ID       int64
	Username string
}

func ByID(id int64) ChatID {
	return ChatID{ID: id}
}

func ByUsername(username string) ChatID {
	return ChatID{Username: strings.TrimPrefix(username, "@")}
}

func (c ChatID) isZero() bool {
	return c.ID == 0 && c.Username == ""
}

func (c ChatID) MarshalJSON() ([]byte, error) {
	if c.Username != "" {
		return json.Marshal("@" + c.Username)
	}
	return json.Marshal(c.ID)
}

func (c *ChatID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.Username = strings.TrimPrefix(s, "@")
		return nil
	}
	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}
