// Copyright (c) 2024 RoseLoverX

package botmock

// chatStore is the message-store surface every chat entity shares.
type chatStore interface {
	ChatRoom
	Message(id int) (*Message, bool)
	putMessage(m *Message) *Message
	deleteMessage(id int) bool
}

type SendMessage struct {
	ChatID                   ChatID          `json:"chat_id"`
	Text                     string          `json:"text" limit:"1-4096"`
	ParseMode                string          `json:"parse_mode,omitempty"`
	Entities                 []MessageEntity `json:"entities,omitempty"`
	DisableNotification      bool            `json:"disable_notification,omitempty"`
	ProtectContent           bool            `json:"protect_content,omitempty"`
	ReplyToMessageID         int             `json:"reply_to_message_id,omitempty"`
	AllowSendingWithoutReply bool            `json:"allow_sending_without_reply,omitempty"`
}

func (*SendMessage) APIMethod() string { return "sendMessage" }

func (r *SendMessage) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	if errResp := e.canBotPost(room); errResp != nil {
		return *errResp
	}
	if resp := checkLimits(r); resp != nil {
		return *resp
	}
	store := room.(chatStore)
	var reply *Message
	if r.ReplyToMessageID != 0 {
		reply, ok = store.Message(r.ReplyToMessageID)
		if !ok && !r.AllowSendingWithoutReply {
			return failKind(ErrReplyToMessageNotFound)
		}
	}
	message := store.putMessage(&Message{
		From:                e.bot,
		Date:                e.now(),
		Text:                r.Text,
		Entities:            append([]MessageEntity(nil), r.Entities...),
		ReplyToMessage:      reply,
		HasProtectedContent: r.ProtectContent,
	})
	return resultOf(message)
}

// canBotPost decides whether the bot may write into the chat: private
// chats always, groups and supergroups by the member permission model,
// channels only for the creator or an administrator with post rights.
func (e *Environment) canBotPost(room ChatRoom) *Response {
	switch chat := room.(type) {
	case *PrivateChat:
		return nil
	case *ChannelChat:
		record, found := resolveMember(chat.creator, chat.members, e.bot.ID, e.now())
		if !found {
			resp := failKind(ErrNotAMember)
			return &resp
		}
		switch r := record.(type) {
		case *ChatMemberOwner:
			return nil
		case *ChatMemberAdministrator:
			if r.CanPostMessages {
				return nil
			}
		}
		resp := failKind(ErrInsufficientRights)
		return &resp
	default:
		creator, roster, ok := chatRoster(room)
		if !ok {
			resp := failKind(ErrChatNotFound)
			return &resp
		}
		record, found := resolveMember(creator, roster, e.bot.ID, e.now())
		if !found {
			resp := failKind(ErrNotAMember)
			return &resp
		}
		switch record.(type) {
		case *ChatMemberOwner, *ChatMemberAdministrator:
			return nil
		}
		allowed, errResp := authorize(record, CapSendMessages, memberDefaults(room))
		if errResp != nil {
			return errResp
		}
		if !allowed {
			resp := failKind(ErrInsufficientRights)
			return &resp
		}
		return nil
	}
}

type DeleteMessage struct {
	ChatID    ChatID `json:"chat_id"`
	MessageID int    `json:"message_id"`
}

func (*DeleteMessage) APIMethod() string { return "deleteMessage" }

func (r *DeleteMessage) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	store := room.(chatStore)
	message, ok := store.Message(r.MessageID)
	if !ok {
		return failKind(ErrMessageNotFound)
	}
	if _, isPrivate := room.(*PrivateChat); !isPrivate {
		ownMessage := message.From != nil && message.From.ID == e.bot.ID
		if !ownMessage {
			if errResp := e.requireBotRight(room, CapDeleteMessages); errResp != nil {
				return *errResp
			}
		}
	}
	store.deleteMessage(r.MessageID)
	return resultOf(true)
}
