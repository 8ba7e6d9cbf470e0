// Copyright (c) 2024 RoseLoverX

package botmock

// Simulation helpers: the test harness side of the environment. These
// fabricate the inbound traffic a real backend would deliver, commit it
// to chat state and hand the resulting update to the sink.

func baseChatOf(room ChatRoom) *Chat {
	switch chat := room.(type) {
	case *PrivateChat:
		return chat.baseChat()
	case *GroupChat:
		return chat.baseChat()
	case *SupergroupChat:
		return chat.baseChat()
	case *ChannelChat:
		return chat.baseChat()
	}
	return nil
}

// SimulateMessage commits a text message from the given user into a
// chat and delivers it as an update. If the user currently acts as
// another chat, the message carries that chat as its sender. Channel
// chats deliver the update as a channel post.
func (e *Environment) SimulateMessage(chatID int64, from *PrivateChat, text string) (*Update, bool) {
	e.mu.Lock()
	room, ok := e.chats[chatID]
	if !ok {
		e.mu.Unlock()
		return nil, false
	}
	store, ok := room.(chatStore)
	if !ok {
		e.mu.Unlock()
		return nil, false
	}
	message := &Message{
		From: from.user,
		Date: e.now(),
		Text: text,
	}
	if from.actingAs != nil {
		message.SenderChat = baseChatOf(from.actingAs)
	}
	store.putMessage(message)
	e.mu.Unlock()
	update := &Update{}
	if room.Kind() == ChatKindChannel {
		update.ChannelPost = message
	} else {
		update.Message = message
	}
	return e.SubmitUpdate(update), true
}

// SimulateCallbackQuery delivers a button press by the given user on a
// message, with a fresh query id and chat instance.
func (e *Environment) SimulateCallbackQuery(from *PrivateChat, message *Message, data string) *Update {
	e.mu.Lock()
	query := &CallbackQuery{
		ID:           e.ids.callbackQueryID(),
		From:         from.user,
		Message:      message,
		ChatInstance: e.ids.chatInstance(),
		Data:         data,
	}
	e.mu.Unlock()
	return e.SubmitUpdate(&Update{CallbackQuery: query})
}

// SimulateJoinRequest queues a join request for the user in a
// supergroup or channel, optionally through one of the chat's invite
// links, and delivers the chat_join_request update.
func (e *Environment) SimulateJoinRequest(chatID int64, from *PrivateChat, bio string, inviteURL string) (*Update, bool) {
	e.mu.Lock()
	room, ok := e.chats[chatID]
	if !ok {
		e.mu.Unlock()
		return nil, false
	}
	var request *ChatJoinRequest
	switch chat := room.(type) {
	case *SupergroupChat:
		link, _ := chat.InviteLink(inviteURL)
		request = chat.AddJoinRequest(from.user, bio, link)
	case *ChannelChat:
		link, _ := chat.InviteLink(inviteURL)
		request = chat.AddJoinRequest(from.user, bio, link)
	default:
		e.mu.Unlock()
		return nil, false
	}
	e.mu.Unlock()
	return e.SubmitUpdate(&Update{ChatJoinRequest: request}), true
}

// SimulateMemberUpdate delivers a chat_member transition observed in a
// chat, as the backend reports when membership records change.
func (e *Environment) SimulateMemberUpdate(chatID int64, from *User, prev, next ChatMember) (*Update, bool) {
	e.mu.Lock()
	room, ok := e.chats[chatID]
	if !ok {
		e.mu.Unlock()
		return nil, false
	}
	updated := &ChatMemberUpdated{
		Chat:          baseChatOf(room),
		From:          from,
		Date:          e.now(),
		OldChatMember: prev,
		NewChatMember: next,
	}
	e.mu.Unlock()
	update := &Update{ChatMember: updated}
	if next != nil && next.MemberUser() != nil && next.MemberUser().ID == e.bot.ID {
		update = &Update{MyChatMember: updated}
	}
	return e.SubmitUpdate(update), true
}
