// Copyright (c) 2024 RoseLoverX

package botmock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/botmock"
)

func sendText(t *testing.T, f *fixture, chatID botmock.ChatID, text string) *botmock.Message {
	t.Helper()
	resp := f.env.Invoke(&botmock.SendMessage{ChatID: chatID, Text: text})
	requireOK(t, resp)
	return resp.Result.(*botmock.Message)
}

func TestSendMessagePrivate(t *testing.T) {
	f := newFixture(t)

	first := sendText(t, f, botmock.ByID(111), "hello")
	assert.Equal(t, 3, first.MessageID)
	assert.Equal(t, "hello", first.Text)
	assert.Equal(t, f.env.Bot().ID, first.From.ID)
	assert.Equal(t, int64(111), first.Chat.ID)
	assert.Equal(t, startTime, first.Date)

	second := sendText(t, f, botmock.ByUsername("alice"), "again")
	assert.Equal(t, 4, second.MessageID)

	// Message ids are per chat.
	other := sendText(t, f, botmock.ByID(222), "hi bob")
	assert.Equal(t, 3, other.MessageID)
}

func TestSendMessageUnknownChat(t *testing.T) {
	f := newFixture(t)
	resp := f.env.Invoke(&botmock.SendMessage{ChatID: botmock.ByID(987654), Text: "void"})
	requireFail(t, resp, 404)
}

func TestSendMessageEmptyText(t *testing.T) {
	f := newFixture(t)
	resp := f.env.Invoke(&botmock.SendMessage{ChatID: botmock.ByID(111)})
	requireFail(t, resp, 400)
}

func TestSendMessageReplyTo(t *testing.T) {
	f := newFixture(t)
	target := sendText(t, f, botmock.ByID(111), "original")

	resp := f.env.Invoke(&botmock.SendMessage{
		ChatID:           botmock.ByID(111),
		Text:             "answer",
		ReplyToMessageID: target.MessageID,
	})
	requireOK(t, resp)
	reply := resp.Result.(*botmock.Message)
	require.NotNil(t, reply.ReplyToMessage)
	assert.Equal(t, target.MessageID, reply.ReplyToMessage.MessageID)

	resp = f.env.Invoke(&botmock.SendMessage{
		ChatID:           botmock.ByID(111),
		Text:             "dangling",
		ReplyToMessageID: 999,
	})
	requireFail(t, resp, 404)

	resp = f.env.Invoke(&botmock.SendMessage{
		ChatID:                   botmock.ByID(111),
		Text:                     "tolerant",
		ReplyToMessageID:         999,
		AllowSendingWithoutReply: true,
	})
	requireOK(t, resp)
	assert.Nil(t, resp.Result.(*botmock.Message).ReplyToMessage)
}

func TestSendMessageRestrictedGroup(t *testing.T) {
	f := newFixture(t)

	// A supergroup where sending is off by default and the bot is a
	// plain member.
	muted, err := f.env.NewSupergroup(botmock.SupergroupChatDetails{
		ID:          -1002000,
		Title:       "Muted",
		OwnerID:     111,
		Members:     []botmock.ChatMember{&botmock.ChatMemberMember{User: f.env.Bot()}},
		Permissions: &botmock.ChatPermissions{},
	})
	require.NoError(t, err)

	resp := f.env.Invoke(&botmock.SendMessage{ChatID: botmock.ByID(muted.ID()), Text: "psst"})
	requireFail(t, resp, 403)

	// As an administrator the bot posts regardless of the defaults.
	sendText(t, f, botmock.ByID(f.group.ID()), "announcement")
}

func TestSendMessageChannel(t *testing.T) {
	f := newFixture(t)

	channel, err := f.env.NewChannel(botmock.ChannelChatDetails{
		ID:      -1003000,
		Title:   "Newsfeed",
		OwnerID: 111,
		Admins: []*botmock.ChatMemberAdministrator{{
			User: f.env.Bot(),
			ChatAdministratorRights: botmock.ChatAdministratorRights{
				CanManageChat: true,
			},
		}},
	})
	require.NoError(t, err)

	// Administrator without post rights.
	resp := f.env.Invoke(&botmock.SendMessage{ChatID: botmock.ByID(channel.ID()), Text: "breaking"})
	requireFail(t, resp, 403)

	posting, err := f.env.NewChannel(botmock.ChannelChatDetails{
		ID:      -1003001,
		Title:   "Megaphone",
		OwnerID: 111,
		Admins: []*botmock.ChatMemberAdministrator{{
			User: f.env.Bot(),
			ChatAdministratorRights: botmock.ChatAdministratorRights{
				CanPostMessages: true,
			},
		}},
	})
	require.NoError(t, err)
	message := sendText(t, f, botmock.ByID(posting.ID()), "breaking")
	assert.Equal(t, 3, message.MessageID)

	// A mere subscriber bot cannot post at all.
	silent, err := f.env.NewChannel(botmock.ChannelChatDetails{
		ID:      -1003002,
		Title:   "ReadOnly",
		OwnerID: 111,
		Members: []botmock.ChatMember{&botmock.ChatMemberMember{User: f.env.Bot()}},
	})
	require.NoError(t, err)
	resp = f.env.Invoke(&botmock.SendMessage{ChatID: botmock.ByID(silent.ID()), Text: "nope"})
	requireFail(t, resp, 403)
}

func TestDeleteMessage(t *testing.T) {
	f := newFixture(t)
	message := sendText(t, f, botmock.ByID(111), "disposable")

	requireOK(t, f.env.Invoke(&botmock.DeleteMessage{ChatID: botmock.ByID(111), MessageID: message.MessageID}))

	resp := f.env.Invoke(&botmock.DeleteMessage{ChatID: botmock.ByID(111), MessageID: message.MessageID})
	requireFail(t, resp, 404)
}

func TestDeleteForeignMessageNeedsRights(t *testing.T) {
	f := newFixture(t)

	update, ok := f.env.SimulateMessage(f.group.ID(), f.bob, "my words")
	require.True(t, ok)

	// The bot is a full administrator in the fixture group.
	requireOK(t, f.env.Invoke(&botmock.DeleteMessage{
		ChatID:    botmock.ByID(f.group.ID()),
		MessageID: update.Message.MessageID,
	}))

	// In a chat where the bot is a plain member, other people's
	// messages are out of reach.
	plain, err := f.env.NewSupergroup(botmock.SupergroupChatDetails{
		ID:      -1002001,
		Title:   "NoPower",
		OwnerID: 111,
		Members: []botmock.ChatMember{&botmock.ChatMemberMember{User: f.env.Bot()}},
	})
	require.NoError(t, err)
	foreign, ok := f.env.SimulateMessage(plain.ID(), f.bob, "untouchable")
	require.True(t, ok)
	resp := f.env.Invoke(&botmock.DeleteMessage{
		ChatID:    botmock.ByID(plain.ID()),
		MessageID: foreign.Message.MessageID,
	})
	requireFail(t, resp, 403)
}
