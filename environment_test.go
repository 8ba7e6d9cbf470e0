// Copyright (c) 2024 RoseLoverX

package botmock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/botmock"
)

func TestNewEnvironmentDefaults(t *testing.T) {
	env := botmock.NewEnvironment()
	bot := env.Bot()
	require.NotNil(t, bot)
	assert.True(t, bot.IsBot)
	assert.True(t, bot.CanJoinGroups)
	assert.NotZero(t, bot.ID)
	assert.Equal(t, "testbot", bot.Username)
}

func TestNewEnvironmentCustomBot(t *testing.T) {
	custom := &botmock.User{ID: 42, IsBot: true, FirstName: "Probe", Username: "probebot"}
	env := botmock.NewEnvironment(botmock.Options{Bot: custom})
	assert.Same(t, custom, env.Bot())
}

func TestEnvironmentsAreIndependent(t *testing.T) {
	a := botmock.NewEnvironment(botmock.Options{Seed: 5})
	b := botmock.NewEnvironment(botmock.Options{Seed: 6})
	assert.NotEqual(t, a.Bot().ID, b.Bot().ID)

	_, err := a.NewUser(botmock.PrivateChatDetails{ID: 111, FirstName: "Alice"})
	require.NoError(t, err)
	_, err = b.NewUser(botmock.PrivateChatDetails{ID: 111, FirstName: "Other Alice"})
	require.NoError(t, err)
}

func TestDuplicateChatRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.env.NewUser(botmock.PrivateChatDetails{ID: 111, FirstName: "Clone"})
	require.Error(t, err)

	_, err = f.env.NewGroup(botmock.GroupChatDetails{ID: -1001000, Title: "Clash", OwnerID: 111})
	require.Error(t, err)
}

func TestBotCannotOwnAChat(t *testing.T) {
	f := newFixture(t)
	_, err := f.env.NewGroup(botmock.GroupChatDetails{ID: -500, Title: "Botland", OwnerID: f.env.Bot().ID})
	require.Error(t, err)
}

func TestResolveUsername(t *testing.T) {
	f := newFixture(t)

	room, ok := f.env.ResolveUsername("guildchat")
	require.True(t, ok)
	assert.Equal(t, f.group.ID(), room.ID())

	room, ok = f.env.ResolveUsername("alice")
	require.True(t, ok)
	assert.Equal(t, int64(111), room.ID())

	_, ok = f.env.ResolveUsername("nobody")
	assert.False(t, ok)
}

func TestMembershipLookups(t *testing.T) {
	f := newFixture(t)

	record, errResp := f.env.Membership(f.group.ID(), 111)
	require.Nil(t, errResp)
	assert.Equal(t, "creator", record.MemberStatus())

	record, errResp = f.env.Membership(f.group.ID(), 222)
	require.Nil(t, errResp)
	assert.Equal(t, "member", record.MemberStatus())

	_, errResp = f.env.Membership(f.group.ID(), 333)
	require.NotNil(t, errResp)
	assert.Equal(t, 404, errResp.ErrorCode)

	// Membership is meaningless in private chats.
	_, errResp = f.env.Membership(111, 111)
	require.NotNil(t, errResp)
	assert.Equal(t, 404, errResp.ErrorCode)
}

func TestCanInPrivateChat(t *testing.T) {
	f := newFixture(t)

	allowed, errResp := f.env.Can(111, 111, botmock.CapSendMessages)
	require.Nil(t, errResp)
	assert.True(t, allowed)

	// Administrator rights make no sense in a private chat.
	_, errResp = f.env.Can(111, 111, botmock.CapManageChat)
	require.NotNil(t, errResp)
	assert.Equal(t, 400, errResp.ErrorCode)
}

func TestSubmitUpdateStampsIDs(t *testing.T) {
	f := newFixture(t)

	first := f.env.SubmitUpdate(&botmock.Update{})
	second := f.env.SubmitUpdate(&botmock.Update{})
	assert.Equal(t, int64(100000000), first.UpdateID)
	assert.Equal(t, int64(100000001), second.UpdateID)
	assert.Len(t, f.updates, 2)
}

func TestSinkMayCallBackIn(t *testing.T) {
	var got botmock.Response

	// Reentrant dispatch from inside the sink must not deadlock.
	var reentrant *botmock.Environment
	reentrant = botmock.NewEnvironment(botmock.Options{
		Seed: 5,
		Sink: func(u *botmock.Update) {
			got = reentrant.Call("getMe", nil)
		},
	})
	reentrant.SubmitUpdate(&botmock.Update{})
	require.True(t, got.OK)
}

func TestSimulateMessage(t *testing.T) {
	f := newFixture(t)

	update, ok := f.env.SimulateMessage(f.group.ID(), f.bob, "hello there")
	require.True(t, ok)
	require.NotNil(t, update.Message)
	assert.Equal(t, "hello there", update.Message.Text)
	assert.Equal(t, 3, update.Message.MessageID)
	assert.Equal(t, f.bob.User(), update.Message.From)
	assert.Equal(t, f.group.ID(), update.Message.Chat.ID)

	_, ok = f.env.SimulateMessage(999999, f.bob, "void")
	assert.False(t, ok)
}

func TestSimulateCallbackQuery(t *testing.T) {
	f := newFixture(t)

	sent, ok := f.env.SimulateMessage(f.group.ID(), f.bob, "press me")
	require.True(t, ok)
	update := f.env.SimulateCallbackQuery(f.bob, sent.Message, "clicked")
	require.NotNil(t, update.CallbackQuery)
	assert.Equal(t, "clicked", update.CallbackQuery.Data)
	assert.NotEmpty(t, update.CallbackQuery.ID)
	assert.NotEmpty(t, update.CallbackQuery.ChatInstance)
}
