// Copyright (c) 2024 RoseLoverX

package botmock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/botmock"
)

func TestGetMe(t *testing.T) {
	f := newFixture(t)

	resp := f.env.Invoke(&botmock.GetMe{})
	requireOK(t, resp)
	user, ok := resp.Result.(*botmock.User)
	require.True(t, ok)
	assert.Equal(t, f.env.Bot().ID, user.ID)
	assert.True(t, user.IsBot)
}

func TestCommandRegistryScopes(t *testing.T) {
	f := newFixture(t)

	requireOK(t, f.env.Invoke(&botmock.SetMyCommands{
		Commands: []botmock.BotCommand{{Command: "start", Description: "begin"}},
	}))
	requireOK(t, f.env.Invoke(&botmock.SetMyCommands{
		Commands: []botmock.BotCommand{{Command: "admin", Description: "manage"}},
		Scope:    &botmock.BotCommandScope{Type: "chat", ChatID: botmock.ByID(f.group.ID())},
	}))
	requireOK(t, f.env.Invoke(&botmock.SetMyCommands{
		Commands:     []botmock.BotCommand{{Command: "hilfe", Description: "Hilfe anzeigen"}},
		LanguageCode: "de",
	}))

	resp := f.env.Invoke(&botmock.GetMyCommands{})
	requireOK(t, resp)
	commands := resp.Result.([]botmock.BotCommand)
	require.Len(t, commands, 1)
	assert.Equal(t, "start", commands[0].Command)

	resp = f.env.Invoke(&botmock.GetMyCommands{
		Scope: &botmock.BotCommandScope{Type: "chat", ChatID: botmock.ByUsername("guildchat")},
	})
	requireOK(t, resp)
	commands = resp.Result.([]botmock.BotCommand)
	require.Len(t, commands, 1)
	assert.Equal(t, "admin", commands[0].Command)

	resp = f.env.Invoke(&botmock.GetMyCommands{LanguageCode: "de"})
	requireOK(t, resp)
	assert.Equal(t, "hilfe", resp.Result.([]botmock.BotCommand)[0].Command)

	// Scopes never bleed into each other.
	resp = f.env.Invoke(&botmock.GetMyCommands{LanguageCode: "fr"})
	requireOK(t, resp)
	assert.Empty(t, resp.Result.([]botmock.BotCommand))

	requireOK(t, f.env.Invoke(&botmock.DeleteMyCommands{}))
	resp = f.env.Invoke(&botmock.GetMyCommands{})
	requireOK(t, resp)
	assert.Empty(t, resp.Result.([]botmock.BotCommand))
}

func TestCommandScopeNeedsExistingChat(t *testing.T) {
	f := newFixture(t)

	resp := f.env.Invoke(&botmock.SetMyCommands{
		Commands: []botmock.BotCommand{{Command: "x", Description: "y"}},
		Scope:    &botmock.BotCommandScope{Type: "chat", ChatID: botmock.ByID(424242)},
	})
	requireFail(t, resp, 404)
}

func TestChatMenuButton(t *testing.T) {
	f := newFixture(t)

	resp := f.env.Invoke(&botmock.GetChatMenuButton{})
	requireOK(t, resp)
	assert.Equal(t, "default", resp.Result.(botmock.MenuButton).Type)

	requireOK(t, f.env.Invoke(&botmock.SetChatMenuButton{
		ChatID:     botmock.ByID(111),
		MenuButton: &botmock.MenuButton{Type: "commands"},
	}))

	resp = f.env.Invoke(&botmock.GetChatMenuButton{ChatID: botmock.ByID(111)})
	requireOK(t, resp)
	assert.Equal(t, "commands", resp.Result.(botmock.MenuButton).Type)

	// Other private chats still see the environment default.
	resp = f.env.Invoke(&botmock.GetChatMenuButton{ChatID: botmock.ByID(222)})
	requireOK(t, resp)
	assert.Equal(t, "default", resp.Result.(botmock.MenuButton).Type)

	// Menu buttons are a private chat concept.
	resp = f.env.Invoke(&botmock.SetChatMenuButton{ChatID: botmock.ByID(f.group.ID())})
	requireFail(t, resp, 400)
}

func TestDefaultAdministratorRights(t *testing.T) {
	f := newFixture(t)

	requireOK(t, f.env.Invoke(&botmock.SetMyDefaultAdministratorRights{
		Rights: &botmock.ChatAdministratorRights{CanManageChat: true, CanPinMessages: true},
	}))
	resp := f.env.Invoke(&botmock.GetMyDefaultAdministratorRights{})
	requireOK(t, resp)
	rights := resp.Result.(botmock.ChatAdministratorRights)
	assert.True(t, rights.CanManageChat)
	assert.True(t, rights.CanPinMessages)
	assert.False(t, rights.CanPromoteMembers)

	// Channel defaults live in a separate slot.
	resp = f.env.Invoke(&botmock.GetMyDefaultAdministratorRights{ForChannels: true})
	requireOK(t, resp)
	assert.True(t, resp.Result.(botmock.ChatAdministratorRights).CanPostMessages)
}

func TestBotDescriptions(t *testing.T) {
	f := newFixture(t)

	requireOK(t, f.env.Invoke(&botmock.SetMyDescription{Description: "A bot under test."}))
	requireOK(t, f.env.Invoke(&botmock.SetMyShortDescription{ShortDescription: "test bot"}))

	resp := f.env.Invoke(&botmock.GetMyDescription{})
	requireOK(t, resp)
	assert.Equal(t, "A bot under test.", resp.Result.(botmock.BotDescription).Description)

	resp = f.env.Invoke(&botmock.GetMyShortDescription{})
	requireOK(t, resp)
	assert.Equal(t, "test bot", resp.Result.(botmock.BotShortDescription).ShortDescription)

	// Per-language slots are independent.
	resp = f.env.Invoke(&botmock.GetMyDescription{LanguageCode: "de"})
	requireOK(t, resp)
	assert.Empty(t, resp.Result.(botmock.BotDescription).Description)
}
