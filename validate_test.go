// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLimitsStrings(t *testing.T) {
	resp := checkLimits(&SetChatTitle{Title: ""})
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.ErrorCode)
	assert.Contains(t, resp.Description, "title")

	resp = checkLimits(&SetChatTitle{Title: strings.Repeat("x", 256)})
	require.NotNil(t, resp)

	assert.Nil(t, checkLimits(&SetChatTitle{Title: strings.Repeat("x", 255)}))
	// Rune count, not byte count.
	assert.Nil(t, checkLimits(&SetChatTitle{Title: strings.Repeat("ь", 255)}))
}

func TestCheckLimitsInts(t *testing.T) {
	assert.Nil(t, checkLimits(&CreateChatInviteLink{}))
	assert.Nil(t, checkLimits(&CreateChatInviteLink{MemberLimit: 99999}))

	resp := checkLimits(&CreateChatInviteLink{MemberLimit: 100000})
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.ErrorCode)
	assert.Contains(t, resp.Description, "member_limit")
}

func TestCheckLimitsEmoji(t *testing.T) {
	resp := checkLimits(&SetChatAdministratorCustomTitle{CustomTitle: "boss 🎩"})
	require.NotNil(t, resp)
	assert.Contains(t, resp.Description, "emoji")

	assert.Nil(t, checkLimits(&SetChatAdministratorCustomTitle{CustomTitle: "boss"}))

	resp = checkLimits(&SetChatAdministratorCustomTitle{CustomTitle: strings.Repeat("t", 17)})
	require.NotNil(t, resp)
}

func TestContainsEmoji(t *testing.T) {
	assert.True(t, containsEmoji("🚀"))
	assert.True(t, containsEmoji("☀"))
	assert.False(t, containsEmoji("plain text"))
	assert.False(t, containsEmoji("русский 中文"))
}
