// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMemberExpiry(t *testing.T) {
	user := &User{ID: 7, FirstName: "Eve"}
	now := int64(1000)

	tests := []struct {
		name   string
		record ChatMember
		status string
	}{
		{
			name:   "ban still running",
			record: &ChatMemberBanned{User: user, UntilDate: 2000},
			status: "kicked",
		},
		{
			name:   "ban expired",
			record: &ChatMemberBanned{User: user, UntilDate: 500},
			status: "left",
		},
		{
			name:   "permanent ban never expires",
			record: &ChatMemberBanned{User: user, UntilDate: 0},
			status: "kicked",
		},
		{
			name:   "restriction expired for a member",
			record: &ChatMemberRestricted{User: user, IsMember: true, UntilDate: 500},
			status: "member",
		},
		{
			name:   "restriction expired for a non-member",
			record: &ChatMemberRestricted{User: user, IsMember: false, UntilDate: 500},
			status: "left",
		},
		{
			name:   "permanent restriction holds",
			record: &ChatMemberRestricted{User: user, IsMember: true, UntilDate: 0},
			status: "restricted",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effective := effectiveMember(tt.record, now)
			assert.Equal(t, tt.status, effective.MemberStatus())
			// Idempotent: a second pass changes nothing.
			assert.Equal(t, effective, effectiveMember(effective, now))
		})
	}
}

func TestResolveMemberPersistsRewrite(t *testing.T) {
	user := &User{ID: 7, FirstName: "Eve"}
	roster := map[int64]ChatMember{
		7: &ChatMemberBanned{User: user, UntilDate: 500},
	}
	record, found := resolveMember(nil, roster, 7, 1000)
	require.True(t, found)
	assert.Equal(t, "left", record.MemberStatus())
	assert.Same(t, record, roster[7])
}

func TestAuthorizeVocabularies(t *testing.T) {
	user := &User{ID: 7}
	defaults := &ChatPermissions{CanSendMessages: true}

	owner := &ChatMemberOwner{User: user}
	allowed, errResp := authorize(owner, CapManageChat, defaults)
	require.Nil(t, errResp)
	assert.True(t, allowed)

	admin := &ChatMemberAdministrator{User: user, ChatAdministratorRights: ChatAdministratorRights{CanDeleteMessages: true}}
	allowed, errResp = authorize(admin, CapDeleteMessages, defaults)
	require.Nil(t, errResp)
	assert.True(t, allowed)

	// An administrator asked a member-only question is a caller bug.
	_, errResp = authorize(admin, CapSendPolls, defaults)
	require.NotNil(t, errResp)
	assert.Equal(t, 400, errResp.ErrorCode)

	member := &ChatMemberMember{User: user}
	allowed, errResp = authorize(member, CapSendMessages, defaults)
	require.Nil(t, errResp)
	assert.True(t, allowed)
	allowed, errResp = authorize(member, CapSendPolls, defaults)
	require.Nil(t, errResp)
	assert.False(t, allowed)

	// A member asked an administrator-only question is a caller bug too.
	_, errResp = authorize(member, CapManageChat, defaults)
	require.NotNil(t, errResp)
	assert.Equal(t, 400, errResp.ErrorCode)

	// Channels pass nil defaults; plain members hold nothing there.
	allowed, errResp = authorize(member, CapSendMessages, nil)
	require.Nil(t, errResp)
	assert.False(t, allowed)

	restricted := &ChatMemberRestricted{User: user, IsMember: true, ChatPermissions: ChatPermissions{CanSendPolls: true}}
	allowed, errResp = authorize(restricted, CapSendPolls, defaults)
	require.Nil(t, errResp)
	assert.True(t, allowed)
	allowed, errResp = authorize(restricted, CapSendMessages, defaults)
	require.Nil(t, errResp)
	assert.False(t, allowed)

	for _, record := range []ChatMember{&ChatMemberLeft{User: user}, &ChatMemberBanned{User: user}} {
		allowed, errResp = authorize(record, CapSendMessages, defaults)
		require.Nil(t, errResp)
		assert.False(t, allowed)
	}

	_, errResp = authorize(owner, Capability("can_fly"), defaults)
	require.NotNil(t, errResp)
	assert.Equal(t, 400, errResp.ErrorCode)
}

func TestCountPresent(t *testing.T) {
	creator := &ChatMemberOwner{User: &User{ID: 1}}
	roster := map[int64]ChatMember{
		2: &ChatMemberMember{User: &User{ID: 2}},
		3: &ChatMemberAdministrator{User: &User{ID: 3}},
		4: &ChatMemberRestricted{User: &User{ID: 4}, IsMember: true},
		5: &ChatMemberRestricted{User: &User{ID: 5}, IsMember: false},
		6: &ChatMemberLeft{User: &User{ID: 6}},
		7: &ChatMemberBanned{User: &User{ID: 7}},
		// Expired ban flips to left while counting.
		8: &ChatMemberBanned{User: &User{ID: 8}, UntilDate: 500},
	}
	assert.Equal(t, 4, countPresent(creator, roster, 1000))
}
