// Copyright (c) 2024 RoseLoverX

package botmock_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/botmock"
)

const startTime = int64(1700000000)

func fullRights() *botmock.ChatAdministratorRights {
	return &botmock.ChatAdministratorRights{
		CanManageChat:       true,
		CanDeleteMessages:   true,
		CanManageVideoChats: true,
		CanRestrictMembers:  true,
		CanPromoteMembers:   true,
		CanChangeInfo:       true,
		CanInviteUsers:      true,
		CanPostMessages:     true,
		CanEditMessages:     true,
		CanPinMessages:      true,
	}
}

// fixture is the standing cast of most tests: alice owns a supergroup
// with bob and the bot (a full administrator) inside, carol stays
// outside.
type fixture struct {
	env     *botmock.Environment
	now     int64
	updates []*botmock.Update

	alice, bob, carol *botmock.PrivateChat
	group             *botmock.SupergroupChat
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{now: startTime}
	f.env = botmock.NewEnvironment(botmock.Options{
		Clock:                     func() int64 { return f.now },
		Seed:                      42,
		DefaultGroupAdminRights:   fullRights(),
		DefaultChannelAdminRights: fullRights(),
		Sink: func(u *botmock.Update) {
			f.updates = append(f.updates, u)
		},
	})

	var err error
	f.alice, err = f.env.NewUser(botmock.PrivateChatDetails{ID: 111, FirstName: "Alice", Username: "alice"})
	require.NoError(t, err)
	f.bob, err = f.env.NewUser(botmock.PrivateChatDetails{ID: 222, FirstName: "Bob"})
	require.NoError(t, err)
	f.carol, err = f.env.NewUser(botmock.PrivateChatDetails{ID: 333, FirstName: "Carol", Username: "carol"})
	require.NoError(t, err)

	f.group, err = f.env.NewSupergroup(botmock.SupergroupChatDetails{
		ID:        -1001000,
		Title:     "Guild",
		Username:  "guildchat",
		OwnerID:   111,
		MemberIDs: []int64{222, f.env.Bot().ID},
	})
	require.NoError(t, err)
	return f
}

func requireOK(t *testing.T, resp botmock.Response) {
	t.Helper()
	require.True(t, resp.OK, "expected success, got %d %s", resp.ErrorCode, resp.Description)
}

func requireFail(t *testing.T, resp botmock.Response, code int) {
	t.Helper()
	require.False(t, resp.OK, "expected failure, got %#v", resp.Result)
	require.Equal(t, code, resp.ErrorCode, "unexpected error code: %s", resp.Description)
}
