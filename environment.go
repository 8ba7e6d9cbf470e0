// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"sync"
	"time"

	"github.com/amarnathcjd/botmock/internal/utils"
)

// ChatRoom is one simulated chat of any kind. The concrete types are
// PrivateChat, GroupChat, SupergroupChat and ChannelChat; handlers switch
// on them rather than duck-typing across overlapping field sets.
type ChatRoom interface {
	ID() int64
	Kind() ChatKind
	// GetChat returns the externally visible chat description, merging
	// base fields, caller metadata and the latest surviving pinned message.
	GetChat() *Chat
	Username() string
}

// UpdateSink is the host's update-handling entry point. Updates submitted
// through the environment are stamped with an update_id and handed to the
// sink; the sink is free to call back into the dispatch table.
type UpdateSink func(*Update)

// FallbackHandler is one link of the pass-through chain consulted for
// method names the dispatch table does not recognize.
type FallbackHandler func(method string, payload []byte) (Response, bool)

// Options configures a new environment. Every field is optional; zero
// values fall back to the defaults of the real backend.
type Options struct {
	// Bot overrides the synthetic bot identity.
	Bot *User
	// DefaultGroupAdminRights and DefaultChannelAdminRights seed the
	// bot's default administrator rights per chat class.
	DefaultGroupAdminRights   *ChatAdministratorRights
	DefaultChannelAdminRights *ChatAdministratorRights
	// DefaultMenuButton seeds the environment-wide menu button.
	DefaultMenuButton *MenuButton
	// DefaultCommands seeds the default-scope command set.
	DefaultCommands []BotCommand
	// Clock supplies the current unix time; tests substitute it to
	// exercise expiry deterministically.
	Clock func() int64
	// Seed makes identifier generation reproducible.
	Seed int64
	// Sink receives every submitted update.
	Sink UpdateSink
	// LogLevel controls the environment logger.
	LogLevel utils.LogLevel
}

type commandScopeKey struct {
	scope  string
	chatID int64
	userID int64
	lang   string
}

type botDescription struct {
	description      string
	shortDescription string
}

// Environment is the single source of truth of the simulated backend:
// all chats, the bot identity, environment-wide defaults and counters.
// A mutex serializes every dispatched call so the in-memory maps keep
// their single-writer guarantee under parallel callers.
type Environment struct {
	mu  sync.Mutex
	Log *utils.Logger

	bot   *User
	chats map[int64]ChatRoom

	commands           map[commandScopeKey][]BotCommand
	descriptions       map[string]*botDescription
	groupAdminRights   ChatAdministratorRights
	channelAdminRights ChatAdministratorRights
	menuButton         MenuButton

	updateID int64
	ids      *idGenerator
	clock    func() int64
	sink     UpdateSink

	fallbacks []FallbackHandler
}

// NewEnvironment builds an empty environment. Defaults mirror the real
// backend: a bot that may join groups, all-false default administrator
// rights, the default menu button and an empty command set.
func NewEnvironment(opts ...Options) *Environment {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Environment{
		Log:          utils.NewLogger("botmock"),
		chats:        make(map[int64]ChatRoom),
		commands:     make(map[commandScopeKey][]BotCommand),
		descriptions: make(map[string]*botDescription),
		menuButton:   MenuButton{Type: "default"},
		updateID:     100000000,
		ids:          newIDGenerator(seed),
		clock:        o.Clock,
		sink:         o.Sink,
	}
	if o.LogLevel != 0 {
		e.Log.SetLevel(o.LogLevel)
	}
	if e.clock == nil {
		e.clock = func() int64 { return time.Now().Unix() }
	}
	if o.DefaultGroupAdminRights != nil {
		e.groupAdminRights = *o.DefaultGroupAdminRights
	}
	if o.DefaultChannelAdminRights != nil {
		e.channelAdminRights = *o.DefaultChannelAdminRights
	}
	if o.DefaultMenuButton != nil {
		e.menuButton = *o.DefaultMenuButton
	}
	if len(o.DefaultCommands) > 0 {
		e.commands[commandScopeKey{scope: "default"}] = append([]BotCommand(nil), o.DefaultCommands...)
	}
	e.bot = o.Bot
	if e.bot == nil {
		e.bot = &User{
			ID:            e.ids.botID(),
			IsBot:         true,
			FirstName:     "Test",
			LastName:      "Bot",
			Username:      "testbot",
			CanJoinGroups: true,
		}
	}
	e.Log.Debugf("environment ready, bot id %d (@%s)", e.bot.ID, e.bot.Username)
	return e
}

// Bot returns the synthetic bot identity of the environment.
func (e *Environment) Bot() *User {
	return e.bot
}

func (e *Environment) now() int64 {
	return e.clock()
}

// Use appends a fallback handler consulted, in order, for method names
// the dispatch table does not recognize.
func (e *Environment) Use(fallback FallbackHandler) {
	e.fallbacks = append(e.fallbacks, fallback)
}

func (e *Environment) register(room ChatRoom) error {
	if _, exists := e.chats[room.ID()]; exists {
		return ErrDuplicateChat
	}
	e.chats[room.ID()] = room
	e.Log.Debugf("registered %s chat %d", room.Kind(), room.ID())
	return nil
}

// ResolveUsername finds a chat by username. Plain groups are excluded:
// they have no username on the platform this models.
func (e *Environment) ResolveUsername(username string) (ChatRoom, bool) {
	for _, room := range e.chats {
		if room.Kind() == ChatKindGroup {
			continue
		}
		if room.Username() != "" && room.Username() == username {
			return room, true
		}
	}
	return nil, false
}

// chatBy resolves a chat_id payload field, numeric or @username.
func (e *Environment) chatBy(id ChatID) (ChatRoom, bool) {
	if id.Username != "" {
		return e.ResolveUsername(id.Username)
	}
	room, ok := e.chats[id.ID]
	return room, ok
}

// Chat returns the registered chat with the given numeric id.
func (e *Environment) Chat(id int64) (ChatRoom, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	room, ok := e.chats[id]
	return room, ok
}

// Membership computes the effective membership record of a user in a
// chat, applying lazy expiry. Private chats answer ErrChatNotFound, as
// membership is meaningless there on the platform this models.
func (e *Environment) Membership(chatID, userID int64) (ChatMember, *Response) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.membership(chatID, userID)
}

func (e *Environment) membership(chatID, userID int64) (ChatMember, *Response) {
	room, ok := e.chats[chatID]
	if !ok {
		resp := failKind(ErrChatNotFound)
		return nil, &resp
	}
	now := e.now()
	var (
		record ChatMember
		found  bool
	)
	switch chat := room.(type) {
	case *PrivateChat:
		resp := failKind(ErrChatNotFound)
		return nil, &resp
	case *GroupChat:
		record, found = resolveMember(chat.creator, chat.members, userID, now)
	case *SupergroupChat:
		record, found = resolveMember(chat.creator, chat.members, userID, now)
	case *ChannelChat:
		record, found = resolveMember(chat.creator, chat.members, userID, now)
	}
	if !found {
		resp := failKind(ErrMemberNotFound)
		return nil, &resp
	}
	return record, nil
}

// Can evaluates a single capability question for a user in a chat. A
// capability from the wrong vocabulary for the user's resolved status is
// reported through the response, never silently denied.
func (e *Environment) Can(chatID, userID int64, cap Capability) (bool, *Response) {
	e.mu.Lock()
	defer e.mu.Unlock()
	room, ok := e.chats[chatID]
	if !ok {
		resp := failKind(ErrChatNotFound)
		return false, &resp
	}
	if _, ok := room.(*PrivateChat); ok {
		if _, known := permissionLookup[cap]; known {
			return true, nil
		}
		resp := failWith(ErrInvalidCapability, string(cap))
		return false, &resp
	}
	record, errResp := e.membership(chatID, userID)
	if errResp != nil {
		return false, errResp
	}
	return authorize(record, cap, memberDefaults(room))
}

// memberDefaults returns the bundle plain members are measured against:
// the chat's default permissions for groups and supergroups, nothing for
// channels, everything for private chats.
func memberDefaults(room ChatRoom) *ChatPermissions {
	switch chat := room.(type) {
	case *GroupChat:
		return &chat.permissions
	case *SupergroupChat:
		return &chat.permissions
	case *PrivateChat:
		defaults := allPermissions
		return &defaults
	}
	return nil
}

// SubmitUpdate stamps the update with the next update_id and delivers it
// to the sink. The environment lock is released before the sink runs, so
// the code under test may call back into the dispatch table and observe
// fully committed state.
func (e *Environment) SubmitUpdate(u *Update) *Update {
	e.mu.Lock()
	u.UpdateID = e.updateID
	e.updateID++
	sink := e.sink
	e.mu.Unlock()
	e.Log.Tracef("update %d submitted", u.UpdateID)
	if sink != nil {
		sink(u)
	}
	return u
}
