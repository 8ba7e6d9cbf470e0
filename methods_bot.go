// Copyright (c) 2024 RoseLoverX

package botmock

// Handlers for the bot-global methods: identity, command sets, menu
// buttons, default administrator rights and descriptions. These touch
// environment-wide state only, never a chat roster.

type GetMe struct{}

func (*GetMe) APIMethod() string { return "getMe" }

func (*GetMe) handle(e *Environment) Response {
	return resultOf(e.bot)
}

// scopeKey folds an optional command scope and language code into the
// registry key. Chat-addressed scopes must name a registered chat.
func (e *Environment) scopeKey(scope *BotCommandScope, lang string) (commandScopeKey, *Response) {
	key := commandScopeKey{scope: "default", lang: lang}
	if scope == nil || scope.Type == "" {
		return key, nil
	}
	key.scope = scope.Type
	switch scope.Type {
	case "chat", "chat_administrators", "chat_member":
		room, ok := e.chatBy(scope.ChatID)
		if !ok {
			resp := failKind(ErrChatNotFound)
			return key, &resp
		}
		key.chatID = room.ID()
		if scope.Type == "chat_member" {
			key.userID = scope.UserID
		}
	}
	return key, nil
}

type SetMyCommands struct {
	Commands     []BotCommand     `json:"commands"`
	Scope        *BotCommandScope `json:"scope,omitempty"`
	LanguageCode string           `json:"language_code,omitempty"`
}

func (*SetMyCommands) APIMethod() string { return "setMyCommands" }

func (r *SetMyCommands) handle(e *Environment) Response {
	key, errResp := e.scopeKey(r.Scope, r.LanguageCode)
	if errResp != nil {
		return *errResp
	}
	e.commands[key] = append([]BotCommand(nil), r.Commands...)
	return resultOf(true)
}

type DeleteMyCommands struct {
	Scope        *BotCommandScope `json:"scope,omitempty"`
	LanguageCode string           `json:"language_code,omitempty"`
}

func (*DeleteMyCommands) APIMethod() string { return "deleteMyCommands" }

func (r *DeleteMyCommands) handle(e *Environment) Response {
	key, errResp := e.scopeKey(r.Scope, r.LanguageCode)
	if errResp != nil {
		return *errResp
	}
	delete(e.commands, key)
	return resultOf(true)
}

type GetMyCommands struct {
	Scope        *BotCommandScope `json:"scope,omitempty"`
	LanguageCode string           `json:"language_code,omitempty"`
}

func (*GetMyCommands) APIMethod() string { return "getMyCommands" }

func (r *GetMyCommands) handle(e *Environment) Response {
	key, errResp := e.scopeKey(r.Scope, r.LanguageCode)
	if errResp != nil {
		return *errResp
	}
	commands := e.commands[key]
	if commands == nil {
		commands = []BotCommand{}
	}
	return resultOf(commands)
}

type SetChatMenuButton struct {
	ChatID     ChatID      `json:"chat_id,omitempty"`
	MenuButton *MenuButton `json:"menu_button,omitempty"`
}

func (*SetChatMenuButton) APIMethod() string { return "setChatMenuButton" }

func (r *SetChatMenuButton) handle(e *Environment) Response {
	button := MenuButton{Type: "default"}
	if r.MenuButton != nil {
		button = *r.MenuButton
	}
	if r.ChatID.isZero() {
		e.menuButton = button
		return resultOf(true)
	}
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	private, ok := room.(*PrivateChat)
	if !ok {
		return failWith(ErrWrongChatKind, "menu buttons exist in private chats only")
	}
	private.menuButton = &button
	return resultOf(true)
}

type GetChatMenuButton struct {
	ChatID ChatID `json:"chat_id,omitempty"`
}

func (*GetChatMenuButton) APIMethod() string { return "getChatMenuButton" }

func (r *GetChatMenuButton) handle(e *Environment) Response {
	if r.ChatID.isZero() {
		return resultOf(e.menuButton)
	}
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	private, ok := room.(*PrivateChat)
	if !ok {
		return failWith(ErrWrongChatKind, "menu buttons exist in private chats only")
	}
	if private.menuButton != nil {
		return resultOf(*private.menuButton)
	}
	return resultOf(e.menuButton)
}

type SetMyDefaultAdministratorRights struct {
	Rights      *ChatAdministratorRights `json:"rights,omitempty"`
	ForChannels bool                     `json:"for_channels,omitempty"`
}

func (*SetMyDefaultAdministratorRights) APIMethod() string { return "setMyDefaultAdministratorRights" }

func (r *SetMyDefaultAdministratorRights) handle(e *Environment) Response {
	var rights ChatAdministratorRights
	if r.Rights != nil {
		rights = *r.Rights
	}
	if r.ForChannels {
		e.channelAdminRights = rights
	} else {
		e.groupAdminRights = rights
	}
	return resultOf(true)
}

type GetMyDefaultAdministratorRights struct {
	ForChannels bool `json:"for_channels,omitempty"`
}

func (*GetMyDefaultAdministratorRights) APIMethod() string { return "getMyDefaultAdministratorRights" }

func (r *GetMyDefaultAdministratorRights) handle(e *Environment) Response {
	if r.ForChannels {
		return resultOf(e.channelAdminRights)
	}
	return resultOf(e.groupAdminRights)
}

// BotDescription and BotShortDescription are the result shapes of the
// description getters.
type BotDescription struct {
	Description string `json:"description"`
}

type BotShortDescription struct {
	ShortDescription string `json:"short_description"`
}

func (e *Environment) descriptionFor(lang string) *botDescription {
	entry, ok := e.descriptions[lang]
	if !ok {
		entry = &botDescription{}
		e.descriptions[lang] = entry
	}
	return entry
}

type SetMyDescription struct {
	Description  string `json:"description,omitempty" limit:"0-512"`
	LanguageCode string `json:"language_code,omitempty"`
}

func (*SetMyDescription) APIMethod() string { return "setMyDescription" }

func (r *SetMyDescription) handle(e *Environment) Response {
	if resp := checkLimits(r); resp != nil {
		return *resp
	}
	e.descriptionFor(r.LanguageCode).description = r.Description
	return resultOf(true)
}

type GetMyDescription struct {
	LanguageCode string `json:"language_code,omitempty"`
}

func (*GetMyDescription) APIMethod() string { return "getMyDescription" }

func (r *GetMyDescription) handle(e *Environment) Response {
	return resultOf(BotDescription{Description: e.descriptionFor(r.LanguageCode).description})
}

type SetMyShortDescription struct {
	ShortDescription string `json:"short_description,omitempty" limit:"0-120"`
	LanguageCode     string `json:"language_code,omitempty"`
}

func (*SetMyShortDescription) APIMethod() string { return "setMyShortDescription" }

func (r *SetMyShortDescription) handle(e *Environment) Response {
	if resp := checkLimits(r); resp != nil {
		return *resp
	}
	e.descriptionFor(r.LanguageCode).shortDescription = r.ShortDescription
	return resultOf(true)
}

type GetMyShortDescription struct {
	LanguageCode string `json:"language_code,omitempty"`
}

func (*GetMyShortDescription) APIMethod() string { return "getMyShortDescription" }

func (r *GetMyShortDescription) handle(e *Environment) Response {
	return resultOf(BotShortDescription{ShortDescription: e.descriptionFor(r.LanguageCode).shortDescription})
}
