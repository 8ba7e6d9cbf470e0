// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"encoding/json"

	"github.com/k0kubun/pp"

	"github.com/amarnathcjd/botmock/internal/utils"
)

// Request is a typed Bot API method payload. The set of implementations
// is closed: handlers live in this package and dispatch happens through
// the unexported handle method, so no caller-supplied type can slip an
// untyped payload into the table.
type Request interface {
	// APIMethod returns the wire name of the method, e.g. "sendMessage".
	APIMethod() string

	handle(e *Environment) Response
}

// methodFactories maps wire method names to fresh payload values, for
// the (method, raw JSON) inbound shape used by transport shims.
var methodFactories = map[string]func() Request{
	"getMe":                            func() Request { return &GetMe{} },
	"setMyCommands":                    func() Request { return &SetMyCommands{} },
	"deleteMyCommands":                 func() Request { return &DeleteMyCommands{} },
	"getMyCommands":                    func() Request { return &GetMyCommands{} },
	"setChatMenuButton":                func() Request { return &SetChatMenuButton{} },
	"getChatMenuButton":                func() Request { return &GetChatMenuButton{} },
	"setMyDefaultAdministratorRights":  func() Request { return &SetMyDefaultAdministratorRights{} },
	"getMyDefaultAdministratorRights":  func() Request { return &GetMyDefaultAdministratorRights{} },
	"setMyDescription":                 func() Request { return &SetMyDescription{} },
	"getMyDescription":                 func() Request { return &GetMyDescription{} },
	"setMyShortDescription":            func() Request { return &SetMyShortDescription{} },
	"getMyShortDescription":            func() Request { return &GetMyShortDescription{} },
	"sendMessage":                      func() Request { return &SendMessage{} },
	"deleteMessage":                    func() Request { return &DeleteMessage{} },
	"banChatMember":                    func() Request { return &BanChatMember{} },
	"unbanChatMember":                  func() Request { return &UnbanChatMember{} },
	"restrictChatMember":               func() Request { return &RestrictChatMember{} },
	"promoteChatMember":                func() Request { return &PromoteChatMember{} },
	"setChatAdministratorCustomTitle":  func() Request { return &SetChatAdministratorCustomTitle{} },
	"banChatSenderChat":                func() Request { return &BanChatSenderChat{} },
	"unbanChatSenderChat":              func() Request { return &UnbanChatSenderChat{} },
	"setChatPermissions":               func() Request { return &SetChatPermissions{} },
	"exportChatInviteLink":             func() Request { return &ExportChatInviteLink{} },
	"createChatInviteLink":             func() Request { return &CreateChatInviteLink{} },
	"editChatInviteLink":               func() Request { return &EditChatInviteLink{} },
	"revokeChatInviteLink":             func() Request { return &RevokeChatInviteLink{} },
	"approveChatJoinRequest":           func() Request { return &ApproveChatJoinRequest{} },
	"declineChatJoinRequest":           func() Request { return &DeclineChatJoinRequest{} },
	"setChatPhoto":                     func() Request { return &SetChatPhoto{} },
	"deleteChatPhoto":                  func() Request { return &DeleteChatPhoto{} },
	"setChatTitle":                     func() Request { return &SetChatTitle{} },
	"setChatDescription":               func() Request { return &SetChatDescription{} },
	"pinChatMessage":                   func() Request { return &PinChatMessage{} },
	"unpinChatMessage":                 func() Request { return &UnpinChatMessage{} },
	"unpinAllChatMessages":             func() Request { return &UnpinAllChatMessages{} },
	"leaveChat":                        func() Request { return &LeaveChat{} },
	"getChat":                          func() Request { return &GetChat{} },
	"getChatAdministrators":            func() Request { return &GetChatAdministrators{} },
	"getChatMemberCount":               func() Request { return &GetChatMemberCount{} },
	"getChatMember":                    func() Request { return &GetChatMember{} },
	"setChatStickerSet":                func() Request { return &SetChatStickerSet{} },
	"deleteChatStickerSet":             func() Request { return &DeleteChatStickerSet{} },
}

// Invoke runs a typed request against the environment. The environment
// lock is held for the duration of the handler, so every call observes
// and commits a consistent state. Handlers check payload limits after
// their chat and rights preconditions, so an unknown chat or a missing
// right is reported ahead of a malformed field.
func (e *Environment) Invoke(req Request) Response {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Log.Lev() == utils.TraceLevel {
		e.Log.Tracef("%s %s", req.APIMethod(), pp.Sprint(req))
	}
	resp := req.handle(e)
	if !resp.OK {
		e.Log.Debugf("%s failed: %d %s", req.APIMethod(), resp.ErrorCode, resp.Description)
	}
	return resp
}

// Call dispatches a method by wire name with a raw JSON payload. Stubbed
// and excluded methods answer from their catalogues; unrecognized names
// flow through the fallback chain before resolving to method-not-found.
func (e *Environment) Call(method string, payload []byte) Response {
	if _, excluded := excludedMethods[method]; excluded {
		return failKind(ErrExcludedMethod)
	}
	if _, stubbed := notImplementedMethods[method]; stubbed {
		return failWith(ErrNotImplemented, method)
	}
	factory, ok := methodFactories[method]
	if !ok {
		for _, fallback := range e.fallbacks {
			if resp, handled := fallback(method, payload); handled {
				return resp
			}
		}
		return failWith(ErrMethodNotFound, method)
	}
	req := factory()
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, req); err != nil {
			return failWith(ErrInvalidPayload, err.Error())
		}
	}
	return e.Invoke(req)
}
