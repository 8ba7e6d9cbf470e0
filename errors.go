// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind enumerates every failure the simulated Bot API server can
// report. The catalogue is closed: handlers never invent ad hoc errors,
// they pick a kind and optionally append detail to its description.
type ErrorKind int

const (
	ErrChatNotFound ErrorKind = iota
	ErrUserNotFound
	ErrMemberNotFound
	ErrNotAMember
	ErrWrongChatKind
	ErrInvalidCapability
	ErrBotNotAdministrator
	ErrInsufficientRights
	ErrInvalidPayload
	ErrMessageNotFound
	ErrReplyToMessageNotFound
	ErrMethodNotFound
	ErrNotImplemented
	ErrExcludedMethod
)

// Catalogue of HTTP-like status codes and descriptions, mirroring the
// shape of real Bot API error responses.
var errorCatalogue = map[ErrorKind]struct {
	code int
	text string
}{
	ErrChatNotFound:           {404, "Bad Request: chat not found"},
	ErrUserNotFound:           {404, "Bad Request: user not found"},
	ErrMemberNotFound:         {404, "Bad Request: member not found"},
	ErrNotAMember:             {400, "Bad Request: user is not a member of the chat"},
	ErrWrongChatKind:          {400, "Bad Request: method is not available for the chat"},
	ErrInvalidCapability:      {400, "Bad Request: unknown permission requested"},
	ErrBotNotAdministrator:    {403, "Forbidden: bot is not an administrator of the chat"},
	ErrInsufficientRights:     {403, "Forbidden: not enough rights"},
	ErrInvalidPayload:         {400, "Bad Request: invalid payload"},
	ErrMessageNotFound:        {404, "Bad Request: message not found"},
	ErrReplyToMessageNotFound: {404, "Bad Request: reply to message not found"},
	ErrMethodNotFound:         {404, "Not Found: method not found"},
	ErrNotImplemented:         {501, "Not Implemented"},
	ErrExcludedMethod:         {501, "Not Implemented: method is excluded from the test environment"},
}

func (k ErrorKind) Code() int {
	return errorCatalogue[k].code
}

func (k ErrorKind) Description() string {
	return errorCatalogue[k].text
}

// ResponseParameters carries the optional extra error data of the real
// backend (migration hints, flood-wait timers).
type ResponseParameters struct {
	MigrateToChatID int64 `json:"migrate_to_chat_id,omitempty"`
	RetryAfter      int   `json:"retry_after,omitempty"`
}

// Response is the envelope every dispatched method call resolves to,
// success or failure. Failures are always data; handlers never panic and
// never return Go errors across the dispatch boundary.
type Response struct {
	OK          bool                `json:"ok"`
	Result      any                 `json:"result,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
}

func resultOf(v any) Response {
	return Response{OK: true, Result: v}
}

func failWith(kind ErrorKind, detail string) Response {
	entry := errorCatalogue[kind]
	description := entry.text
	if detail != "" {
		description = fmt.Sprintf("%s: %s", description, detail)
	}
	return Response{OK: false, ErrorCode: entry.code, Description: description}
}

func failKind(kind ErrorKind) Response {
	return failWith(kind, "")
}

// Construction-time failures. These are regular Go errors because there
// is no Response channel while an environment or chat is being built.
var (
	ErrDuplicateChat = errors.New("chat with the same id already exists")
	ErrInvalidOwner  = errors.New("the bot cannot be the owner of a chat")
)
