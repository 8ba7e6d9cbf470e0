// Copyright (c) 2024 RoseLoverX

package botmock

// inviteParts is the invite-link machinery shared by supergroups and
// channels; the other chat kinds have none.
type inviteParts struct {
	now     int64
	links   map[string]*ChatInviteLink
	primary *string
	joins   map[int64]*ChatJoinRequest
}

func (e *Environment) inviteMachinery(room ChatRoom) (*inviteParts, bool) {
	switch chat := room.(type) {
	case *SupergroupChat:
		return &inviteParts{now: e.now(), links: chat.inviteLinks, primary: &chat.primaryInviteLink, joins: chat.joinRequests}, true
	case *ChannelChat:
		return &inviteParts{now: e.now(), links: chat.inviteLinks, primary: &chat.primaryInviteLink, joins: chat.joinRequests}, true
	}
	return nil, false
}

// find applies lazy revocation: an active link past its expire date
// flips to revoked at observation time.
func (p *inviteParts) find(url string) (*ChatInviteLink, bool) {
	link, ok := p.links[url]
	if !ok {
		return nil, false
	}
	if !link.IsRevoked && link.ExpireDate != 0 && p.now > link.ExpireDate {
		link.IsRevoked = true
	}
	return link, true
}

// inviteGate resolves the chat, checks it carries invite machinery and
// checks the bot's invite rights.
func (e *Environment) inviteGate(id ChatID) (*inviteParts, *Response) {
	room, ok := e.chatBy(id)
	if !ok {
		resp := failKind(ErrChatNotFound)
		return nil, &resp
	}
	parts, ok := e.inviteMachinery(room)
	if !ok {
		resp := failKind(ErrWrongChatKind)
		return nil, &resp
	}
	if errResp := e.requireBotRight(room, CapInviteUsers); errResp != nil {
		return nil, errResp
	}
	return parts, nil
}

type ExportChatInviteLink struct {
	ChatID ChatID `json:"chat_id"`
}

func (*ExportChatInviteLink) APIMethod() string { return "exportChatInviteLink" }

func (r *ExportChatInviteLink) handle(e *Environment) Response {
	parts, errResp := e.inviteGate(r.ChatID)
	if errResp != nil {
		return *errResp
	}
	// Exporting replaces the primary link; the old one stops resolving.
	if *parts.primary != "" {
		delete(parts.links, *parts.primary)
	}
	url := e.ids.inviteLink()
	parts.links[url] = &ChatInviteLink{
		InviteLink: url,
		Creator:    e.bot,
		IsPrimary:  true,
	}
	*parts.primary = url
	return resultOf(url)
}

type CreateChatInviteLink struct {
	ChatID             ChatID `json:"chat_id"`
	Name               string `json:"name,omitempty" limit:"0-32"`
	ExpireDate         int64  `json:"expire_date,omitempty"`
	MemberLimit        int    `json:"member_limit,omitempty" limit:"0-99999"`
	CreatesJoinRequest bool   `json:"creates_join_request,omitempty"`
}

func (*CreateChatInviteLink) APIMethod() string { return "createChatInviteLink" }

func (r *CreateChatInviteLink) handle(e *Environment) Response {
	parts, errResp := e.inviteGate(r.ChatID)
	if errResp != nil {
		return *errResp
	}
	if resp := checkLimits(r); resp != nil {
		return *resp
	}
	if r.CreatesJoinRequest && r.MemberLimit > 0 {
		return failWith(ErrInvalidPayload, "creates_join_request and member_limit are mutually exclusive")
	}
	url := e.ids.inviteLink()
	link := &ChatInviteLink{
		InviteLink:         url,
		Creator:            e.bot,
		Name:               r.Name,
		ExpireDate:         r.ExpireDate,
		MemberLimit:        r.MemberLimit,
		CreatesJoinRequest: r.CreatesJoinRequest,
	}
	parts.links[url] = link
	return resultOf(link)
}

type EditChatInviteLink struct {
	ChatID             ChatID `json:"chat_id"`
	InviteLink         string `json:"invite_link"`
	Name               string `json:"name,omitempty" limit:"0-32"`
	ExpireDate         int64  `json:"expire_date,omitempty"`
	MemberLimit        int    `json:"member_limit,omitempty" limit:"0-99999"`
	CreatesJoinRequest bool   `json:"creates_join_request,omitempty"`
}

func (*EditChatInviteLink) APIMethod() string { return "editChatInviteLink" }

func (r *EditChatInviteLink) handle(e *Environment) Response {
	parts, errResp := e.inviteGate(r.ChatID)
	if errResp != nil {
		return *errResp
	}
	if resp := checkLimits(r); resp != nil {
		return *resp
	}
	link, ok := parts.find(r.InviteLink)
	if !ok {
		return failWith(ErrInvalidPayload, "invite link not found")
	}
	if link.IsPrimary {
		return failWith(ErrInvalidPayload, "can't edit the primary invite link")
	}
	if link.IsRevoked {
		return failWith(ErrInvalidPayload, "the invite link was revoked")
	}
	if r.CreatesJoinRequest && r.MemberLimit > 0 {
		return failWith(ErrInvalidPayload, "creates_join_request and member_limit are mutually exclusive")
	}
	link.Name = r.Name
	link.ExpireDate = r.ExpireDate
	link.MemberLimit = r.MemberLimit
	link.CreatesJoinRequest = r.CreatesJoinRequest
	return resultOf(link)
}

type RevokeChatInviteLink struct {
	ChatID     ChatID `json:"chat_id"`
	InviteLink string `json:"invite_link"`
}

func (*RevokeChatInviteLink) APIMethod() string { return "revokeChatInviteLink" }

func (r *RevokeChatInviteLink) handle(e *Environment) Response {
	parts, errResp := e.inviteGate(r.ChatID)
	if errResp != nil {
		return *errResp
	}
	link, ok := parts.find(r.InviteLink)
	if !ok {
		return failWith(ErrInvalidPayload, "invite link not found")
	}
	if link.IsPrimary {
		return failWith(ErrInvalidPayload, "can't revoke the primary invite link")
	}
	link.IsRevoked = true
	// The link stops resolving once revoked; a second revoke reports
	// not found.
	delete(parts.links, r.InviteLink)
	return resultOf(link)
}

type ApproveChatJoinRequest struct {
	ChatID ChatID `json:"chat_id"`
	UserID int64  `json:"user_id"`
}

func (*ApproveChatJoinRequest) APIMethod() string { return "approveChatJoinRequest" }

func (r *ApproveChatJoinRequest) handle(e *Environment) Response {
	room, ok := e.chatBy(r.ChatID)
	if !ok {
		return failKind(ErrChatNotFound)
	}
	parts, errResp := e.inviteGate(r.ChatID)
	if errResp != nil {
		return *errResp
	}
	request, ok := parts.joins[r.UserID]
	if !ok {
		return failWith(ErrInvalidPayload, "no pending join request from this user")
	}
	_, roster, _ := chatRoster(room)
	roster[r.UserID] = &ChatMemberMember{User: request.From}
	delete(parts.joins, r.UserID)
	if request.InviteLink != nil && request.InviteLink.PendingJoinRequestCount > 0 {
		request.InviteLink.PendingJoinRequestCount--
	}
	return resultOf(true)
}

type DeclineChatJoinRequest struct {
	ChatID ChatID `json:"chat_id"`
	UserID int64  `json:"user_id"`
}

func (*DeclineChatJoinRequest) APIMethod() string { return "declineChatJoinRequest" }

func (r *DeclineChatJoinRequest) handle(e *Environment) Response {
	parts, errResp := e.inviteGate(r.ChatID)
	if errResp != nil {
		return *errResp
	}
	request, ok := parts.joins[r.UserID]
	if !ok {
		return failWith(ErrInvalidPayload, "no pending join request from this user")
	}
	delete(parts.joins, r.UserID)
	if request.InviteLink != nil && request.InviteLink.PendingJoinRequestCount > 0 {
		request.InviteLink.PendingJoinRequestCount--
	}
	return resultOf(true)
}
