// Copyright (c) 2024 RoseLoverX

package botmock

// notImplementedMethods lists real Bot API methods the environment
// recognizes but does not model. Calling one answers 501 with the
// method name, so a bot under test fails loudly instead of silently
// exercising missing behavior.
var notImplementedMethods = map[string]struct{}{
	"forwardMessage":             {},
	"copyMessage":                {},
	"sendPhoto":                  {},
	"sendAudio":                  {},
	"sendDocument":               {},
	"sendVideo":                  {},
	"sendAnimation":              {},
	"sendVoice":                  {},
	"sendVideoNote":              {},
	"sendMediaGroup":             {},
	"sendLocation":               {},
	"editMessageLiveLocation":    {},
	"stopMessageLiveLocation":    {},
	"sendVenue":                  {},
	"sendContact":                {},
	"sendPoll":                   {},
	"sendDice":                   {},
	"sendChatAction":             {},
	"getUserProfilePhotos":       {},
	"getFile":                    {},
	"answerCallbackQuery":        {},
	"editMessageText":            {},
	"editMessageCaption":         {},
	"editMessageMedia":           {},
	"editMessageReplyMarkup":     {},
	"stopPoll":                   {},
	"sendSticker":                {},
	"getStickerSet":              {},
	"getCustomEmojiStickers":     {},
	"uploadStickerFile":          {},
	"createNewStickerSet":        {},
	"addStickerToSet":            {},
	"setStickerPositionInSet":    {},
	"deleteStickerFromSet":       {},
	"setStickerSetThumbnail":     {},
	"answerInlineQuery":          {},
	"answerWebAppQuery":          {},
	"sendInvoice":                {},
	"createInvoiceLink":          {},
	"answerShippingQuery":        {},
	"answerPreCheckoutQuery":     {},
	"setPassportDataErrors":      {},
	"sendGame":                   {},
	"setGameScore":               {},
	"getGameHighScores":          {},
	"getForumTopicIconStickers":  {},
	"createForumTopic":           {},
	"editForumTopic":             {},
	"closeForumTopic":            {},
	"reopenForumTopic":           {},
	"deleteForumTopic":           {},
	"unpinAllForumTopicMessages": {},
	"editGeneralForumTopic":      {},
	"closeGeneralForumTopic":     {},
	"reopenGeneralForumTopic":    {},
	"hideGeneralForumTopic":      {},
	"unhideGeneralForumTopic":    {},
}

// excludedMethods are the transport-level methods that make no sense
// against an in-process backend. They answer 501 with a fixed
// description and are never forwarded to the fallback chain.
var excludedMethods = map[string]struct{}{
	"getUpdates":     {},
	"setWebhook":     {},
	"deleteWebhook":  {},
	"getWebhookInfo": {},
	"logOut":         {},
	"close":          {},
}
