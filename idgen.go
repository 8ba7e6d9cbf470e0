// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/amarnathcjd/botmock/internal/utils"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// idGenerator produces collision-free synthetic identifiers, scoped per
// value kind for the lifetime of one environment. Environments own their
// generator, so independent environments never contend over a shared
// pool and can run in parallel tests.
type idGenerator struct {
	rng         *rand.Rand
	usedStrings map[string]*utils.Set[string]
	usedInts    map[string]*utils.Set[int64]
}

func newIDGenerator(seed int64) *idGenerator {
	return &idGenerator{
		rng:         rand.New(rand.NewSource(seed)),
		usedStrings: make(map[string]*utils.Set[string]),
		usedInts:    make(map[string]*utils.Set[int64]),
	}
}

func (g *idGenerator) uniqueString(kind string, gen func() string) string {
	set, ok := g.usedStrings[kind]
	if !ok {
		set = utils.NewSet[string]()
		g.usedStrings[kind] = set
	}
	value := gen()
	for !set.Add(value) {
		value = gen()
	}
	return value
}

func (g *idGenerator) uniqueInt(kind string, gen func() int64) int64 {
	set, ok := g.usedInts[kind]
	if !ok {
		set = utils.NewSet[int64]()
		g.usedInts[kind] = set
	}
	value := gen()
	for !set.Add(value) {
		value = gen()
	}
	return value
}

func (g *idGenerator) str(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(idAlphabet[g.rng.Intn(len(idAlphabet))])
	}
	return b.String()
}

// BotID returns an unused synthetic bot identifier, e.g. 1057194841.
func (g *idGenerator) botID() int64 {
	return g.uniqueInt("bot_id", func() int64 {
		return 1000000000 + g.rng.Int63n(9000000000)
	})
}

// userID returns an unused synthetic user identifier.
func (g *idGenerator) userID() int64 {
	return g.uniqueInt("user_id", func() int64 {
		return 100000000 + g.rng.Int63n(900000000)
	})
}

// inviteHash generates the token part of an invite link,
// e.g. X56WG_2KjQ3V7B96.
func (g *idGenerator) inviteHash() string {
	return g.uniqueString("invite_hash", func() string {
		return g.str(5) + "_" + g.str(10)
	})
}

// inviteLink generates a full t.me invite link.
func (g *idGenerator) inviteLink() string {
	return "https://t.me/+" + g.inviteHash()
}

// fileID generates a real-looking file identifier,
// e.g. AQADAgADsrMxG5tawUsACAIAA_KZU9IW____IaoMt1MFRGMpBA.
func (g *idGenerator) fileID() string {
	lengths := []int{50, 64, 72}
	return g.uniqueString("file_id", func() string {
		length := lengths[g.rng.Intn(len(lengths))]
		s := g.str(length)
		return strings.ToUpper(s[:4]) + s[4:]
	})
}

// fileUniqueID generates the short stable id that accompanies a file id.
func (g *idGenerator) fileUniqueID() string {
	return g.uniqueString("file_unique_id", func() string {
		id := uuid.New()
		return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:16])
	})
}

func (g *idGenerator) callbackQueryID() string {
	return g.uniqueString("callback_query_id", func() string {
		return g.str(19)
	})
}

// chatInstance generates the opaque signed-number string carried by
// callback queries.
func (g *idGenerator) chatInstance() string {
	return g.uniqueString("chat_instance", func() string {
		var b strings.Builder
		b.WriteByte('-')
		for i := 0; i < 19; i++ {
			b.WriteByte('0' + byte(g.rng.Intn(10)))
		}
		return b.String()
	})
}
