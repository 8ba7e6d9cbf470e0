// Copyright (c) 2024 RoseLoverX

package botmock

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/structtag"
)

// Field-range rules are declared as `limit:"lo-hi"` struct tags on the
// payload structs. Handlers enforce them once their chat and rights
// checks passed, so access failures always report first. For strings
// the range bounds the rune count, with lo of 0 marking the field
// optional; for integers it bounds the value, with 0 always accepted as
// "unset". A `noemoji:"true"` tag additionally rejects emoji runes.

func checkLimits(req Request) *Response {
	v := reflect.ValueOf(req)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tags, err := structtag.Parse(string(field.Tag))
		if err != nil {
			continue
		}
		name := field.Name
		if jsonTag, err := tags.Get("json"); err == nil && jsonTag.Name != "" {
			name = jsonTag.Name
		}
		if limitTag, err := tags.Get("limit"); err == nil {
			if resp := checkRange(v.Field(i), name, limitTag.Name); resp != nil {
				return resp
			}
		}
		if _, err := tags.Get("noemoji"); err == nil && field.Type.Kind() == reflect.String {
			if containsEmoji(v.Field(i).String()) {
				resp := failWith(ErrInvalidPayload, fmt.Sprintf("%s must not contain emoji", name))
				return &resp
			}
		}
	}
	return nil
}

func checkRange(v reflect.Value, name, bounds string) *Response {
	dash := strings.IndexByte(bounds, '-')
	if dash < 0 {
		return nil
	}
	lo, err := strconv.Atoi(bounds[:dash])
	if err != nil {
		return nil
	}
	hi, err := strconv.Atoi(bounds[dash+1:])
	if err != nil {
		return nil
	}
	switch v.Kind() {
	case reflect.String:
		length := utf8.RuneCountInString(v.String())
		if length < lo || length > hi {
			resp := failWith(ErrInvalidPayload, fmt.Sprintf("%s must be %d-%d characters long", name, lo, hi))
			return &resp
		}
	case reflect.Int, reflect.Int64:
		value := v.Int()
		if value == 0 {
			return nil
		}
		if value < int64(lo) || value > int64(hi) {
			resp := failWith(ErrInvalidPayload, fmt.Sprintf("%s must be between %d and %d", name, lo, hi))
			return &resp
		}
	}
	return nil
}

// containsEmoji reports whether the string carries runes from the emoji
// blocks, which custom administrator titles may not.
func containsEmoji(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x1F300 && r <= 0x1FAFF:
			return true
		case r >= 0x2600 && r <= 0x27BF:
			return true
		case r >= 0x1F000 && r <= 0x1F0FF:
			return true
		case r == 0xFE0F || r == 0x200D:
			return true
		}
	}
	return false
}
