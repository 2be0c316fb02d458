package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp styles understood by the Discord client.
const (
	StyleRelative = "R"
	StyleLongDate = "D"
	StyleFull     = "F"
)

// Timestamp renders t as a client-localized timestamp tag.
func Timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

func UserMention(id string) string {
	return "<@" + id + ">"
}

func RoleMention(id string) string {
	return "<@&" + id + ">"
}

// UserMentions joins user mentions with ", ".
func UserMentions(ids []string) string {
	return joinMapped(ids, UserMention)
}

// RoleMentions joins role mentions with ", ".
func RoleMentions(ids []string) string {
	return joinMapped(ids, RoleMention)
}

func joinMapped(ids []string, f func(string) string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = f(id)
	}
	return strings.Join(parts, ", ")
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
