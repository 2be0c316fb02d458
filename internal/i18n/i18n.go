// Package i18n renders user-facing giveaway strings in the configured locale.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyTitle           = "giveaway.title"
	KeyEndedTitle      = "giveaway.ended_title"
	KeyInstruction     = "giveaway.instruction"
	KeyEnds            = "giveaway.ends"
	KeyEnded           = "giveaway.ended"
	KeyWinnerCount     = "giveaway.winner_count"
	KeyHostedBy        = "giveaway.hosted_by"
	KeyWinners         = "giveaway.winners"
	KeyNoWinners       = "giveaway.no_winners"
	KeyFooterEnds      = "giveaway.footer_ends"
	KeyFooterEnded     = "giveaway.footer_ended"
	KeyCongrats        = "giveaway.congrats"
	KeyRerollCongrats  = "giveaway.reroll_congrats"
	KeyNoWinnerReply   = "giveaway.no_winner_reply"
	KeyReqHeader       = "requirements.header"
	KeyReqRoles        = "requirements.roles"
	KeyReqAccountAge   = "requirements.account_age"
	KeyReqJoinedBefore = "requirements.joined_before"
	KeyReqCustom       = "requirements.custom"
	KeyRejRoles        = "rejection.roles"
	KeyRejAccountAge   = "rejection.account_age"
	KeyRejJoinedBefore = "rejection.joined_before"
	KeyRejNotMember    = "rejection.not_member"
	KeyRejCustom       = "rejection.custom"
	KeyRejectionNotice = "rejection.notice"
)

var supported = []language.Tag{language.English, language.Russian}

var entries = map[language.Tag]map[string]string{
	language.English: {
		KeyTitle:           "🎉 GIVEAWAY 🎉",
		KeyEndedTitle:      "🎉 GIVEAWAY ENDED 🎉",
		KeyInstruction:     "React with %s to enter!",
		KeyEnds:            "Ends: %s",
		KeyEnded:           "Ended: %s",
		KeyWinnerCount:     "Winners: %d",
		KeyHostedBy:        "Hosted by: %s",
		KeyWinners:         "Winner(s): %s",
		KeyNoWinners:       "No valid entrants, so a winner could not be determined!",
		KeyFooterEnds:      "Ends at",
		KeyFooterEnded:     "Ended at",
		KeyCongrats:        "Congratulations %s! You won **%s**!",
		KeyRerollCongrats:  "🎉 New winner(s): %s! You won **%s**!",
		KeyNoWinnerReply:   "A winner could not be determined for **%s**.",
		KeyReqHeader:       "Requirements:",
		KeyReqRoles:        "Have all of the following roles: %s",
		KeyReqAccountAge:   "Account created before %s",
		KeyReqJoinedBefore: "Joined the server before %s",
		KeyReqCustom:       "Pass the %s check",
		KeyRejRoles:        "you must have all of the following roles: %s",
		KeyRejAccountAge:   "your account must have been created before %s",
		KeyRejJoinedBefore: "you must have joined the server before %s",
		KeyRejNotMember:    "you must be a member of this server",
		KeyRejCustom:       "you do not meet the requirements for this giveaway",
		KeyRejectionNotice: "%s, your entry for **%s** was not accepted: %s",
	},
	language.Russian: {
		KeyTitle:           "🎉 РОЗЫГРЫШ 🎉",
		KeyEndedTitle:      "🎉 РОЗЫГРЫШ ЗАВЕРШЁН 🎉",
		KeyInstruction:     "Поставьте реакцию %s, чтобы участвовать!",
		KeyEnds:            "Завершится: %s",
		KeyEnded:           "Завершён: %s",
		KeyWinnerCount:     "Победителей: %d",
		KeyHostedBy:        "Организатор: %s",
		KeyWinners:         "Победители: %s",
		KeyNoWinners:       "Нет подходящих участников, победитель не определён!",
		KeyFooterEnds:      "Завершится",
		KeyFooterEnded:     "Завершён",
		KeyCongrats:        "Поздравляем, %s! Вы выиграли **%s**!",
		KeyRerollCongrats:  "🎉 Новые победители: %s! Вы выиграли **%s**!",
		KeyNoWinnerReply:   "Победитель розыгрыша **%s** не определён.",
		KeyReqHeader:       "Условия:",
		KeyReqRoles:        "Иметь все роли: %s",
		KeyReqAccountAge:   "Аккаунт создан до %s",
		KeyReqJoinedBefore: "Вступить на сервер до %s",
		KeyReqCustom:       "Пройти проверку %s",
		KeyRejRoles:        "нужно иметь все роли: %s",
		KeyRejAccountAge:   "аккаунт должен быть создан до %s",
		KeyRejJoinedBefore: "нужно было вступить на сервер до %s",
		KeyRejNotMember:    "нужно быть участником сервера",
		KeyRejCustom:       "вы не соответствуете условиям розыгрыша",
		KeyRejectionNotice: "%s, ваша заявка на **%s** не принята: %s",
	},
}

var (
	cat     = buildCatalog()
	matcher = language.NewMatcher(supported)
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range entries {
		for key, msg := range msgs {
			// ключи фиксированы, ошибка тут невозможна
			_ = b.SetString(tag, key, msg)
		}
	}
	return b
}

// Translator formats catalog messages for a single locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Translator for the best supported match of lang.
// Unknown or empty tags fall back to English.
func New(lang string) *Translator {
	tag := Match(lang)
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Match resolves lang against the supported locales.
func Match(lang string) language.Tag {
	if lang == "" {
		return language.English
	}
	desired, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(desired) == 0 {
		return language.English
	}
	_, idx, _ := matcher.Match(desired...)
	return supported[idx]
}

// Language returns the resolved locale tag.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T formats the message stored under key.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}
