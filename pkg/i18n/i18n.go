// Package i18n resolves localized response messages.
//
// The language is negotiated from Accept-Language against the supported set
// (en, ar, hi). Anything unsupported or unparsable falls back to English.
package i18n

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
)

// Default is used when negotiation fails or a translation is missing.
const Default = "en"

var supported = []language.Tag{
	language.English, // first entry is the matcher's fallback
	language.Arabic,
	language.Hindi,
}

var matcher = language.NewMatcher(supported)

// Negotiate maps an Accept-Language header value to one of "en", "ar", "hi".
func Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return Default
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// Supported reports whether lang has a message table.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// T returns the message for code in lang, falling back to English.
// Extra args are applied with fmt.Sprintf when present.
func T(lang string, code Code, args ...any) string {
	msg, ok := lookup(lang, code)
	if !ok {
		msg, ok = lookup(Default, code)
	}
	if !ok {
		return "Unknown message"
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func lookup(lang string, code Code) (string, bool) {
	table, ok := catalog[lang]
	if !ok {
		return "", false
	}
	msg, ok := table[code]
	return msg, ok
}

// ─── Context propagation ──────────────────────────────────────────────────────

type ctxKey struct{}

// WithLang stores the negotiated language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// FromCtx returns the language stored by WithLang, or Default.
func FromCtx(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return Default
}
