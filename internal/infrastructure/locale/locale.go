// Package locale resolves the language of a storefront request.
package locale

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

// Fallback is used when neither the request nor the store names a language
const Fallback = "en"

type ctxKey struct{}

// ResolveLocale picks the request language. The explicit lang parameter wins
// when the store supports it, then the best Accept-Language match over the
// supported languages, then the store default.
func ResolveLocale(storeDefault string, supported []string, langParam, acceptLanguage string) language.Tag {
	def := parseOr(storeDefault, language.English)
	tags := supportedTags(def, supported)

	if langParam != "" {
		if tag, err := language.Parse(langParam); err == nil {
			if t, ok := exactBase(tag, tags); ok {
				return t
			}
		}
	}

	if acceptLanguage != "" {
		desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(desired) > 0 {
			matcher := language.NewMatcher(tags)
			_, idx, conf := matcher.Match(desired...)
			if conf != language.No {
				return tags[idx]
			}
		}
	}
	return def
}

// Code returns the ISO 639-1 code of a tag ("fr" for fr-CA)
func Code(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// Normalize returns the base language code of s, or "" when s does not parse
func Normalize(s string) string {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return Code(tag)
}

// WithLanguage stores the resolved language code in ctx
func WithLanguage(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ctxKey{}, code)
}

// FromContext returns the resolved language code, or Fallback
func FromContext(ctx context.Context) string {
	if code, ok := ctx.Value(ctxKey{}).(string); ok && code != "" {
		return code
	}
	return Fallback
}

func parseOr(s string, def language.Tag) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	base, _ := tag.Base()
	return language.Make(base.String())
}

// supportedTags returns the base tags of the store languages, default first
func supportedTags(def language.Tag, supported []string) []language.Tag {
	tags := []language.Tag{def}
	seen := map[string]bool{Code(def): true}
	for _, s := range supported {
		tag, err := language.Parse(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		code := Code(tag)
		if seen[code] {
			continue
		}
		seen[code] = true
		tags = append(tags, language.Make(code))
	}
	return tags
}

func exactBase(tag language.Tag, tags []language.Tag) (language.Tag, bool) {
	code := Code(tag)
	for _, t := range tags {
		if Code(t) == code {
			return t, true
		}
	}
	return language.Und, false
}
