// Package i18n negotiates the storefront language.
package i18n

import (
	"golang.org/x/text/language"
)

const Default = "en"

// Supported lists storefront languages; the first entry is the fallback.
var Supported = []string{"en", "hi", "ta", "kn", "ar"}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Hindi,
	language.Tamil,
	language.Kannada,
	language.Arabic,
})

func IsSupported(lang string) bool {
	for _, l := range Supported {
		if l == lang {
			return true
		}
	}
	return false
}

// IsRTL reports whether lang is written right to left.
func IsRTL(lang string) bool {
	return lang == "ar"
}

// Negotiate prefers the saved account language, then the Accept-Language header.
func Negotiate(acceptLanguage, preferred string) string {
	if IsSupported(preferred) {
		return preferred
	}
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
	return Supported[idx]
}
