// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Language text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// DefaultLanguage is the fixed fallback language for all content resolution.
const DefaultLanguage = "en"

// Language represents one of the portal's supported content languages.
// The set is fixed; languages are not runtime-editable.
type Language struct {
	Code       string `json:"code"`        // ISO 639-1: en, ar, fr, es, de
	Name       string `json:"name"`        // English, Arabic, French, Spanish, German
	NativeName string `json:"native_name"` // English, العربية, Français, Español, Deutsch
	Direction  string `json:"direction"`   // ltr, rtl
}

// IsRTL returns true if the language is right-to-left.
func (l *Language) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// Languages is the fixed, ordered set of supported portal languages.
// Arabic is the sole right-to-left member.
var Languages = []Language{
	{"en", "English", "English", DirectionLTR},
	{"ar", "Arabic", "العربية", DirectionRTL},
	{"fr", "French", "Français", DirectionLTR},
	{"es", "Spanish", "Español", DirectionLTR},
	{"de", "German", "Deutsch", DirectionLTR},
}

var languagesByCode = func() map[string]Language {
	m := make(map[string]Language, len(Languages))
	for _, l := range Languages {
		m[l.Code] = l
	}
	return m
}()

// LanguageByCode returns the language for a code, if supported.
func LanguageByCode(code string) (Language, bool) {
	l, ok := languagesByCode[code]
	return l, ok
}

// IsSupportedLanguage reports whether code is one of the portal languages.
func IsSupportedLanguage(code string) bool {
	_, ok := languagesByCode[code]
	return ok
}

// LanguageCodes returns the supported codes in declaration order.
func LanguageCodes() []string {
	codes := make([]string, len(Languages))
	for i, l := range Languages {
		codes[i] = l.Code
	}
	return codes
}
