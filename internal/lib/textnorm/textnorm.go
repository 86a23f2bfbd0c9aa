// Package textnorm приводит строки к каноничному виду для поиска без учёта
// регистра и диакритики: "José Müller" и "jose muller" считаются одинаковыми.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize раскладывает строку на базовые символы и комбинируемые знаки (NFD),
// удаляет знаки и переводит результат в нижний регистр.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// transform.Chain хранит состояние, поэтому собирается на каждый вызов.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(stripped)
}

// Matches сообщает, содержит ли нормализованный haystack нормализованный needle.
// needle, пустой после нормализации, совпадает всегда; пустой haystack
// не совпадает с непустым needle.
func Matches(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), n)
}
