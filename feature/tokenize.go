package feature

import (
	"strings"
	"unicode"
)

// Tokenize 把文本切分为小写词元。
// 词元是连续的字母/数字/下划线，长度至少为 2（单字符被丢弃）。
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	tokens := make([]string, 0, 16)
	start := -1
	runes := 0
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			tokens = append(tokens, text[start:end])
		}
		start = -1
		runes = 0
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
