package application

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/oksasatya/go-register-login/pkg/validation"
)

// CheckHuman compares the client's captcha token with the expected answer.
// A nil expected answer means none was supplied; zero is a real answer.
// It returns nil when the check passes.
func CheckHuman(humanToken string, expected *int) validation.Errors {
	if humanToken == "" || expected == nil {
		return validation.Errors{validation.FieldHuman: {MsgHumanRequired}}
	}
	got, ok := parseLeadingInt(humanToken)
	if !ok || got != *expected {
		return validation.Errors{validation.FieldHuman: {MsgIncorrectCaptcha}}
	}
	return nil
}

// parseLeadingInt reads an optionally signed run of decimal digits after
// leading whitespace and ignores whatever follows, so "12abc" is 12.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
