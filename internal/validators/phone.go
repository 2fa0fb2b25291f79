package validators

import (
	"regexp"
	"strings"
)

// Rwandan mobile numbers in E.164 form: +250 followed by nine digits.
var rwandaPhone = regexp.MustCompile(`^\+250\d{9}$`)

func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

func IsValidPhone(phone string) bool {
	return rwandaPhone.MatchString(phone)
}

// MaskPhone keeps the last four digits, e.g. ****3456.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return "****" + phone[len(phone)-4:]
}
