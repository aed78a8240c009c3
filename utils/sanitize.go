package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy   = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content (article and horoscope bodies) to prevent XSS.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizePlain strips all markup; used for titles, author names and other
// fields rendered as plain text.
func SanitizePlain(input string) string {
	return plainPolicy.Sanitize(input)
}
