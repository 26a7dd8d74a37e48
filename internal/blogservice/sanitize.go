package blogservice

import "regexp"

var scriptTagRX = regexp.MustCompile(`(?i)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

func sanitizeContent(content string) string {
	return scriptTagRX.ReplaceAllString(content, "")
}
