package contract

import (
	"regexp"
	"strings"
)

var answerEnvelope = regexp.MustCompile(`(?s)<answer>(.*?)</answer>`)

// ExtractAnswer returns the trimmed text of the first <answer>...</answer>
// region. ok is false when no well-formed region exists or the region holds
// only whitespace. Later regions are ignored.
func ExtractAnswer(raw string) (answer string, ok bool) {
	match := answerEnvelope.FindStringSubmatch(raw)
	if match == nil {
		return "", false
	}

	answer = strings.TrimSpace(match[1])
	if answer == "" {
		return "", false
	}
	return answer, true
}
