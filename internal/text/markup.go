package text

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// pauseDirective matches "[JEDA: 1.5 detik]". The duration must carry a decimal point.
	pauseDirective = regexp.MustCompile(`\[JEDA: (\d+\.\d+) detik\]`)

	// styleDirective matches "[INSTRUKSI_SUARA: cheerful]"
	styleDirective = regexp.MustCompile(`\[INSTRUKSI_SUARA:\s*(.*?)\]`)

	// delimiterTokens are stripped from the script before synthesis
	delimiterTokens = []string{"START_SCRIPT", "---", "[TEKS_SCRIPT]"}
)

// Translate rewrites the custom script markup into the speech markup the backend understands.
// Pause directives become <break time="Nms"/> tags, voice-style directives become a
// "Say with a <style> voice:" prefix, section delimiters are removed and blank lines are dropped.
// Malformed directives are left untouched.
func Translate(raw string) string {
	out := pauseDirective.ReplaceAllStringFunc(raw, func(m string) string {
		sub := pauseDirective.FindStringSubmatch(m)
		seconds, err := strconv.ParseFloat(sub[1], 64)
		if err != nil {
			return m
		}
		return BreakTag(int(seconds * 1000))
	})

	for _, token := range delimiterTokens {
		out = strings.ReplaceAll(out, token, "")
	}

	out = styleDirective.ReplaceAllString(out, "Say with a ${1} voice:")

	return strings.TrimSpace(JoinNonBlankLines(out))
}

// BreakTag returns the pause markup for the given number of milliseconds.
func BreakTag(ms int) string {
	return fmt.Sprintf(`<break time="%dms"/>`, ms)
}

// JoinNonBlankLines trims every line and joins the non-blank ones with "\n".
func JoinNonBlankLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
