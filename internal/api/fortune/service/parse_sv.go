package fortuneService

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fortunePayload covers both the current single-field response shape and the
// legacy multi-field one older prompts produced.
type fortunePayload struct {
	Fortune   string `json:"fortune"`
	Intro     string `json:"intro"`
	PalmLines string `json:"palmLines"`
	Love      string `json:"love"`
	Career    string `json:"career"`
	Health    string `json:"health"`
	Advice    string `json:"advice"`
}

var (
	fortuneFieldRe = regexp.MustCompile(`"fortune"\s*:\s*"([^"\\]*(?:\\.[^"\\]*)*)"`)
	codeFenceRe    = regexp.MustCompile("```json|```")
	headingRe      = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+`)
	bulletRe       = regexp.MustCompile(`(?m)^\s{0,3}[-*+]\s+`)
	boldRe         = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`)
	underscoreRe   = regexp.MustCompile(`_{1,3}([^_]+)_{1,3}`)
	inlineCodeRe   = regexp.MustCompile("`{1,3}([^`]*)`{1,3}")
	blankLinesRe   = regexp.MustCompile(`\n{3,}`)
	jsonBraceRe    = regexp.MustCompile(`(?i)json\s*\{`)
	leadingJSONRe  = regexp.MustCompile(`(?i)^json\s*\{`)
)

// parseFortuneText turns arbitrary model output into a display string. The
// stages are attempted in order and each one only runs if the previous
// failed; the final fallback is the sanitized raw text, so this never fails.
func parseFortuneText(raw string) string {
	if text, ok := parseJSONFortune(raw); ok {
		return normalizeDisplay(text)
	}
	if text, ok := extractFortuneField(raw); ok {
		return normalizeDisplay(text)
	}
	return normalizeDisplay(sanitizePlainText(raw))
}

// parseJSONFortune slices the first-{ to last-} substring and tries a strict
// JSON parse, accepting either the single fortune field or the legacy shape.
func parseJSONFortune(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}

	var payload fortunePayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return "", false
	}

	if payload.Fortune != "" {
		return payload.Fortune, true
	}

	if legacy := joinLegacyFields(payload); legacy != "" {
		return legacy, true
	}

	return "", false
}

// joinLegacyFields concatenates the old multi-section shape with single
// spaces. Absent sections contribute nothing; the joined ends are trimmed.
func joinLegacyFields(p fortunePayload) string {
	joined := strings.Join([]string{p.Intro, p.PalmLines, p.Love, p.Career, p.Health, p.Advice}, " ")
	return strings.TrimSpace(joined)
}

// extractFortuneField pulls a "fortune": "..." pair out of text that is not
// valid JSON as a whole, unescaping embedded quotes.
func extractFortuneField(raw string) (string, bool) {
	m := fortuneFieldRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return strings.ReplaceAll(m[1], `\"`, `"`), true
}

// sanitizePlainText is the last-resort cleanup for prose replies: markdown
// markers go, blank-line runs collapse, and leftover JSON artifacts (a
// leading "json" token, stray outer braces) are stripped.
func sanitizePlainText(raw string) string {
	t := codeFenceRe.ReplaceAllString(raw, "")
	t = headingRe.ReplaceAllString(t, "")
	t = bulletRe.ReplaceAllString(t, "")
	t = boldRe.ReplaceAllString(t, "$1")
	t = underscoreRe.ReplaceAllString(t, "$1")
	t = inlineCodeRe.ReplaceAllString(t, "$1")
	t = blankLinesRe.ReplaceAllString(t, "\n\n")
	t = strings.TrimSpace(t)

	if len(t) >= 4 && strings.EqualFold(t[:4], "json") {
		t = strings.TrimSpace(t[4:])
	}
	t = jsonBraceRe.ReplaceAllString(t, "")
	t = strings.TrimSpace(t)

	t = strings.TrimSpace(strings.TrimPrefix(t, "{"))
	t = strings.TrimSpace(strings.TrimSuffix(t, "}"))

	return t
}

// normalizeDisplay is the final pass over whichever stage produced the
// display string: a surviving "json {" prefix and one layer of wrapping
// quotes are removed.
func normalizeDisplay(text string) string {
	t := strings.TrimSpace(text)
	t = strings.TrimSpace(leadingJSONRe.ReplaceAllString(t, ""))

	if len(t) >= 2 && strings.HasPrefix(t, `"`) && strings.HasSuffix(t, `"`) {
		t = t[1 : len(t)-1]
	}

	return t
}
