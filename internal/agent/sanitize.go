package agent

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	bookingIDPattern = regexp.MustCompile(`booking_id.*?(\d+)`)
	carIDPattern     = regexp.MustCompile(`car_id.*?(\d+)`)
)

// hasIDReference reports whether a tool result mentions a booking or
// car ID and is therefore worth keeping in compacted form.
func hasIDReference(content string) bool {
	return strings.Contains(content, "booking_id") || strings.Contains(content, "car_id")
}

// compactIDs rewrites a verbose tool payload into a minimal list of
// the booking and car IDs it mentions. Content without any ID is
// returned unchanged.
func compactIDs(content string) string {
	type ref map[string]int
	var refs []ref
	for _, m := range bookingIDPattern.FindAllStringSubmatch(content, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		refs = append(refs, ref{"booking_id": id})
	}
	for _, m := range carIDPattern.FindAllStringSubmatch(content, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		refs = append(refs, ref{"car_id": id})
	}
	if len(refs) == 0 {
		return content
	}
	raw, err := json.Marshal(refs)
	if err != nil {
		return content
	}
	return string(raw)
}

// Sanitize compacts completed exchanges in a thread history. After
// each exchange completed by a substantive assistant turn, tool
// results mentioning booking or car IDs are rewritten to their compact
// form and the remaining intermediate messages of that exchange
// (assistant tool-call turns and ID-free tool results) are dropped.
// Messages of an exchange still in flight are left alone.
func Sanitize(history []Message) []Message {
	var cleaned []Message
	var middle []int // indices into cleaned awaiting commit
	users, bots := 0, 0

	for _, m := range history {
		switch m.Kind {
		case KindUser:
			cleaned = append(cleaned, m)
			users++

		case KindAssistant:
			cleaned = append(cleaned, m)
			if !m.Substantive() {
				middle = append(middle, len(cleaned)-1)
				continue
			}
			bots++
			if users != bots {
				continue
			}
			for i := range cleaned {
				if cleaned[i].Kind == KindTool && hasIDReference(cleaned[i].Content) {
					cleaned[i].Content = compactIDs(cleaned[i].Content)
				}
			}
			cleaned = dropIndices(cleaned, middle)
			middle = nil

		case KindTool:
			cleaned = append(cleaned, m)
			if !hasIDReference(m.Content) {
				middle = append(middle, len(cleaned)-1)
			}
		}
	}
	return cleaned
}

func dropIndices(msgs []Message, drop []int) []Message {
	if len(drop) == 0 {
		return msgs
	}
	skip := make(map[int]bool, len(drop))
	for _, i := range drop {
		skip[i] = true
	}
	out := msgs[:0]
	for i, m := range msgs {
		if !skip[i] {
			out = append(out, m)
		}
	}
	return out
}

// Truncate applies the context-window budget before a model
// invocation, keyed on the token usage reported by the second-to-last
// message: over 6500 tokens keeps the last 3 messages, over 5000 the
// last 4. Anything lower leaves the history untouched.
func Truncate(history []Message) []Message {
	if len(history) < 2 {
		return history
	}
	tokens := history[len(history)-2].TotalTokens
	switch {
	case tokens > 6500:
		return lastN(history, 3)
	case tokens > 5000:
		return lastN(history, 4)
	default:
		return history
	}
}

func lastN(msgs []Message, n int) []Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
