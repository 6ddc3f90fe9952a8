package reply

import (
	"fmt"
	"strings"
	"testing"

	"github.com/iamvkosarev/reply-genie-bot/internal/model"
)

func assertReplies(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d replies, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("reply %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtract_JSONArray(t *testing.T) {
	got := Extract(`["a reply", "another reply", "third reply"]`, model.LengthMedium)
	assertReplies(t, got, []string{"a reply", "another reply", "third reply"})
}

func TestExtract_JSONArrayDropsBlankAndNonStrings(t *testing.T) {
	got := Extract(`["sure thing", "", 42, "   ", null, "on my way"]`, model.LengthMedium)
	assertReplies(t, got, []string{"sure thing", "on my way", FallbackReplies[0]})
}

func TestExtract_JSONArrayKeepsFirstThree(t *testing.T) {
	got := Extract(`["one", "two", "three", "four"]`, model.LengthShort)
	assertReplies(t, got, []string{"one", "two", "three"})
}

func TestExtract_JSONWithoutArrayFallsBackToFillers(t *testing.T) {
	got := Extract(`{"replies": ["a", "b", "c"]}`, model.LengthMedium)
	assertReplies(t, got, FallbackReplies[:])
}

func TestExtract_NumberedLines(t *testing.T) {
	got := Extract("1. First reply\n2. Second reply\n3. Third reply", model.LengthMedium)
	assertReplies(t, got, []string{"First reply", "Second reply", "Third reply"})
}

func TestExtract_NumberedLinesWithContinuations(t *testing.T) {
	raw := "Here are some options:\n\n1. Sounds good,\n   see you at 8\n2. Can't tonight\nmaybe tomorrow?\n3. Let me check"
	got := Extract(raw, model.LengthMedium)
	assertReplies(t, got, []string{
		"Here are some options:",
		"Sounds good, see you at 8",
		"Can't tonight maybe tomorrow?",
	})
}

func TestExtract_StandaloneLinesOnlyWhileShort(t *testing.T) {
	raw := "first\nsecond\nthird\nfourth"
	got := Extract(raw, model.LengthMedium)
	assertReplies(t, got, []string{"first", "second", "third"})
}

func TestExtract_SingleLinePadsWithFillers(t *testing.T) {
	got := Extract("Sure, I'll be there at eight.", model.LengthMedium)
	assertReplies(t, got, []string{
		"Sure, I'll be there at eight.",
		FallbackReplies[0],
		FallbackReplies[1],
	})
}

func TestExtract_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "\n\n   \n"} {
		got := Extract(raw, model.LengthShort)
		assertReplies(t, got, FallbackReplies[:])
	}
}

func TestExtract_AlwaysThree(t *testing.T) {
	for n := 0; n <= 5; n++ {
		var lines []string
		for i := 1; i <= n; i++ {
			lines = append(lines, fmt.Sprintf("%d. option number %d", i, i))
		}
		got := Extract(strings.Join(lines, "\n"), model.LengthLong)
		if len(got) != Count {
			t.Errorf("%d candidate lines: expected %d replies, got %d", n, Count, len(got))
		}
	}
}

func TestExtract_WordCeilingPerLength(t *testing.T) {
	long := strings.Repeat("word ", 200)
	raw := fmt.Sprintf(`["%s", "%s!", "short one"]`, long, strings.TrimSpace(long))

	for _, length := range model.Lengths {
		got := Extract(raw, length)
		for i, text := range got {
			words := len(strings.Fields(text))
			if words > length.WordLimit() {
				t.Errorf("%s reply %d has %d words, ceiling %d", length, i, words, length.WordLimit())
			}
		}
		for _, text := range got[:2] {
			if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
				t.Errorf("%s: truncated reply lacks terminal punctuation: %q", length, text)
			}
		}
	}
}

func TestTruncateToWordLimit(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "under limit untouched", text: "  keep   my spacing ", limit: 5, want: "  keep   my spacing "},
		{name: "cut adds period", text: "one two three four", limit: 2, want: "one two."},
		{name: "cut keeps question mark", text: "are you? really sure", limit: 2, want: "are you?"},
		{name: "cut keeps exclamation", text: "wow! that is great", limit: 1, want: "wow!"},
		{name: "cut keeps period", text: "done. moving on now", limit: 1, want: "done."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateToWordLimit(tt.text, tt.limit); got != tt.want {
				t.Errorf("TruncateToWordLimit(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}
