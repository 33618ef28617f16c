package docs

import (
	"strings"
	"testing"
)

func TestTopicsIncludeCoreGuides(t *testing.T) {
	topics := Topics()
	for _, want := range []string{"getting-started", "refine", "export", "keybindings"} {
		found := false
		for _, got := range topics {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected topic %q in %v", want, topics)
		}
	}
}

func TestGetIsCaseInsensitiveAndTrimmed(t *testing.T) {
	body, ok := Get("  Refine ")
	if !ok {
		t.Fatalf("expected topic lookup to succeed")
	}
	if !strings.Contains(body, "preview") {
		t.Fatalf("unexpected body: %q", body)
	}
	if _, ok := Get("no-such-topic"); ok {
		t.Fatalf("expected missing topic to report not found")
	}
	if _, ok := Get(""); ok {
		t.Fatalf("expected empty topic to report not found")
	}
}
