package docs

import "testing"

func TestTopicsAndGet(t *testing.T) {
	topics := Topics()
	if len(topics) == 0 {
		t.Fatalf("expected embedded topics")
	}
	for _, topic := range topics {
		body, ok := Get(topic)
		if !ok || body == "" {
			t.Fatalf("topic %q: ok=%v body=%q", topic, ok, body)
		}
	}
	if _, ok := Get("KEYS"); !ok {
		t.Fatalf("expected case-insensitive lookup")
	}
	if _, ok := Get("../docs"); ok {
		t.Fatalf("expected path-like topics to be rejected")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("expected unknown topic to miss")
	}
}

func TestListCarriesTitles(t *testing.T) {
	var keys Topic
	for _, tp := range List() {
		if tp.Title == "" {
			t.Fatalf("topic %q has no title", tp.Name)
		}
		if tp.Name == "keys" {
			keys = tp
		}
	}
	if keys.Title != "Editor keys" {
		t.Fatalf("keys topic = %+v", keys)
	}
	if got := Title("intro\n\n## Sub\n#  Main  \n"); got != "Main" {
		t.Fatalf("Title = %q", got)
	}
}
