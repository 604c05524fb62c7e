// Package docs holds the markdown topics shown by `menucustom docs` and the editor's help overlay.
package docs

import (
	"bufio"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topic is one embedded page. Title is its first level-one heading.
type Topic struct {
	Name  string `json:"topic"`
	Title string `json:"title"`
}

func Topics() []string {
	entries, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return []string{}
	}
	var topics []string
	for _, p := range entries {
		if topic := strings.TrimSuffix(path.Base(p), ".md"); topic != "" {
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}

// List returns every topic with its title, in name order.
func List() []Topic {
	names := Topics()
	out := make([]Topic, 0, len(names))
	for _, name := range names {
		body, _ := Get(name)
		out = append(out, Topic{Name: name, Title: Title(body)})
	}
	return out
}

func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" || strings.ContainsAny(topic, "/\\") {
		return "", false
	}
	b, err := contentFS.ReadFile(path.Join("content", topic+".md"))
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Title returns the text of the first "# " heading, or "".
func Title(md string) string {
	sc := bufio.NewScanner(strings.NewReader(md))
	for sc.Scan() {
		if t, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return ""
}
