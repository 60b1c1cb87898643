package main

import (
	"strings"
	"testing"

	"github.com/russross/blackfriday/v2"
)

func TestStripTagsRemovesMarkup(t *testing.T) {
	html := string(blackfriday.Run([]byte("# Title\n\nSome *text*.\n")))
	got := stripTags(html)
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Fatalf("stripTags left markup in: %q", got)
	}
	if !strings.Contains(got, "Title") || !strings.Contains(got, "text") {
		t.Fatalf("stripTags dropped content: %q", got)
	}
}

func TestDocTopicsAllRenderWithoutTags(t *testing.T) {
	for topic, md := range docTopics {
		html := blackfriday.Run([]byte(md))
		got := stripTags(string(html))
		if got == "" {
			t.Fatalf("doc topic %q rendered empty", topic)
		}
	}
}
