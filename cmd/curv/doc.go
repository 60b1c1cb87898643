package main

import "strings"

// docTopics holds the `curv doc <topic>` pages as Markdown source; doc
// renders them through blackfriday and strips the resulting HTML tags
// down to plain text, since a terminal has no HTML renderer.
var docTopics = map[string]string{
	"eval": `# curv eval

Evaluate a single .curv file and print its final expression's value.

    curv eval scene.curv
    curv --format=json eval scene.curv
`,
	"repl": `# curv repl

Start an interactive read-eval-print loop. Each line you type is
evaluated as a complete, independent program: there are no bindings
carried over from one line to the next.
`,
	"watch": `# curv watch

Re-evaluate a file every time it changes on disk, printing the new
result after each save. Exits on Ctrl-C.
`,
	"test": `# curv test

Run every top-level ` + "`test name = expr`" + ` assertion in a file and
print a pass/fail line for each one, followed by a final tally.
`,
	"format": `# --format

Selects how values print: ` + "`c`" + `, ` + "`json`" + `, ` + "`xml`" + `, ` + "`expr`" + ` or ` + "`curv`" + `.
Each style renders numbers, strings and Inf/NaN differently; see the
language reference for the exact rules.
`,
}

// stripTags removes HTML markup from blackfriday's rendered output,
// leaving plain text suitable for a terminal. It is not a general HTML
// sanitizer — doc topics are fixed strings this program owns, not
// untrusted input.
func stripTags(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	text := b.String()
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.TrimRight(text, "\n")
	return text
}
