package transform

import (
	"html"
	"regexp"
)

// bbPress stores code samples as <pre><code> blocks, optionally tagged with a
// language (<pre><code=python>), with the code itself HTML-entity encoded.
var codeBlockPattern = regexp.MustCompile(`(?is)<pre><code(=[a-z]*)?>(.*?)</code></pre>`)

// RewriteCodeBlocks converts <pre><code> blocks into triple-backtick fenced
// blocks, decoding the HTML entities inside. Pure function; callers apply it
// exactly once per row, since decoding twice would corrupt code that talks
// about entities.
func RewriteCodeBlocks(raw string) string {
	return codeBlockPattern.ReplaceAllStringFunc(raw, func(block string) string {
		inner := codeBlockPattern.FindStringSubmatch(block)[2]
		return "```\n" + html.UnescapeString(inner) + "\n```"
	})
}

// DecodeTitle decodes HTML-escaped title text.
func DecodeTitle(title string) string {
	return html.UnescapeString(title)
}
