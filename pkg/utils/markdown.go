// Package utils holds small text helpers shared by the bot's handlers.
package utils

import "strings"

// markdownV2Replacer escapes every character Telegram reserves in MarkdownV2 text.
var markdownV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"]", `\]`,
	"(", `\(`,
	")", `\)`,
	"~", `\~`,
	"`", "\\`",
	">", `\>`,
	"#", `\#`,
	"+", `\+`,
	"-", `\-`,
	"=", `\=`,
	"|", `\|`,
	"{", `\{`,
	"}", `\}`,
	".", `\.`,
	"!", `\!`,
)

// Inside pre and code entities only the backtick and backslash are special.
var markdownV2CodeReplacer = strings.NewReplacer(`\`, `\\`, "`", "\\`")

// EscapeMarkdownV2 escapes text for use outside entities in a MarkdownV2 message.
func EscapeMarkdownV2(text string) string {
	return markdownV2Replacer.Replace(text)
}

// EscapeMarkdownV2Code escapes text placed inside a `code` span.
func EscapeMarkdownV2Code(text string) string {
	return markdownV2CodeReplacer.Replace(text)
}
