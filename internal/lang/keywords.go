// © 2026 Robin Language Authors
//
// SPDX-License-Identifier: Apache-2.0

package lang

// keywords is the closed set of reserved words the grammar supports.
var keywords = map[string]TokenType{
	"if":    TokenTypeKeywordIf,
	"elif":  TokenTypeKeywordElif,
	"else":  TokenTypeKeywordElse,
	"while": TokenTypeKeywordWhile,
	"def":   TokenTypeKeywordDef,
	"True":  TokenTypeKeywordTrue,
	"False": TokenTypeKeywordFalse,
}

// reservedWords is the full reserved superset. Words in this set that are not
// in keywords must never be classified as identifiers: silently treating an
// unsupported reserved word as a name would mis-parse the program.
var reservedWords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "break": true, "class": true, "continue": true,
	"def": true, "del": true, "elif": true, "else": true, "except": true,
	"finally": true, "for": true, "from": true, "global": true, "if": true,
	"import": true, "in": true, "is": true, "lambda": true, "nonlocal": true,
	"not": true, "or": true, "pass": true, "raise": true, "return": true,
	"try": true, "while": true, "with": true, "yield": true,
}

// ClassifyWord maps a lexed word to its token type. The second return is true
// when the word is a reserved word outside the supported keyword subset, which
// callers must treat as a fatal classification error rather than an identifier.
func ClassifyWord(word string) (TokenType, bool) {
	if t, ok := keywords[word]; ok {
		return t, false
	}
	if reservedWords[word] {
		return TokenTypeUnknown, true
	}
	return TokenTypeIdentifier, false
}
