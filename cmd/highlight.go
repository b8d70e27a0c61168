package cmd

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const highlightStyle = "monokai"

// highlight writes source to w with terminal colors, picking the lexer by
// name or, when name is empty, by file path.
func highlight(w io.Writer, source, lexerName, path string) error {
	var lexer chroma.Lexer
	if lexerName != "" {
		lexer = lexers.Get(lexerName)
	} else {
		lexer = lexerForPath(path)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return err
	}
	return formatter.Format(w, style, it)
}

func lexerForPath(path string) chroma.Lexer {
	if path == "" {
		return nil
	}
	return lexers.Match(path)
}
