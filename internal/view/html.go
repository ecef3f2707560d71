package view

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Pre: true, atom.Blockquote: true, atom.Tr: true, atom.Table: true, atom.Section: true,
}

// HTMLToText renders lesson HTML as plain text for the terminal. Block
// elements start new lines, list items are bulleted, and scripts are dropped.
func HTMLToText(source string) string {
	z := html.NewTokenizer(strings.NewReader(source))

	var (
		b       strings.Builder
		skip    int
		pre     int
		pending bool
	)
	newline := func() {
		pending = false
		s := b.String()
		if s != "" && !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			return tidy(b.String())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style:
				skip++
				continue
			case atom.Pre:
				pre++
			}
			if blockElements[tok.DataAtom] {
				newline()
			}
			if tok.DataAtom == atom.Li {
				b.WriteString("- ")
			}
		case html.EndTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style:
				if skip > 0 {
					skip--
				}
				continue
			case atom.Pre:
				if pre > 0 {
					pre--
				}
			}
			if blockElements[tok.DataAtom] {
				newline()
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := string(z.Text())
			if pre == 0 {
				leading := text != "" && unicode.IsSpace(rune(text[0]))
				trailing := text != "" && unicode.IsSpace(rune(text[len(text)-1]))
				text = strings.Join(strings.Fields(text), " ")
				if text == "" {
					pending = pending || leading
					continue
				}
				s := b.String()
				if (pending || leading) && s != "" && !strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, " ") {
					b.WriteByte(' ')
				}
				pending = trailing
			}
			b.WriteString(text)
		}
	}
}

func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
