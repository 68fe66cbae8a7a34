// Package markdown parses the restricted markdown dialect used by lesson
// content into a presentation-neutral block model. It never emits raw markup
// from the source; renderers decide how each block and span looks.
package markdown

import "strings"

// BlockKind is the type of a top-level block.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading1
	Heading2
	List
	Code
)

func (k BlockKind) String() string {
	switch k {
	case Heading1:
		return "h1"
	case Heading2:
		return "h2"
	case List:
		return "list"
	case Code:
		return "code"
	default:
		return "paragraph"
	}
}

// Block is one rendered element.
type Block struct {
	Kind BlockKind

	// Spans holds inline content for headings and paragraphs.
	Spans []Span

	// Items holds one span sequence per list item.
	Items [][]Span

	// Code holds verbatim code block content; Lang is the optional fence tag.
	Code string
	Lang string
}

// PlainText returns the block's text without formatting.
func (b Block) PlainText() string {
	switch b.Kind {
	case Code:
		return b.Code
	case List:
		items := make([]string, len(b.Items))
		for i, it := range b.Items {
			items[i] = SpansText(it)
		}
		return strings.Join(items, "\n")
	default:
		return SpansText(b.Spans)
	}
}

const fence = "```"

// Render parses src into blocks. Rules, applied line by line:
//
//   - a line starting with ``` opens a code block that runs until a line
//     that is exactly ``` (or end of input);
//   - "# " and "## " start level 1 and level 2 headings;
//   - consecutive "- " lines form a list;
//   - blank lines separate blocks;
//   - any other run of lines is joined with spaces into a paragraph.
func Render(src string) []Block {
	lines := splitLines(src)
	var out []Block

	for i := 0; i < len(lines); {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, fence):
			lang := strings.TrimSpace(line[len(fence):])
			var buf []string
			i++
			for i < len(lines) && !isFenceClose(lines[i]) {
				buf = append(buf, lines[i])
				i++
			}
			// Skip the closing fence when present.
			i++
			out = append(out, Block{Kind: Code, Code: strings.Join(buf, "\n"), Lang: lang})

		case strings.HasPrefix(line, "# "):
			out = append(out, Block{Kind: Heading1, Spans: ParseInline(line[2:])})
			i++

		case strings.HasPrefix(line, "## "):
			out = append(out, Block{Kind: Heading2, Spans: ParseInline(line[3:])})
			i++

		case strings.HasPrefix(line, "- "):
			var items [][]Span
			for i < len(lines) && strings.HasPrefix(lines[i], "- ") {
				items = append(items, ParseInline(lines[i][2:]))
				i++
			}
			out = append(out, Block{Kind: List, Items: items})

		case strings.TrimSpace(line) == "":
			i++

		default:
			para := []string{line}
			i++
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" && !startsBlock(lines[i]) {
				para = append(para, lines[i])
				i++
			}
			out = append(out, Block{Kind: Paragraph, Spans: ParseInline(strings.Join(para, " "))})
		}
	}

	return out
}

func splitLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func isFenceClose(line string) bool {
	return strings.TrimRight(line, " \t") == fence
}

// startsBlock reports whether line begins a heading, list item or fence and
// therefore ends a paragraph.
func startsBlock(line string) bool {
	return strings.HasPrefix(line, "# ") ||
		strings.HasPrefix(line, "## ") ||
		strings.HasPrefix(line, "- ") ||
		strings.HasPrefix(line, fence)
}
