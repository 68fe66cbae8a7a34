package markdown

import "strings"

// SpanKind is the formatting applied to a run of inline text.
type SpanKind int

const (
	Text SpanKind = iota
	Bold
	Italic
	InlineCode
)

// Span is a run of text with a single formatting.
type Span struct {
	Kind SpanKind
	Text string
}

// ParseInline tokenizes s left to right. At each position it tries, in
// order, `code`, **bold** and *italic*; a delimiter with no closing partner
// is kept as literal text. Adjacent text spans are merged and empty
// formatted spans are dropped.
func ParseInline(s string) []Span {
	var spans []Span

	for i := 0; i < len(s); {
		switch s[i] {
		case '`':
			if j := strings.IndexByte(s[i+1:], '`'); j >= 0 {
				spans = appendSpan(spans, InlineCode, s[i+1:i+1+j])
				i += j + 2
				continue
			}
			spans = appendSpan(spans, Text, "`")
			i++
			continue

		case '*':
			if strings.HasPrefix(s[i:], "**") {
				if j := strings.Index(s[i+2:], "**"); j >= 0 {
					spans = appendSpan(spans, Bold, s[i+2:i+2+j])
					i += j + 4
					continue
				}
				// Unmatched "**": keep one star as text, then retry.
				spans = appendSpan(spans, Text, "*")
				i++
				continue
			}
			if j := strings.IndexByte(s[i+1:], '*'); j >= 0 {
				spans = appendSpan(spans, Italic, s[i+1:i+1+j])
				i += j + 2
				continue
			}
			spans = appendSpan(spans, Text, "*")
			i++
			continue
		}

		j := i + 1
		for j < len(s) && s[j] != '`' && s[j] != '*' {
			j++
		}
		spans = appendSpan(spans, Text, s[i:j])
		i = j
	}

	return spans
}

func appendSpan(spans []Span, kind SpanKind, text string) []Span {
	if text == "" {
		return spans
	}
	if kind == Text && len(spans) > 0 && spans[len(spans)-1].Kind == Text {
		spans[len(spans)-1].Text += text
		return spans
	}
	return append(spans, Span{Kind: kind, Text: text})
}

// SpansText concatenates the text of spans, dropping formatting.
func SpansText(spans []Span) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}
