package richtext

import (
	"html"
	"strings"
)

// renderHTML serializes the document model. Mark nesting order is fixed
// (strong, em, u) so equal documents always serialize identically.
func renderHTML(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		switch blk.Type {
		case BlockParagraph:
			b.WriteString("<p>")
			renderItem(&b, blk.Items[0])
			b.WriteString("</p>")

		case BlockHeading:
			level := blk.Level
			if level < 1 || level > 6 {
				level = 1
			}
			tag := "h" + string(rune('0'+level))
			b.WriteString("<" + tag + ">")
			renderItem(&b, blk.Items[0])
			b.WriteString("</" + tag + ">")

		case BlockBulletList, BlockOrderedList:
			tag := "ul"
			if blk.Type == BlockOrderedList {
				tag = "ol"
			}
			b.WriteString("<" + tag + ">")
			for _, item := range blk.Items {
				b.WriteString("<li>")
				renderItem(&b, item)
				b.WriteString("</li>")
			}
			b.WriteString("</" + tag + ">")

		case BlockImage:
			b.WriteString(`<img src="` + html.EscapeString(blk.Src) + `">`)

		case BlockEmbed:
			b.WriteString(`<iframe src="` + html.EscapeString(blk.Src) + `"></iframe>`)
		}
	}
	return b.String()
}

// renderItem groups consecutive spans sharing an href under one anchor, so
// a link with mixed marks round-trips to a single <a>.
func renderItem(b *strings.Builder, spans []Span) {
	for i := 0; i < len(spans); {
		if spans[i].Href == "" {
			renderSpan(b, spans[i])
			i++
			continue
		}
		j := i
		for j < len(spans) && spans[j].Href == spans[i].Href {
			j++
		}
		b.WriteString(`<a href="` + html.EscapeString(spans[i].Href) + `">`)
		for _, s := range spans[i:j] {
			renderSpan(b, s)
		}
		b.WriteString("</a>")
		i = j
	}
}

func renderSpan(b *strings.Builder, s Span) {
	if s.Text == "" {
		return
	}
	var open, closing string
	if s.Marks&MarkBold != 0 {
		open += "<strong>"
		closing = "</strong>" + closing
	}
	if s.Marks&MarkItalic != 0 {
		open += "<em>"
		closing = "</em>" + closing
	}
	if s.Marks&MarkUnderline != 0 {
		open += "<u>"
		closing = "</u>" + closing
	}
	b.WriteString(open)
	b.WriteString(html.EscapeString(s.Text))
	b.WriteString(closing)
}
