package richtext

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// parseHTML builds the document model from an HTML content string. Unknown
// wrappers are traversed transparently; images and embeds nested in text are
// hoisted to their own blocks, which is the same normalization the widget
// applies.
func parseHTML(content string) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}

	body := doc.Find("body")
	if len(body.Nodes) == 0 {
		return nil, nil
	}

	var blocks []Block
	for n := body.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		blocks = append(blocks, parseNode(n)...)
	}
	return blocks, nil
}

func parseNode(n *html.Node) []Block {
	switch {
	case n.Type == html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		spans, imgs := parseInline(n, 0)
		return textBlocks(BlockParagraph, 0, spans, imgs)

	case n.Type != html.ElementNode:
		return nil
	}

	switch n.Data {
	case "p", "div":
		spans, imgs := parseChildren(n, 0)
		return textBlocks(BlockParagraph, 0, spans, imgs)

	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		spans, imgs := parseChildren(n, 0)
		return textBlocks(BlockHeading, level, spans, imgs)

	case "ul", "ol":
		t := BlockBulletList
		if n.Data == "ol" {
			t = BlockOrderedList
		}
		var items [][]Span
		var trailing []Block
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.Data != "li" {
				continue
			}
			spans, imgs := parseChildren(c, 0)
			items = append(items, mergeSpans(spans))
			trailing = append(trailing, imgs...)
		}
		if len(items) == 0 {
			return trailing
		}
		return append([]Block{{Type: t, Items: items}}, trailing...)

	case "img":
		if src := attr(n, "src"); src != "" {
			return []Block{{Type: BlockImage, Src: src}}
		}
		return nil

	case "iframe":
		if src := attr(n, "src"); src != "" {
			return []Block{{Type: BlockEmbed, Src: src}}
		}
		return nil

	default:
		// Transparent wrapper: treat children as inline paragraph content.
		spans, imgs := parseChildren(n, marksFor(n.Data))
		return textBlocks(BlockParagraph, 0, spans, imgs)
	}
}

// textBlocks assembles a textual block, appending hoisted image and embed
// blocks.
func textBlocks(t BlockType, level int, spans []Span, imgs []Block) []Block {
	spans = mergeSpans(spans)
	if len(spans) == 0 && len(imgs) > 0 {
		return imgs
	}
	out := []Block{{Type: t, Level: level, Items: [][]Span{spans}}}
	return append(out, imgs...)
}

func parseChildren(n *html.Node, marks Mark) (spans []Span, imgs []Block) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s, i := parseInline(c, marks)
		spans = append(spans, s...)
		imgs = append(imgs, i...)
	}
	return spans, imgs
}

func parseInline(n *html.Node, marks Mark) (spans []Span, imgs []Block) {
	switch n.Type {
	case html.TextNode:
		if n.Data != "" {
			spans = append(spans, Span{Text: n.Data, Marks: marks})
		}
		return spans, imgs

	case html.ElementNode:
		switch n.Data {
		case "img":
			if src := attr(n, "src"); src != "" {
				imgs = append(imgs, Block{Type: BlockImage, Src: src})
			}
			return spans, imgs
		case "iframe":
			if src := attr(n, "src"); src != "" {
				imgs = append(imgs, Block{Type: BlockEmbed, Src: src})
			}
			return spans, imgs
		case "br":
			spans = append(spans, Span{Text: " ", Marks: marks})
			return spans, imgs
		case "a":
			spans, imgs = parseChildren(n, marks)
			if href := attr(n, "href"); href != "" {
				for i := range spans {
					spans[i].Href = href
				}
			}
			return spans, imgs
		}
		return parseChildren(n, marks|marksFor(n.Data))
	}
	return spans, imgs
}

func marksFor(tag string) Mark {
	switch tag {
	case "strong", "b":
		return MarkBold
	case "em", "i":
		return MarkItalic
	case "u":
		return MarkUnderline
	}
	return 0
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
