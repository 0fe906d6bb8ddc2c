// Package richtext is an editable HTML document model bound to a single
// content field: blocks of marked text spans with a cursor, formatting
// toggles, links, and image or video insertion. Every edit emits the
// serialized HTML of the current document; the editor knows nothing about
// persistence.
package richtext

// Mark is an inline formatting flag. Marks combine as a bitmask.
type Mark uint8

const (
	MarkBold Mark = 1 << iota
	MarkItalic
	MarkUnderline
)

// BlockType classifies top-level document nodes.
type BlockType int

const (
	BlockParagraph BlockType = iota
	BlockHeading
	BlockBulletList
	BlockOrderedList
	BlockImage
	BlockEmbed
)

// isVoid reports whether a block carries no editable text.
func isVoid(t BlockType) bool {
	return t == BlockImage || t == BlockEmbed
}

// Span is a run of text carrying one set of marks. A non-empty Href makes the
// run a link; the href rides alongside the mark bitmask because it carries a
// payload.
type Span struct {
	Text  string
	Marks Mark
	Href  string
}

// Block is one top-level node. Paragraphs and headings hold exactly one item;
// lists hold one item per list entry; images and embeds hold none.
type Block struct {
	Type  BlockType
	Level int // heading level 1..6
	Src   string
	Items [][]Span
}

// Position addresses a rune offset inside one item of one block.
type Position struct {
	Block  int
	Item   int
	Offset int
}

func (p Position) before(q Position) bool {
	if p.Block != q.Block {
		return p.Block < q.Block
	}
	if p.Item != q.Item {
		return p.Item < q.Item
	}
	return p.Offset < q.Offset
}

// ContentChanged carries the serialized document after an edit.
type ContentChanged struct {
	HTML string
}

// Editor is the authoring surface. It is not safe for concurrent use; the
// owning controller serializes access.
type Editor struct {
	blocks  []Block
	cursor  Position
	anchor  Position
	pending Mark
	updates []func(ContentChanged)
}

func NewEditor() *Editor {
	e := &Editor{}
	e.reset(nil)
	return e
}

// OnUpdate registers a callback invoked with the serialized HTML after every
// content-changing command.
func (e *Editor) OnUpdate(fn func(ContentChanged)) {
	e.updates = append(e.updates, fn)
}

// SetContent replaces the whole document. This is an explicit reset: it moves
// the cursor to the end and does not emit ContentChanged.
func (e *Editor) SetContent(html string) error {
	blocks, err := parseHTML(html)
	if err != nil {
		return err
	}
	e.reset(blocks)
	return nil
}

// HTML serializes the current document.
func (e *Editor) HTML() string {
	return renderHTML(e.blocks)
}

func (e *Editor) reset(blocks []Block) {
	e.blocks = normalize(blocks)
	e.cursor = e.endPosition()
	e.anchor = e.cursor
	e.pending = e.marksAt(e.cursor)
}

func (e *Editor) emit() {
	ev := ContentChanged{HTML: e.HTML()}
	for _, fn := range e.updates {
		fn(ev)
	}
}

// Select sets the selection range. Positions are clamped to the document.
func (e *Editor) Select(from, to Position) {
	e.anchor = e.clamp(from)
	e.cursor = e.clamp(to)
	e.pending = e.marksAt(e.cursor)
}

// SelectAll selects the whole document.
func (e *Editor) SelectAll() {
	e.Select(Position{}, e.endPosition())
}

// Cursor returns the current cursor position.
func (e *Editor) Cursor() Position {
	return e.cursor
}

// selection returns the ordered selection range.
func (e *Editor) selection() (Position, Position) {
	if e.cursor.before(e.anchor) {
		return e.cursor, e.anchor
	}
	return e.anchor, e.cursor
}

func (e *Editor) collapsed() bool {
	return e.anchor == e.cursor
}

// ToggleBold toggles bold over the selection, or flips the pending mark at a
// collapsed cursor.
func (e *Editor) ToggleBold() { e.toggleMark(MarkBold) }

// ToggleItalic toggles italic over the selection.
func (e *Editor) ToggleItalic() { e.toggleMark(MarkItalic) }

// ToggleUnderline toggles underline over the selection.
func (e *Editor) ToggleUnderline() { e.toggleMark(MarkUnderline) }

func (e *Editor) toggleMark(m Mark) {
	if e.collapsed() {
		// No content change; only the marks applied to the next insertion.
		e.pending ^= m
		return
	}

	from, to := e.selection()
	add := !e.rangeHasMark(from, to, m)
	e.applyMarkRange(from, to, m, add)
	e.pending = e.marksAt(e.cursor)
	e.emit()
}

// SetLink turns the selected text into a link. An empty href removes any
// link; a collapsed cursor is a no-op since there is nothing to wrap.
func (e *Editor) SetLink(href string) {
	if e.collapsed() {
		return
	}
	from, to := e.selection()
	e.forEachItemInRange(from, to, func(block, item, start, end int) {
		spans := e.blocks[block].Items[item]
		e.blocks[block].Items[item] = applyLinkToItem(spans, start, end, href)
	})
	e.emit()
}

// UnsetLink removes links from the selected text.
func (e *Editor) UnsetLink() { e.SetLink("") }

// ActiveLink returns the href in effect at the cursor, or "".
func (e *Editor) ActiveLink() string {
	s, ok := e.spanAt(e.cursor)
	if !ok {
		return ""
	}
	return s.Href
}

// IsActive reports whether the mark is in effect at the cursor.
func (e *Editor) IsActive(m Mark) bool {
	if e.collapsed() {
		return e.pending&m != 0
	}
	from, to := e.selection()
	return e.rangeHasMark(from, to, m)
}

// CanFormat reports whether inline formatting applies at the cursor. It is
// false only on image and embed blocks, which carry no text.
func (e *Editor) CanFormat() bool {
	return !isVoid(e.blocks[e.cursor.Block].Type)
}

// ActiveBlock returns the block type and heading level at the cursor.
func (e *Editor) ActiveBlock() (BlockType, int) {
	b := e.blocks[e.cursor.Block]
	return b.Type, b.Level
}

// ToggleHeading converts paragraphs in the selection to headings of the given
// level, or back to paragraphs when already at that level.
func (e *Editor) ToggleHeading(level int) {
	if level < 1 || level > 6 {
		return
	}
	changed := false
	for i := e.selectedBlockStart(); i <= e.selectedBlockEnd(); i++ {
		b := &e.blocks[i]
		switch {
		case b.Type == BlockHeading && b.Level == level:
			b.Type = BlockParagraph
			b.Level = 0
			changed = true
		case b.Type == BlockParagraph || b.Type == BlockHeading:
			b.Type = BlockHeading
			b.Level = level
			changed = true
		}
	}
	if changed {
		e.emit()
	}
}

// ToggleBulletList toggles the selected blocks between bullet list and
// paragraphs.
func (e *Editor) ToggleBulletList() { e.toggleList(BlockBulletList) }

// ToggleOrderedList toggles the selected blocks between ordered list and
// paragraphs.
func (e *Editor) ToggleOrderedList() { e.toggleList(BlockOrderedList) }

func (e *Editor) toggleList(t BlockType) {
	start, end := e.selectedBlockStart(), e.selectedBlockEnd()
	changed := false

	var out []Block
	out = append(out, e.blocks[:start]...)
	for i := start; i <= end; i++ {
		b := e.blocks[i]
		switch b.Type {
		case t:
			// Unwrap: one paragraph per item.
			for _, item := range b.Items {
				out = append(out, Block{Type: BlockParagraph, Items: [][]Span{item}})
			}
			changed = true
		case BlockBulletList, BlockOrderedList:
			b.Type = t
			out = append(out, b)
			changed = true
		case BlockParagraph, BlockHeading:
			out = append(out, Block{Type: t, Items: b.Items})
			changed = true
		default:
			out = append(out, b)
		}
	}
	out = append(out, e.blocks[end+1:]...)

	if changed {
		e.blocks = normalize(out)
		e.cursor = e.clamp(e.cursor)
		e.anchor = e.cursor
		e.emit()
	}
}

// InsertText inserts text at the cursor with the pending marks.
func (e *Editor) InsertText(text string) {
	if text == "" {
		return
	}
	e.anchor = e.cursor
	if !e.CanFormat() {
		// Cursor sits on an image; text goes into a fresh paragraph after it.
		e.splitAt(e.cursor.Block + 1)
		e.cursor = Position{Block: e.cursor.Block + 1}
		e.anchor = e.cursor
	}

	b := &e.blocks[e.cursor.Block]
	item := b.Items[e.cursor.Item]
	b.Items[e.cursor.Item] = insertIntoItem(item, e.cursor.Offset, Span{Text: text, Marks: e.pending})
	e.cursor.Offset += len([]rune(text))
	e.anchor = e.cursor
	e.emit()
}

// InsertImage inserts an image node at the cursor, splitting the current
// block when the cursor is mid-text.
func (e *Editor) InsertImage(src string) {
	if src == "" {
		return
	}
	e.insertVoidBlock(Block{Type: BlockImage, Src: src})
}

// InsertEmbed inserts a video embed at the cursor, with the same splitting
// behavior as images.
func (e *Editor) InsertEmbed(src string) {
	if src == "" {
		return
	}
	e.insertVoidBlock(Block{Type: BlockEmbed, Src: src})
}

func (e *Editor) insertVoidBlock(blk Block) {
	e.anchor = e.cursor

	cur := e.blocks[e.cursor.Block]

	at := e.cursor.Block + 1
	if cur.Type == BlockParagraph || cur.Type == BlockHeading {
		before, after := splitItem(cur.Items[0], e.cursor.Offset)
		if itemLen(before) > 0 && itemLen(after) > 0 {
			e.blocks[e.cursor.Block].Items = [][]Span{before}
			tail := Block{Type: cur.Type, Level: cur.Level, Items: [][]Span{after}}
			e.blocks = insertBlocks(e.blocks, at, blk, tail)
		} else if itemLen(before) == 0 && itemLen(after) > 0 {
			e.blocks = insertBlocks(e.blocks, e.cursor.Block, blk)
			at = e.cursor.Block
		} else {
			e.blocks = insertBlocks(e.blocks, at, blk)
		}
	} else {
		e.blocks = insertBlocks(e.blocks, at, blk)
	}

	e.blocks = normalize(e.blocks)
	// Cursor lands at the start of the text following the inserted block.
	e.cursor = e.clamp(Position{Block: at + 1})
	e.anchor = e.cursor
	e.emit()
}

func (e *Editor) selectedBlockStart() int {
	from, _ := e.selection()
	return from.Block
}

func (e *Editor) selectedBlockEnd() int {
	_, to := e.selection()
	return to.Block
}

func (e *Editor) endPosition() Position {
	last := len(e.blocks) - 1
	b := e.blocks[last]
	item := len(b.Items) - 1
	return Position{Block: last, Item: item, Offset: itemLen(b.Items[item])}
}

func (e *Editor) clamp(p Position) Position {
	if p.Block < 0 {
		return Position{}
	}
	if p.Block >= len(e.blocks) {
		return e.endPosition()
	}
	b := e.blocks[p.Block]
	if isVoid(b.Type) {
		return Position{Block: p.Block}
	}
	if p.Item < 0 {
		p.Item = 0
	}
	if p.Item >= len(b.Items) {
		p.Item = len(b.Items) - 1
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if n := itemLen(b.Items[p.Item]); p.Offset > n {
		p.Offset = n
	}
	return p
}

// marksAt returns the marks of the text immediately before the position,
// which is what a fresh insertion would inherit.
func (e *Editor) marksAt(p Position) Mark {
	s, ok := e.spanAt(p)
	if !ok {
		return 0
	}
	return s.Marks
}

// spanAt resolves the span whose text precedes the position.
func (e *Editor) spanAt(p Position) (Span, bool) {
	b := e.blocks[p.Block]
	if isVoid(b.Type) || len(b.Items) == 0 {
		return Span{}, false
	}
	item := b.Items[p.Item]
	off := 0
	for _, s := range item {
		n := len([]rune(s.Text))
		if p.Offset <= off+n && p.Offset > off {
			return s, true
		}
		off += n
	}
	if len(item) > 0 && p.Offset >= off {
		return item[len(item)-1], true
	}
	return Span{}, false
}

// rangeHasMark reports whether every rune of text in [from, to) carries the
// mark. Empty ranges and image blocks are skipped.
func (e *Editor) rangeHasMark(from, to Position, m Mark) bool {
	any := false
	all := true
	e.forEachItemInRange(from, to, func(block, item, start, end int) {
		spans := e.blocks[block].Items[item]
		off := 0
		for _, s := range spans {
			n := len([]rune(s.Text))
			lo, hi := max(start, off), min(end, off+n)
			if lo < hi {
				any = true
				if s.Marks&m == 0 {
					all = false
				}
			}
			off += n
		}
	})
	return any && all
}

func (e *Editor) applyMarkRange(from, to Position, m Mark, add bool) {
	e.forEachItemInRange(from, to, func(block, item, start, end int) {
		spans := e.blocks[block].Items[item]
		e.blocks[block].Items[item] = applyMarkToItem(spans, start, end, m, add)
	})
}

// forEachItemInRange walks every item partially covered by [from, to) and
// reports the covered rune range within it.
func (e *Editor) forEachItemInRange(from, to Position, fn func(block, item, start, end int)) {
	for bi := from.Block; bi <= to.Block && bi < len(e.blocks); bi++ {
		b := e.blocks[bi]
		if isVoid(b.Type) {
			continue
		}
		for ii := range b.Items {
			if bi == from.Block && ii < from.Item {
				continue
			}
			if bi == to.Block && ii > to.Item {
				break
			}
			start := 0
			if bi == from.Block && ii == from.Item {
				start = from.Offset
			}
			end := itemLen(b.Items[ii])
			if bi == to.Block && ii == to.Item {
				end = to.Offset
			}
			if start < end {
				fn(bi, ii, start, end)
			}
		}
	}
}

// splitAt ensures a paragraph exists at block index i.
func (e *Editor) splitAt(i int) {
	e.blocks = insertBlocks(e.blocks, i, Block{Type: BlockParagraph, Items: [][]Span{{}}})
}

// normalize guarantees a well-formed document: at least one block, every
// textual block has at least one item, adjacent equal-marked spans merged,
// and a trailing textual block so the cursor always has a home.
func normalize(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks)+1)
	for _, b := range blocks {
		switch b.Type {
		case BlockImage, BlockEmbed:
			out = append(out, b)
			continue
		case BlockBulletList, BlockOrderedList:
			if len(b.Items) == 0 {
				continue
			}
		default:
			if len(b.Items) == 0 {
				b.Items = [][]Span{{}}
			}
		}
		for i := range b.Items {
			b.Items[i] = mergeSpans(b.Items[i])
		}
		// Adjacent lists of the same type collapse into one.
		if n := len(out); n > 0 && isList(b.Type) && out[n-1].Type == b.Type {
			out[n-1].Items = append(out[n-1].Items, b.Items...)
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 || isVoid(out[len(out)-1].Type) {
		out = append(out, Block{Type: BlockParagraph, Items: [][]Span{{}}})
	}
	return out
}

func isList(t BlockType) bool {
	return t == BlockBulletList || t == BlockOrderedList
}

func mergeSpans(spans []Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks == s.Marks && out[n-1].Href == s.Href {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

func itemLen(spans []Span) int {
	n := 0
	for _, s := range spans {
		n += len([]rune(s.Text))
	}
	return n
}

// splitItem cuts an item at a rune offset.
func splitItem(spans []Span, offset int) (before, after []Span) {
	off := 0
	for _, s := range spans {
		runes := []rune(s.Text)
		n := len(runes)
		switch {
		case off+n <= offset:
			before = append(before, s)
		case off >= offset:
			after = append(after, s)
		default:
			cut := offset - off
			before = append(before, Span{Text: string(runes[:cut]), Marks: s.Marks, Href: s.Href})
			after = append(after, Span{Text: string(runes[cut:]), Marks: s.Marks, Href: s.Href})
		}
		off += n
	}
	return mergeSpans(before), mergeSpans(after)
}

func insertIntoItem(spans []Span, offset int, ins Span) []Span {
	before, after := splitItem(spans, offset)
	out := append(append(before, ins), after...)
	return mergeSpans(out)
}

func applyMarkToItem(spans []Span, start, end int, m Mark, add bool) []Span {
	out := make([]Span, 0, len(spans)+2)
	off := 0
	for _, s := range spans {
		runes := []rune(s.Text)
		n := len(runes)
		lo, hi := max(start-off, 0), min(end-off, n)
		if lo >= hi {
			out = append(out, s)
			off += n
			continue
		}
		if lo > 0 {
			out = append(out, Span{Text: string(runes[:lo]), Marks: s.Marks, Href: s.Href})
		}
		marked := s.Marks
		if add {
			marked |= m
		} else {
			marked &^= m
		}
		out = append(out, Span{Text: string(runes[lo:hi]), Marks: marked, Href: s.Href})
		if hi < n {
			out = append(out, Span{Text: string(runes[hi:]), Marks: s.Marks, Href: s.Href})
		}
		off += n
	}
	return mergeSpans(out)
}

// applyLinkToItem rewrites [start, end) to carry href, splitting spans at the
// boundaries. An empty href removes the link.
func applyLinkToItem(spans []Span, start, end int, href string) []Span {
	out := make([]Span, 0, len(spans)+2)
	off := 0
	for _, s := range spans {
		runes := []rune(s.Text)
		n := len(runes)
		lo, hi := max(start-off, 0), min(end-off, n)
		if lo >= hi {
			out = append(out, s)
			off += n
			continue
		}
		if lo > 0 {
			out = append(out, Span{Text: string(runes[:lo]), Marks: s.Marks, Href: s.Href})
		}
		out = append(out, Span{Text: string(runes[lo:hi]), Marks: s.Marks, Href: href})
		if hi < n {
			out = append(out, Span{Text: string(runes[hi:]), Marks: s.Marks, Href: s.Href})
		}
		off += n
	}
	return mergeSpans(out)
}

func insertBlocks(blocks []Block, at int, ins ...Block) []Block {
	if at > len(blocks) {
		at = len(blocks)
	}
	out := make([]Block, 0, len(blocks)+len(ins))
	out = append(out, blocks[:at]...)
	out = append(out, ins...)
	out = append(out, blocks[at:]...)
	return out
}
