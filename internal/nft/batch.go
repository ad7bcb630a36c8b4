package nft

import "strings"

type entry struct {
	stmt    Stmt
	comment string
}

// Batch is one ordered, atomic ruleset generation. Statements render in
// insertion order; callers are responsible for order consistency (flush
// before add, table and chain creation before rules referencing them).
type Batch struct {
	entries []entry
}

func NewBatch() *Batch {
	return &Batch{}
}

// Add appends a statement to the batch.
func (b *Batch) Add(s Stmt) {
	b.entries = append(b.entries, entry{stmt: s})
}

// AddComment appends a statement with a trailing "# comment" suffix.
func (b *Batch) AddComment(s Stmt, comment string) {
	b.entries = append(b.entries, entry{stmt: s, comment: comment})
}

// Len reports the number of statements in the batch.
func (b *Batch) Len() int {
	return len(b.entries)
}

// Lines renders each statement to its line of rule-language text.
func (b *Batch) Lines() []string {
	lines := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		line := e.stmt.Render()
		if e.comment != "" {
			line += " # " + e.comment
		}
		lines = append(lines, line)
	}
	return lines
}

// Render joins the rendered lines into a complete nft script. Rendering
// is deterministic and cannot fail; malformed input is rejected earlier,
// when statements are constructed.
func (b *Batch) Render() string {
	return strings.Join(b.Lines(), "\n")
}

// Clone returns an independent copy of the batch.
func (b *Batch) Clone() *Batch {
	c := &Batch{entries: make([]entry, len(b.entries))}
	copy(c.entries, b.entries)
	return c
}
