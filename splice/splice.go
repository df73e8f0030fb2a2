// Package splice applies an insertion plan to a source buffer. Edits
// are byte-local: every byte outside an inserted fragment survives at
// the same relative position.
package splice

import (
	"fmt"
	"sort"

	"github.com/termfx/cppfstr/core"
	"github.com/termfx/cppfstr/util"
)

// EntryKind validates an insertion point against its surroundings
// before any byte moves.
type EntryKind int

const (
	// KindRecord inserts immediately before a closing brace.
	KindRecord EntryKind = iota
	// KindEnum inserts immediately after a terminating semicolon.
	KindEnum
	// KindFree carries no positional invariant.
	KindFree
)

// Entry is one pending insertion.
type Entry struct {
	Offset int
	Seq    int
	Kind   EntryKind
	Text   string
}

// Plan is the ordered edit list for one file.
type Plan struct {
	Entries []Entry
}

// Add appends an insertion.
func (p *Plan) Add(offset, seq int, kind EntryKind, text string) {
	p.Entries = append(p.Entries, Entry{Offset: offset, Seq: seq, Kind: kind, Text: text})
}

// Empty reports whether the plan carries no work.
func (p *Plan) Empty() bool {
	return len(p.Entries) == 0
}

// Apply splices all fragments into src in a single reverse-ordered
// pass, so earlier offsets stay valid while later ones are rewritten.
// Entries sharing an offset are applied latest-sequence first, which
// leaves them in declaration order in the output. Invariant violations
// return an error before any modification.
func (p *Plan) Apply(src []byte) ([]byte, error) {
	if err := p.validate(src); err != nil {
		return nil, err
	}

	entries := make([]Entry, len(p.Entries))
	copy(entries, p.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Offset != entries[j].Offset {
			return entries[i].Offset > entries[j].Offset
		}
		return entries[i].Seq > entries[j].Seq
	})

	out := src
	for _, e := range entries {
		out = util.Splice(out, e.Offset, e.Offset, []byte(e.Text))
	}
	return out, nil
}

func (p *Plan) validate(src []byte) error {
	seen := make(map[int]EntryKind, len(p.Entries))
	for _, e := range p.Entries {
		if e.Offset < 0 || e.Offset > len(src) {
			return fmt.Errorf("%w: offset %d outside buffer of %d bytes",
				core.ErrInvariant, e.Offset, len(src))
		}
		switch e.Kind {
		case KindRecord:
			if e.Offset >= len(src) || src[e.Offset] != '}' {
				return fmt.Errorf("%w: record insertion at %d is not before a closing brace",
					core.ErrInvariant, e.Offset)
			}
			if prev, dup := seen[e.Offset]; dup && prev == KindRecord {
				return fmt.Errorf("%w: duplicate record insertion offset %d",
					core.ErrInvariant, e.Offset)
			}
		case KindEnum:
			if e.Offset == 0 || src[e.Offset-1] != ';' {
				return fmt.Errorf("%w: enum insertion at %d is not after a semicolon",
					core.ErrInvariant, e.Offset)
			}
		}
		seen[e.Offset] = e.Kind
	}
	return nil
}
