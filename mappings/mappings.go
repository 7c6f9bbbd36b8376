// Package mappings is the consumer side of the codec's write-mappings
// protocol: it persists the snapshots harvested from write sessions and
// accumulates promoted persistent ids across sessions, so that values a
// peer has already seen in full are never re-sent.
package mappings

import (
	"sort"

	"github.com/edombrower/hifi/codec"
)

// ClassNameOffset is one newly-introduced class-name association.
type ClassNameOffset struct {
	Name   string
	Offset uint32
}

// AttributeOffset is one newly-introduced attribute association.
type AttributeOffset struct {
	Name   string
	Offset uint32
}

// Snapshot is the serializable form of the transient mappings one write
// session introduced. Entries are kept in offset order, which is the
// first-seen order of the session.
type Snapshot struct {
	Label      string
	ClassNames []ClassNameOffset
	Attributes []AttributeOffset
}

// NewSnapshot builds a snapshot from harvested write mappings.
func NewSnapshot(label string, wm codec.WriteMappings) *Snapshot {
	snapshot := &Snapshot{Label: label}

	for name, offset := range wm.ClassNameOffsets {
		snapshot.ClassNames = append(snapshot.ClassNames, ClassNameOffset{
			Name:   name,
			Offset: uint32(offset),
		})
	}
	sort.Slice(snapshot.ClassNames, func(i, j int) bool {
		return snapshot.ClassNames[i].Offset < snapshot.ClassNames[j].Offset
	})

	for attribute, offset := range wm.AttributeOffsets {
		snapshot.Attributes = append(snapshot.Attributes, AttributeOffset{
			Name:   attribute.Name(),
			Offset: uint32(offset),
		})
	}
	sort.Slice(snapshot.Attributes, func(i, j int) bool {
		return snapshot.Attributes[i].Offset < snapshot.Attributes[j].Offset
	})

	return snapshot
}
