package mappings

import (
	"github.com/edombrower/hifi/codec"
)

const storeFilename = "store"

// Store accumulates the class names and attributes promoted to persistent
// ids. The promotion order is the id order, so both sides of a connection
// must promote from identical snapshots in the same sequence.
type Store struct {
	ClassNames []string
	Attributes []string
}

// LoadStore reads the promotion store from disk. A missing file yields an
// empty store.
func LoadStore(datadir string) (*Store, error) {
	store := &Store{}
	err := readXDRFile(GetSnapshotFilename(datadir, storeFilename), store)
	if err == ErrSnapshotNotExist {
		return &Store{}, nil
	}
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Save writes the promotion store to disk.
func (st *Store) Save(datadir string) error {
	return writeXDRFile(datadir, GetSnapshotFilename(datadir, storeFilename), st)
}

// Promote appends the snapshot's entries, in offset order, to the
// persistent populations. Names already promoted are skipped, so promoting
// the same snapshot twice is harmless. It returns the number of entries
// added.
func (st *Store) Promote(snapshot *Snapshot) int {
	added := 0

	seenClasses := make(map[string]bool, len(st.ClassNames))
	for _, name := range st.ClassNames {
		seenClasses[name] = true
	}
	for _, entry := range snapshot.ClassNames {
		if seenClasses[entry.Name] {
			continue
		}
		st.ClassNames = append(st.ClassNames, entry.Name)
		seenClasses[entry.Name] = true
		added++
	}

	seenAttributes := make(map[string]bool, len(st.Attributes))
	for _, name := range st.Attributes {
		seenAttributes[name] = true
	}
	for _, entry := range snapshot.Attributes {
		if seenAttributes[entry.Name] {
			continue
		}
		st.Attributes = append(st.Attributes, entry.Name)
		seenAttributes[entry.Name] = true
		added++
	}

	return added
}

// Options returns the stream options that pre-assign the store's persistent
// ids. Apply them to every stream speaking with a peer holding the same
// store.
func (st *Store) Options() []codec.Option {
	attributes := make([]*codec.Attribute, len(st.Attributes))
	for i, name := range st.Attributes {
		attributes[i] = codec.RegisterAttribute(name)
	}

	return []codec.Option{
		codec.WithPersistentClassNames(st.ClassNames...),
		codec.WithPersistentAttributes(attributes...),
	}
}
