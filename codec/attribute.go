package codec

import (
	"sync"
)

// Attribute is a shared descriptor handle for a named attribute. Instances
// are canonical: RegisterAttribute returns the same pointer for the same
// name, so handle equality works across the dictionaries' persistent and
// transient tables and across callers holding the handle.
type Attribute struct {
	name string
}

func (a *Attribute) Name() string {
	return a.name
}

var attributeTable = struct {
	sync.RWMutex
	byName map[string]*Attribute
}{byName: make(map[string]*Attribute)}

// RegisterAttribute returns the canonical attribute handle for name,
// creating it on first use. Unlike the type and class registries, the
// attribute table also grows at decode time, when a stream introduces a name
// this process has not seen; it is therefore guarded.
func RegisterAttribute(name string) *Attribute {
	attributeTable.RLock()
	attribute, ok := attributeTable.byName[name]
	attributeTable.RUnlock()
	if ok {
		return attribute
	}

	attributeTable.Lock()
	defer attributeTable.Unlock()
	if attribute, ok := attributeTable.byName[name]; ok {
		return attribute
	}
	attribute = &Attribute{name: name}
	attributeTable.byName[name] = attribute
	return attribute
}

// AttributeByName returns the canonical handle for name, if one exists.
func AttributeByName(name string) (*Attribute, bool) {
	attributeTable.RLock()
	defer attributeTable.RUnlock()
	attribute, ok := attributeTable.byName[name]
	return attribute, ok
}
