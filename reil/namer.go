package reil

import "strconv"

// Namer issues successive SSA-style versions of a single symbolic name:
// name_0, name_1, name_2, .... It is not safe for concurrent use; the
// translator that owns a set of Namers is itself single-threaded.
type Namer struct {
	base    string
	version int
}

// NewNamer returns a Namer for base. No version has been issued yet:
// Current() returns the version-0 form until Next() is called.
func NewNamer(base string) *Namer {
	return &Namer{base: base}
}

// Init returns the fixed version-0 name. It never changes, regardless of
// how many times Next has been called.
func (n *Namer) Init() string {
	return n.versionName(0)
}

// Current returns the most recently issued version, or the version-0 form
// if Next has never been called.
func (n *Namer) Current() string {
	return n.versionName(n.version)
}

// Next increments the version counter and returns the new current name.
// Successive calls return strictly increasing versions.
func (n *Namer) Next() string {
	n.version++
	return n.versionName(n.version)
}

// Version returns the integer version Current() denotes.
func (n *Namer) Version() int {
	return n.version
}

func (n *Namer) versionName(v int) string {
	return n.base + "_" + strconv.Itoa(v)
}
