// Package dedupe tracks which keys a dataset has already produced.
package dedupe

// Deduper records seen keys. The catalog uses it to spot repeated game ids;
// repeats are reported, never dropped, since each row keeps its own id.
type Deduper interface {
	// SeenAndRecord checks if key was seen and records it if not.
	// Returns true if key was already seen.
	SeenAndRecord(key string) bool

	// Duplicates returns repeated keys in order of their first repeat.
	Duplicates() []string

	Size() int
}

// inMemoryDeduper is a map-backed Deduper. It is not safe for concurrent
// use; a catalog build is single-threaded.
type inMemoryDeduper struct {
	seen  map[string]int
	dupes []string
}

// NewInMemoryDeduper creates an empty deduper sized for hint keys.
func NewInMemoryDeduper(hint int) Deduper {
	return &inMemoryDeduper{seen: make(map[string]int, max(hint, 0))}
}

func (d *inMemoryDeduper) SeenAndRecord(key string) bool {
	n := d.seen[key]
	d.seen[key] = n + 1
	if n == 1 {
		d.dupes = append(d.dupes, key)
	}
	return n > 0
}

func (d *inMemoryDeduper) Duplicates() []string {
	out := make([]string, len(d.dupes))
	copy(out, d.dupes)
	return out
}

func (d *inMemoryDeduper) Size() int {
	return len(d.seen)
}
