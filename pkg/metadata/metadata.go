// Package metadata records experiment metadata and caches expensive
// sampling results between runs. The Metadata interface mirrors what the
// experiment driver needs; the SQLite backend is the default and only
// in-tree implementation.
package metadata

// Predefined kinds of metadata. A kind groups records that share an
// origin: flags passed to the binary, environment facts, or phase timings.
// Experiments may define their own kinds; these are just strings.
const (
	TypeEmpty   = ""
	TypeFlags   = "flags"
	TypeEnviron = "environ"
	TypePhases  = "phases"
)

// Metadata stores key/value records associated with one experiment
// session.
type Metadata interface {
	// Record stores a single key and value under the given kind.
	Record(key string, value string, kind string) error
	// RecordMap stores every entry of the map under the given kind.
	RecordMap(metadata map[string]string, kind string) error
	// GetByKind retrieves all records of one kind.
	GetByKind(kind string) (map[string]string, error)
	// Clear deletes all records associated with the session.
	Clear() error
}
