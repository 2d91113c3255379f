package params

// Source is a handle to the base parameter document. Passing it into
// each invocation keeps callers reentrant and testable without shared
// process-wide state.
type Source interface {
	Load() (Base, error)
}

// FileSource loads the base document from a JSON file on disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load() (Base, error) {
	return Load(s.Path)
}

// StaticSource serves a fixed in-memory document, for tests.
type StaticSource struct {
	Base Base
}

func (s StaticSource) Load() (Base, error) {
	return s.Base, nil
}
