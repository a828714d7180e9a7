package writer

// MemWriter captures container bytes in memory, keyed by path. Writes counts
// every call so callers can assert how many physical writes happened.
type MemWriter struct {
	Files  map[string][]byte
	Writes int
	// Fail, when set, is returned for the matching path instead of storing.
	Fail map[string]error
}

// NewMemWriter returns an empty MemWriter.
func NewMemWriter() *MemWriter {
	return &MemWriter{Files: make(map[string][]byte), Fail: make(map[string]error)}
}

// WriteContainer stores a copy of buf under path.
func (w *MemWriter) WriteContainer(path string, buf []byte) error {
	w.Writes++
	if err := w.Fail[path]; err != nil {
		return err
	}
	w.Files[path] = append([]byte(nil), buf...)
	return nil
}
