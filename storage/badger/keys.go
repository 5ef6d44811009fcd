package badger

// Key prefixes for different data types
const (
	vectorPrefix = "vec:"
)

// makeVectorKey generates the key for a cached vector.
// Format: prefix + content hash
func makeVectorKey(hash string) []byte {
	buf := make([]byte, len(vectorPrefix)+len(hash))
	offset := copy(buf, vectorPrefix)
	copy(buf[offset:], hash)
	return buf
}
