package badger

// Key prefixes for different data types
const (
	collectionPrefix = "colrec"
	documentPrefix   = "docrec"
)

// keySep separates collection names from document IDs. GetOrCreateCollection
// rejects names containing it, which keeps document prefixes unambiguous.
const keySep = "\x00"

// makeCollectionKey generates a key for collection metadata by name.
func makeCollectionKey(name string) []byte {
	return []byte(collectionPrefix + ":" + name)
}

// makeDocumentPrefix generates the prefix shared by every document in a collection.
// Format: prefix:collection\x00
func makeDocumentPrefix(collection string) []byte {
	return []byte(documentPrefix + ":" + collection + keySep)
}

// makeDocumentKey generates a key for a document within a collection.
// Format: prefix:collection\x00id
func makeDocumentKey(collection, id string) []byte {
	prefix := makeDocumentPrefix(collection)
	buf := make([]byte, len(prefix)+len(id))
	offset := copy(buf, prefix)
	copy(buf[offset:], id)
	return buf
}
