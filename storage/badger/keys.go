package badger

import (
	"fmt"
	"strings"

	"github.com/poiesic/docmem/core"
)

// Key prefixes for different data types
const (
	recordPrefix = "memrec"
)

// makeRecordKey generates a key for a record by collection and fingerprint.
func makeRecordKey(collection string, fingerprint core.Fingerprint) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", recordPrefix, collection, fingerprint))
}

// makeCollectionPrefix generates the key prefix shared by all records in a
// collection.
func makeCollectionPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", recordPrefix, collection))
}

// collectionFromKey extracts the collection name from a record key.
// The fingerprint is hex, so the last colon always terminates the
// collection name even when the name itself contains colons.
func collectionFromKey(key []byte) (string, bool) {
	s := string(key)
	rest, ok := strings.CutPrefix(s, recordPrefix+":")
	if !ok {
		return "", false
	}
	idx := strings.LastIndexByte(rest, ':')
	if idx <= 0 {
		return "", false
	}
	return rest[:idx], true
}
