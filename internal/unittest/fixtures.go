// Package unittest provides fixtures and helpers shared by the store and
// modifier tests.
package unittest

import (
	crand "crypto/rand"
	"encoding/hex"
)

// MockRecord implements a bare minimum stored value for sake of test.
// The Nonce is what modify closures typically bump; the Payload keeps records
// distinguishable.
type MockRecord struct {
	Nonce   uint64
	Payload string
}

// RecordFixture returns a record with a zero nonce and a random payload.
func RecordFixture() MockRecord {
	return MockRecord{
		Payload: KeyFixture(),
	}
}

// KeyFixture returns a random hex-encoded key.
func KeyFixture() string {
	var raw [8]byte
	_, _ = crand.Read(raw[:])
	return hex.EncodeToString(raw[:])
}

// KeyListFixture returns n distinct random keys.
func KeyListFixture(n uint) []string {
	keys := make([]string, 0, n)
	seen := make(map[string]struct{}, n)

	for uint(len(keys)) < n {
		key := KeyFixture()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys
}

// RecordMapFixture returns n distinct keys, each bound to a fresh record.
func RecordMapFixture(n uint) map[string]MockRecord {
	records := make(map[string]MockRecord, n)
	for _, key := range KeyListFixture(n) {
		records[key] = RecordFixture()
	}
	return records
}
