package journal

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"forgeci/internal/security"
)

// Journal is an append-only, hash-chained record of step outcomes.
// File format: JSON lines, one record per line. Every record is signed
// with the journal's private key on append.
type Journal struct {
	mu      sync.Mutex
	records []*Record
	path    string
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
}

// Open loads an existing journal file or starts an empty one. The key
// pair is used to sign appended records; pass nil keys for a read-only
// journal (inspect/verify).
func Open(path string, pub ed25519.PublicKey, priv ed25519.PrivateKey) (*Journal, error) {
	j := &Journal{
		records: make([]*Record, 0),
		path:    path,
		priv:    priv,
		pub:     pub,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return j, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read journal")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, errors.Wrap(err, "decode journal entry")
		}
		j.records = append(j.records, &rec)
	}
	return j, nil
}

// AppendStep appends a signed record for one step invocation,
// persisting it before keeping it in memory. Implements the runner's
// JournalAppender.
func (j *Journal) AppendStep(runID, config, step string, exitCode int, logHash string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.priv) == 0 {
		return errors.New("journal opened without a signing key")
	}

	prev := ""
	if len(j.records) > 0 {
		prev = j.records[len(j.records)-1].Hash
	}
	rec, err := newRecord(len(j.records), runID, config, step, exitCode, logHash, prev)
	if err != nil {
		return err
	}
	rec.Signature = security.SignData(j.priv, []byte(rec.Hash))
	rec.PubKey = hex.EncodeToString(j.pub)

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "open journal file")
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return errors.Wrap(err, "write journal file")
	}

	j.records = append(j.records, rec)
	return nil
}

// Records returns the in-memory view of the journal.
func (j *Journal) Records() []*Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.records
}

// LastHash returns the hash of the newest record, or "" when empty.
func (j *Journal) LastHash() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.records) == 0 {
		return ""
	}
	return j.records[len(j.records)-1].Hash
}
