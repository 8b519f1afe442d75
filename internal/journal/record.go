package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Record is a tamper-evident journal entry for one step invocation.
// Each record links to its predecessor through PrevHash, so rewriting
// history invalidates every later record.
type Record struct {
	Index         int    `json:"index"`
	Timestamp     string `json:"timestamp"`
	RunID         string `json:"runId"`
	Configuration string `json:"configuration"`
	Step          string `json:"step"`
	ExitCode      int    `json:"exitCode"`
	LogHash       string `json:"logHash"`
	PrevHash      string `json:"prevHash"`
	Hash          string `json:"hash"`
	Signature     string `json:"signature"`
	PubKey        string `json:"pubKey"`
}

// canonicalData returns the JSON bytes the record hash is computed
// over. Hash, Signature and PubKey are intentionally excluded.
func (r *Record) canonicalData() ([]byte, error) {
	view := struct {
		Index         int    `json:"index"`
		Timestamp     string `json:"timestamp"`
		RunID         string `json:"runId"`
		Configuration string `json:"configuration"`
		Step          string `json:"step"`
		ExitCode      int    `json:"exitCode"`
		LogHash       string `json:"logHash"`
		PrevHash      string `json:"prevHash"`
	}{
		Index:         r.Index,
		Timestamp:     r.Timestamp,
		RunID:         r.RunID,
		Configuration: r.Configuration,
		Step:          r.Step,
		ExitCode:      r.ExitCode,
		LogHash:       r.LogHash,
		PrevHash:      r.PrevHash,
	}
	return json.Marshal(view)
}

// ComputeHash calculates the SHA-256 over canonicalData.
func (r *Record) ComputeHash() (string, error) {
	data, err := r.canonicalData()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// newRecord constructs a record and computes its hash (no signature yet).
func newRecord(index int, runID, config, step string, exitCode int, logHash, prevHash string) (*Record, error) {
	rec := &Record{
		Index:         index,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		RunID:         runID,
		Configuration: config,
		Step:          step,
		ExitCode:      exitCode,
		LogHash:       logHash,
		PrevHash:      prevHash,
	}
	h, err := rec.ComputeHash()
	if err != nil {
		return nil, errors.Wrap(err, "compute record hash")
	}
	rec.Hash = h
	return rec, nil
}
