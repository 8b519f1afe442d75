package journal

import (
	"github.com/pkg/errors"

	"forgeci/internal/security"
)

// Verify recomputes every record hash, chain link and signature to
// detect tampering. It returns nil for an intact journal.
func (j *Journal) Verify() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, rec := range j.records {
		h, err := rec.ComputeHash()
		if err != nil {
			return errors.Wrapf(err, "compute hash for index %d", rec.Index)
		}
		if h != rec.Hash {
			return errors.Errorf("hash mismatch at index %d", rec.Index)
		}

		if i > 0 && rec.PrevHash != j.records[i-1].Hash {
			return errors.Errorf("prev hash mismatch at index %d", rec.Index)
		}
		if rec.Index != i {
			return errors.Errorf("index mismatch: expected %d, got %d", i, rec.Index)
		}

		ok, err := security.VerifySignatureFromHex(rec.PubKey, []byte(rec.Hash), rec.Signature)
		if err != nil {
			return errors.Wrapf(err, "verify signature at index %d", rec.Index)
		}
		if !ok {
			return errors.Errorf("invalid signature at index %d", rec.Index)
		}
	}
	return nil
}
