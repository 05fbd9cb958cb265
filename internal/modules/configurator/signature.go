package configurator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// Signature fingerprints the three evaluation inputs. encoding/json sorts
// map keys, so the serialization is canonical and the digest deterministic.
// Total over well-formed inputs: it never fails.
func Signature(treeVersionID uuid.UUID, sel Selections, env Environment) string {
	payload := struct {
		TreeVersionID string      `json:"treeVersionId"`
		Selections    Selections  `json:"selections"`
		Environment   Environment `json:"environment"`
	}{
		TreeVersionID: treeVersionID.String(),
		Selections:    sel,
		Environment:   env,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		// Selections decoded from jsonb always re-marshal; a non-marshalable
		// in-process value still gets a stable (degenerate) digest.
		b = []byte(treeVersionID.String())
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
