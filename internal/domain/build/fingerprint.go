package build

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// SchemaVersion changes whenever the cached episode encoding changes, which
// invalidates every stored index.
const SchemaVersion = "episodes/v1"

// Fingerprint identifies the inputs an episode list was built from.
type Fingerprint struct {
	SourceHash string
	ConfigHash string
	Sum        string
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// HashStrings hashes parts independently of their order.
func HashStrings(parts []string) string {
	sorted := append([]string(nil), parts...)
	sort.Strings(sorted)

	h := sha256.New()
	for _, p := range sorted {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func NewFingerprint(sourceHash, configHash string) Fingerprint {
	f := Fingerprint{SourceHash: sourceHash, ConfigHash: configHash}
	f.ComputeSum()
	return f
}

func (f *Fingerprint) ComputeSum() {
	h := sha256.New()
	h.Write([]byte(SchemaVersion))
	h.Write([]byte(f.SourceHash))
	h.Write([]byte(f.ConfigHash))
	f.Sum = hex.EncodeToString(h.Sum(nil))
}
