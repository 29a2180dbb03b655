package vault

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/mnemos-ai/mnemos/model/resonance"
)

// MemoryShard is one stored unit of payload plus resonance metadata. Shards
// are owned exclusively by the vault – callers receive copies and mutate
// only through Store/Delete.
type MemoryShard struct {
	ID           string                 `json:"id"`
	Payload      map[string]interface{} `json:"payload"`
	Resonance    resonance.Tag          `json:"resonance"`
	CreatedAt    time.Time              `json:"createdAt"`
	LastModified time.Time              `json:"lastModified"`
	Signature    string                 `json:"signature"`
}

// Clone returns a copy with its own payload map.
func (s *MemoryShard) Clone() *MemoryShard {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Payload != nil {
		clone.Payload = make(map[string]interface{}, len(s.Payload))
		for k, v := range s.Payload {
			clone.Payload[k] = v
		}
	}
	return &clone
}

// Signature computes the integrity hash over payload and resonance.
// encoding/json renders map keys in sorted order, which makes the digest
// canonical for equal payloads.
func Signature(payload map[string]interface{}, tag resonance.Tag) string {
	payloadJSON, _ := json.Marshal(payload)
	tagJSON, _ := json.Marshal(tag)
	digest := sha3.Sum256(append(payloadJSON, tagJSON...))
	return hex.EncodeToString(digest[:])
}

// Criteria filters shards by their resonance tag. Zero-value fields match
// everything; the moral-charge bounds are pointers so that 0.0 remains a
// usable bound.
type Criteria struct {
	Tone         resonance.Tone
	Symbol       string
	MinIntensity float64
	MoralMin     *float64
	MoralMax     *float64
}

// Matches reports whether the shard's tag satisfies the criteria.
func (c Criteria) Matches(tag resonance.Tag) bool {
	if c.Tone != "" && tag.Tone != c.Tone {
		return false
	}
	if c.Symbol != "" && tag.Symbol != c.Symbol {
		return false
	}
	if tag.Intensity < c.MinIntensity {
		return false
	}
	if c.MoralMin != nil && tag.MoralCharge < *c.MoralMin {
		return false
	}
	if c.MoralMax != nil && tag.MoralCharge > *c.MoralMax {
		return false
	}
	return true
}
