package choice

import (
	"bytes"
	"encoding/json"
	"iter"
)

// Distribution is an ordered mapping from alternative name to probability.
// It is immutable once returned.
type Distribution struct {
	keys  []string
	probs []float64
}

func newDistribution(keys []string, probs []float64) *Distribution {
	return &Distribution{keys: keys, probs: probs}
}

// Len returns the number of alternatives.
func (d *Distribution) Len() int {
	return len(d.keys)
}

// Keys returns the alternative names in order.
func (d *Distribution) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Probability returns the probability of the named alternative.
func (d *Distribution) Probability(key string) (float64, bool) {
	for i, k := range d.keys {
		if k == key {
			return d.probs[i], true
		}
	}
	return 0, false
}

// All iterates over (name, probability) pairs in order.
func (d *Distribution) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		for i, k := range d.keys {
			if !yield(k, d.probs[i]) {
				return
			}
		}
	}
}

// Sum returns the total probability mass.
func (d *Distribution) Sum() float64 {
	var s float64
	for _, p := range d.probs {
		s += p
	}
	return s
}

// Sample returns the first key whose cumulative probability exceeds u.
// If rounding leaves u uncovered the last key is returned.
func (d *Distribution) Sample(u float64) string {
	if len(d.keys) == 0 {
		return ""
	}
	var cum float64
	for i, p := range d.probs {
		cum += p
		if cum > u {
			return d.keys[i]
		}
	}
	return d.keys[len(d.keys)-1]
}

// MarshalJSON encodes the distribution as a JSON object in key order.
func (d *Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(d.probs[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
