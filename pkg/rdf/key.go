package rdf

import "github.com/zeebo/xxh3"

// tripleKey is the 128-bit hash of a triple's N-Triples form. Keys are used
// only to bucket triples; equality is always confirmed with Triple.Equals.
type tripleKey = xxh3.Uint128

func keyOf(t *Triple) tripleKey {
	h := xxh3.New()
	writeNodeKey(h, t.Subject)
	writeNodeKey(h, t.Predicate)
	writeNodeKey(h, t.Object)
	return h.Sum128()
}

func writeNodeKey(h *xxh3.Hasher, n Node) {
	_, _ = h.WriteString(nodeString(n))
	_, _ = h.Write([]byte{0})
}

