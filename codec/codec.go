// Package codec turns cached values into bytes and back. Every codec is
// stateless or immutable after construction and safe for concurrent use.
package codec

// Codec encodes/decodes values V to []byte for storage.
// Decode must fail (not guess) on payloads it did not produce.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
