package codec

// Bytes stores []byte values verbatim, for callers that already hold a
// serialized representation (e.g. a provider's raw response body).
type Bytes struct{}

var _ Codec[[]byte] = Bytes{}

// Encode copies b so later mutation by the caller cannot change what is stored.
func (Bytes) Encode(b []byte) ([]byte, error) { return append([]byte(nil), b...), nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String stores Go strings as their bytes. No UTF-8 validation is performed.
type String struct{}

var _ Codec[string] = String{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
