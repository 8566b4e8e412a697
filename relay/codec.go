package relay

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hadi77ir/go-relay/internal/cursor"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Codec converts between a cursor key and its opaque string form.
//
// Encode must be total and injective. Decode must reject any string Encode could not
// have produced with an error wrapping ErrInvalidCursor, and Decode(Encode(k)) == k.
type Codec[K comparable] interface {
	Encode(key K) string
	Decode(s string) (K, error)
}

// ObjectIDCodec encodes document ids as their 24-character hex form
type ObjectIDCodec struct{}

func (ObjectIDCodec) Encode(key primitive.ObjectID) string {
	return key.Hex()
}

func (ObjectIDCodec) Decode(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if id.Hex() != s {
		return primitive.NilObjectID, fmt.Errorf("%w: object id cursor must be lowercase hex", ErrInvalidCursor)
	}
	return id, nil
}

// UUIDCodec encodes UUID keys in their canonical hyphenated form
type UUIDCodec struct{}

func (UUIDCodec) Encode(key uuid.UUID) string {
	return key.String()
}

func (UUIDCodec) Decode(s string) (uuid.UUID, error) {
	// uuid.Parse also accepts urn and braced forms; only the canonical form round-trips.
	if len(s) != 36 {
		return uuid.Nil, fmt.Errorf("%w: uuid cursor must be 36 characters, got %d", ErrInvalidCursor, len(s))
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if id.String() != s {
		return uuid.Nil, fmt.Errorf("%w: uuid cursor is not in canonical form", ErrInvalidCursor)
	}
	return id, nil
}

// StringCodec uses the key itself as the cursor
type StringCodec struct{}

func (StringCodec) Encode(key string) string {
	return key
}

func (StringCodec) Decode(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty cursor", ErrInvalidCursor)
	}
	return s, nil
}

// CBORCodec encodes arbitrary keys (integers, timestamps, composite structs) as a
// versioned CBOR envelope in URL-safe base64.
//
// K must be CBOR encodable; Encode panics otherwise, as that is a programming error
// in the relation definition rather than bad input. time.Time keys should be in UTC
// and free of monotonic readings, or equality after decoding will not hold.
type CBORCodec[K comparable] struct{}

func (CBORCodec[K]) Encode(key K) string {
	s, err := cursor.Encode(key)
	if err != nil {
		panic(fmt.Sprintf("relay: cursor key of type %T is not encodable: %v", key, err))
	}
	return s
}

func (CBORCodec[K]) Decode(s string) (K, error) {
	var key K
	if err := cursor.Decode(s, &key); err != nil {
		var zero K
		return zero, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return key, nil
}
