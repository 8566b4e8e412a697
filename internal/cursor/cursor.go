package cursor

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Version is the current envelope layout
const Version = 1

// ErrEmpty is returned when decoding an empty cursor string
var ErrEmpty = errors.New("empty cursor")

// Envelope is the payload carried inside an opaque cursor
type Envelope struct {
	// Version guards against decoding cursors issued by an incompatible layout
	Version uint8 `cbor:"1,keyasint"`

	// Key is the CBOR encoding of the item's cursor key
	Key cbor.RawMessage `cbor:"2,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	// Canonical encoding keeps the cursor for a given key byte-identical across calls.
	encOpts := cbor.CanonicalEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano
	em, err := encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("cursor: invalid encoding options: %v", err))
	}
	encMode = em

	dm, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cursor: invalid decoding options: %v", err))
	}
	decMode = dm
}

// Encode wraps key in an envelope and returns it as a URL-safe base64 string
func Encode(key interface{}) (string, error) {
	raw, err := encMode.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor key: %w", err)
	}

	data, err := encMode.Marshal(&Envelope{Version: Version, Key: raw})
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor envelope: %w", err)
	}

	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode unwraps an envelope produced by Encode and stores the key in dst.
// dst must be a non-nil pointer.
func Decode(cursor string, dst interface{}) error {
	if cursor == "" {
		return ErrEmpty
	}

	data, err := base64.URLEncoding.Strict().DecodeString(cursor)
	if err != nil {
		return fmt.Errorf("failed to decode cursor: %w", err)
	}
	// The decoder skips line breaks, so only the exact encoding is accepted.
	if base64.URLEncoding.EncodeToString(data) != cursor {
		return errors.New("cursor is not canonically encoded")
	}

	var env Envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to unmarshal cursor envelope: %w", err)
	}
	if env.Version != Version {
		return fmt.Errorf("unsupported cursor version %d", env.Version)
	}
	if len(env.Key) == 0 {
		return errors.New("cursor carries no key")
	}

	if err := decMode.Unmarshal(env.Key, dst); err != nil {
		return fmt.Errorf("failed to unmarshal cursor key: %w", err)
	}

	return nil
}
