package bridge

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/Neumenon/limpet/limpet"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest encodings, no
// indefinite-length items. The same logical value always produces
// identical bytes.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("bridge: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// CBOR allows non-string map keys, so the decoder's default
		// any-target map type is map[interface{}]interface{}. JSON maps
		// are always string-keyed; decode straight into map[string]any
		// so Push can consume the result.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("bridge: CBOR decoder initialization failed: " + err.Error())
	}
}

// MarshalCBOR pops the value on top of c's stack and encodes it as
// deterministic CBOR.
func MarshalCBOR(c *limpet.Context) ([]byte, error) {
	v, err := Materialize(c)
	if err != nil {
		return nil, err
	}
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding cbor: %w", err)
	}
	return data, nil
}

// UnmarshalCBOR decodes CBOR data and pushes the resulting value onto
// c's stack. Byte strings become engine strings; integers become
// float64 numbers.
func UnmarshalCBOR(c *limpet.Context, data []byte) error {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding cbor: %w", err)
	}
	return Push(c, v)
}
