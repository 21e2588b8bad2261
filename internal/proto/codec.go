package proto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPush is returned by DecodeStrict for frames that are not a push.
var ErrMalformedPush = errors.New("malformed push")

// Encode serializes an intent. Data is always written as an array.
func Encode(in Intent) []byte {
	if in.Data == nil {
		in.Data = []string{}
	}
	// Every field is a string, number or string slice, so marshaling cannot fail.
	b, _ := json.Marshal(in)
	return b
}

// Decode parses a server frame. Frames that do not parse yield an empty push.
func Decode(data []byte) Push {
	p, err := DecodeStrict(data)
	if err != nil {
		return Push{}
	}
	return p
}

// DecodeStrict parses a server frame and reports why it is not a valid push.
func DecodeStrict(data []byte) (Push, error) {
	var p Push
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Push{}, ErrMalformedPush
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return Push{}, fmt.Errorf("%w: %v", ErrMalformedPush, err)
	}
	if p.Empty() {
		return Push{}, ErrMalformedPush
	}
	return p, nil
}

// DecodeIntent parses a client frame. Used by the server side of the protocol.
func DecodeIntent(data []byte) (Intent, error) {
	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return Intent{}, fmt.Errorf("decode intent: %w", err)
	}
	if !in.Type.Valid() {
		return Intent{}, fmt.Errorf("decode intent: unknown type %q", in.Type)
	}
	return in, nil
}

// EncodePush serializes a push. Used by the server side of the protocol.
func EncodePush(p Push) ([]byte, error) {
	return json.Marshal(p)
}
