// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storage

import (
	"encoding"
	"encoding/json"
)

// Marshal encodes a state value. Values implementing
// encoding.BinaryMarshaler encode themselves, everything else is JSON.
func Marshal(i interface{}) ([]byte, error) {
	if m, ok := i.(encoding.BinaryMarshaler); ok {
		return m.MarshalBinary()
	}
	return json.Marshal(i)
}

// Unmarshal decodes data produced by Marshal into i.
func Unmarshal(data []byte, i interface{}) error {
	if u, ok := i.(encoding.BinaryUnmarshaler); ok {
		return u.UnmarshalBinary(data)
	}
	return json.Unmarshal(data, i)
}
