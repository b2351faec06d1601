// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker

import (
	"encoding/json"
)

// DecodeItem converts a JSON encoded value into an intake item. Objects
// become payloads and strings stay strings; anything else, including invalid
// JSON, decodes to a value Push ignores.
func DecodeItem(raw []byte) any {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	if object, ok := value.(map[string]any); ok {
		return Payload(object)
	}
	return value
}
