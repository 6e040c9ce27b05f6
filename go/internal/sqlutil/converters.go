package sqlutil

import (
	"encoding/json"

	"github.com/sqlc-dev/pqtype"
)

// ToNullRawMessage converts raw JSON to a nullable JSONB value, empty meaning NULL
func ToNullRawMessage(val json.RawMessage) pqtype.NullRawMessage {
	return pqtype.NullRawMessage{RawMessage: val, Valid: len(val) > 0}
}
