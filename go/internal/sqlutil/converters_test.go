package sqlutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToNullRawMessage(t *testing.T) {
	assert.False(t, ToNullRawMessage(nil).Valid)
	assert.False(t, ToNullRawMessage(json.RawMessage{}).Valid)

	got := ToNullRawMessage(json.RawMessage(`{"a":1}`))
	assert.True(t, got.Valid)
	assert.JSONEq(t, `{"a":1}`, string(got.RawMessage))
}
