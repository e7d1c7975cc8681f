package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/steeze-worker/pkg/codec"
)

type payload struct {
	To string `json:"to"`
}

func TestJSONStrictMarshal(t *testing.T) {
	b, err := codec.JSONStrict.Marshal(payload{To: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, `{"to":"a@b.c"}`, string(b))
}

func TestJSONStrictRejectsUnknownFields(t *testing.T) {
	var p payload
	err := codec.JSONStrict.Unmarshal([]byte(`{"to":"a@b.c","cc":"x"}`), &p)
	require.Error(t, err)
}

func TestJSONStrictRejectsTrailingContent(t *testing.T) {
	var p payload
	err := codec.JSONStrict.Unmarshal([]byte(`{"to":"a"}{"to":"b"}`), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing")
}

func TestJSONStrictRoundTrip(t *testing.T) {
	b, err := codec.JSONStrict.Marshal(payload{To: "ops@example.com"})
	require.NoError(t, err)

	var p payload
	require.NoError(t, codec.JSONStrict.Unmarshal(b, &p))
	assert.Equal(t, "ops@example.com", p.To)
}
