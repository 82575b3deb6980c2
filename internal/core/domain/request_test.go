// file: internal/core/domain/request_test.go

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_Unmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want FlexString
	}{
		{"number", `{"method":"get_places_data","year":2024}`, "2024"},
		{"string", `{"method":"get_places_data","year":"2023"}`, "2023"},
		{"null", `{"method":"get_places_data","year":null}`, ""},
		{"absent", `{"method":"get_places_data"}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req ToolRequest
			require.NoError(t, json.Unmarshal([]byte(tc.in), &req))
			assert.Equal(t, tc.want, req.Year)
		})
	}

	var req ToolRequest
	assert.Error(t, json.Unmarshal([]byte(`{"year":true}`), &req))
}

func TestFlexString_Int(t *testing.T) {
	n, ok, err := FlexString(" 2022 ").Int()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2022, n)

	_, ok, err = FlexString("").Int()
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = FlexString("twenty").Int()
	assert.Error(t, err)
}

func TestToolRequest_PageValues(t *testing.T) {
	var req ToolRequest
	limit, offset := req.PageValues()
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, DefaultOffset, offset)

	l, o := 25, 50
	req.Limit, req.Offset = &l, &o
	limit, offset = req.PageValues()
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset)
}
