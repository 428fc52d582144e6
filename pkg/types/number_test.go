package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloatDecoding(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`12.5`, 12.5},
		{`"12.5"`, 12.5},
		{`" 7 "`, 7},
		{`null`, 0},
		{`""`, 0},
		{`"n/a"`, 0},
		{`-3`, 0},
		{`"-3"`, 0},
	}
	for _, tc := range cases {
		var f FlexFloat
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &f), tc.raw)
		assert.Equal(t, tc.want, f.Float64(), tc.raw)
	}
}

func TestFlexIntTruncates(t *testing.T) {
	var i FlexInt
	require.NoError(t, json.Unmarshal([]byte(`"4.9"`), &i))
	assert.Equal(t, 4, i.Int())

	require.NoError(t, json.Unmarshal([]byte(`null`), &i))
	assert.Equal(t, 0, i.Int())
}

func TestFlexFieldsInsideStruct(t *testing.T) {
	var row struct {
		Weight FlexFloat `json:"weight"`
		Qty    FlexInt   `json:"qty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"weight":"4.25","qty":null}`), &row))
	assert.Equal(t, 4.25, row.Weight.Float64())
	assert.Equal(t, 0, row.Qty.Int())
}
