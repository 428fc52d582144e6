package types

import (
	"bytes"
	"math"
	"strconv"
)

// FlexFloat decodes JSON numbers that arrive as numbers, quoted strings,
// null, or garbage. Imported backups come from spreadsheets and older
// exports, so anything unparseable coerces to zero instead of failing the
// whole document.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	v, ok := parseFlex(data)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float64() float64 {
	return float64(f)
}

// FlexInt is the integer counterpart of FlexFloat; fractional inputs
// truncate toward zero.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	v, ok := parseFlex(data)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		*i = 0
		return nil
	}
	*i = FlexInt(int(v))
	return nil
}

func (i FlexInt) Int() int {
	return int(i)
}

func parseFlex(data []byte) (float64, bool) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(string(raw))
		if err != nil {
			return 0, false
		}
		raw = bytes.TrimSpace([]byte(unquoted))
		if len(raw) == 0 {
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
