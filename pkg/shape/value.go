package shape

import (
	"encoding/json"
	"math/big"
	"time"
)

// valueKind is the top-level kind of a decoded value.
type valueKind int

const (
	valueOther valueKind = iota
	valueNull
	valueBool
	valueNumber
	valueString
	valueTime
	valueList
	valueRecord
)

// classify reports the kind of a decoded value. It accepts the trees produced
// by encoding/json, goccy/go-json, yaml.v3 (after key normalization) and gojq.
func classify(v any) valueKind {
	switch v.(type) {
	case nil:
		return valueNull
	case bool:
		return valueBool
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number, *big.Int, *big.Float:
		return valueNumber
	case string:
		return valueString
	case time.Time:
		return valueTime
	case []any:
		return valueList
	case map[string]any:
		return valueRecord
	default:
		return valueOther
	}
}
