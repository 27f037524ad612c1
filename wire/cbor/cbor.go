// Package cbor converts between CBOR and document values, for bridges that
// persist document trees in a binary store. Encoding uses Core Deterministic
// Encoding (RFC 8949 §4.2), so the same logical document always produces
// identical bytes; CBOR map key order is canonical, not insertion order.
package cbor

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	serial "github.com/bridgekit/serial"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cbor: encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		// Document maps are always string-keyed; any-typed targets must
		// decode to map[string]any instead of the map[interface{}]interface{}
		// default.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("cbor: decoder initialization failed: " + err.Error())
	}
}

// Decode parses CBOR bytes into a document value. Map keys come out in
// sorted order.
func Decode(data []byte) (serial.Value, error) {
	var raw any
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return serial.Value{}, err
	}
	return fromAny(raw)
}

// Encode renders a document value as deterministic CBOR bytes.
func Encode(v serial.Value) ([]byte, error) {
	raw, err := toAny(v)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(raw)
}

func fromAny(raw any) (serial.Value, error) {
	switch t := raw.(type) {
	case nil:
		return serial.Null(), nil
	case bool:
		return serial.Bool(t), nil
	case int64:
		return serial.Int(t), nil
	case uint64:
		return serial.Number(strconv.FormatUint(t, 10)), nil
	case float32:
		return serial.Float(float64(t)), nil
	case float64:
		return serial.Float(t), nil
	case big.Int:
		return serial.Number(t.String()), nil
	case string:
		return serial.String(t), nil
	case []byte:
		// CBOR byte strings have no JSON-shaped counterpart; carry them as
		// base64 text, matching the JSON convention for binary payloads.
		return serial.String(base64.StdEncoding.EncodeToString(t)), nil
	case []any:
		items := make([]serial.Value, len(t))
		for i, item := range t {
			v, err := fromAny(item)
			if err != nil {
				return serial.Value{}, err
			}
			items[i] = v
		}
		return serial.List(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := serial.NewMap()
		for _, k := range keys {
			v, err := fromAny(t[k])
			if err != nil {
				return serial.Value{}, err
			}
			m.Set(k, v)
		}
		return serial.Object(m), nil
	default:
		return serial.Value{}, fmt.Errorf("unsupported CBOR value of type %T", raw)
	}
}

func toAny(v serial.Value) (any, error) {
	switch v.Kind() {
	case serial.KindNull:
		return nil, nil
	case serial.KindBool:
		b, _ := v.Bool()
		return b, nil
	case serial.KindNumber:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		if f, ok := v.Float64(); ok {
			return f, nil
		}
		text, _ := v.NumberText()
		return nil, fmt.Errorf("number %q is not representable in CBOR", text)
	case serial.KindString:
		s, _ := v.Str()
		return s, nil
	case serial.KindList:
		items, _ := v.Items()
		out := make([]any, len(items))
		for i, item := range items {
			raw, err := toAny(item)
			if err != nil {
				return nil, err
			}
			out[i] = raw
		}
		return out, nil
	case serial.KindMap:
		m, _ := v.Obj()
		out := make(map[string]any, m.Len())
		var merr error
		m.Range(func(k string, item serial.Value) bool {
			raw, err := toAny(item)
			if err != nil {
				merr = err
				return false
			}
			out[k] = raw
			return true
		})
		if merr != nil {
			return nil, merr
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %s", v.Kind())
	}
}
