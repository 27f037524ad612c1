package serial

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	j "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
)

// JSONDriver converts between JSON text and document values via a pluggable
// SPI. The default implementation is backed by goccy/go-json and may be
// swapped with SetJSONDriver.
type JSONDriver interface {
	Decode(data []byte) (Value, error)
	Encode(v Value) ([]byte, error)
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = gojsonDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default goccy/go-json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = gojsonDriver{}
	jsonDriverMu.Unlock()
}

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// ValueFromJSON parses JSON text into a document value, preserving object key
// order and number text.
func ValueFromJSON(data []byte) (Value, error) {
	return getJSONDriver().Decode(data)
}

// ValueFromJSONC parses JSON-with-comments (comments and trailing commas are
// stripped before parsing). Bridge config snippets commonly carry comments.
func ValueFromJSONC(data []byte) (Value, error) {
	return getJSONDriver().Decode(jsonc.ToJSON(data))
}

// ValueToJSON renders a document value as compact JSON, emitting object keys
// in insertion order.
func ValueToJSON(v Value) ([]byte, error) {
	return getJSONDriver().Encode(v)
}

// ValueToJSONIndent renders a document value as indented JSON.
func ValueToJSONIndent(v Value, prefix, indent string) ([]byte, error) {
	compact, err := ValueToJSON(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := j.Indent(&buf, compact, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// gojsonDriver streams tokens from goccy/go-json, keeping object key order
// and raw number text.
type gojsonDriver struct{}

func (gojsonDriver) Name() string { return "goccy/go-json" }

func (gojsonDriver) Decode(data []byte) (Value, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("trailing data after JSON document")
	}
	return v, nil
}

func readJSONValue(dec *j.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return jsonValueFromToken(dec, tok)
}

func jsonValueFromToken(dec *j.Decoder, tok j.Token) (Value, error) {
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return Object(m), nil
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := readJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return List(items...), nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return String(t), nil
	case j.Number:
		return Number(string(t)), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected JSON token %T", tok)
	}
}

func (gojsonDriver) Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.num)
	case KindString:
		escaped, err := j.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(escaped)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		first := true
		var werr error
		v.obj.Range(func(k string, item Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			escaped, err := j.Marshal(k)
			if err != nil {
				werr = err
				return false
			}
			buf.Write(escaped)
			buf.WriteByte(':')
			if err := writeJSONValue(buf, item); err != nil {
				werr = err
				return false
			}
			return true
		})
		if werr != nil {
			return werr
		}
		buf.WriteByte('}')
	}
	return nil
}
