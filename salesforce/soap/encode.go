package soap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// Param is one positional (key, value) entry of a call.
type Param struct {
	Name  string
	Value any
}

// EncodeCall renders the body element of a partner API call.
// Params are written in order, so repeated keys become sibling elements.
func EncodeCall(method string, params []Param) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	start := xml.StartElement{Name: xml.Name{Local: "urn:" + method}}
	if err := enc.EncodeToken(start); err != nil {
		return nil, err
	}
	for _, p := range params {
		if err := encodeValue(enc, "urn:"+p.Name, p.Value); err != nil {
			return nil, fmt.Errorf("unable to encode %s parameter %q: %w", method, p.Name, err)
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(enc *xml.Encoder, name string, v any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}

	switch t := v.(type) {
	case nil:
		start.Attr = []xml.Attr{{Name: xml.Name{Local: "xsi:nil"}, Value: "true"}}
		return encodeText(enc, start, "")
	case string:
		return encodeText(enc, start, t)
	case []byte:
		return encodeText(enc, start, string(t))
	case bool:
		return encodeText(enc, start, strconv.FormatBool(t))
	case time.Time:
		return encodeText(enc, start, t.Format(time.RFC3339))
	case *time.Time:
		if t == nil {
			return encodeValue(enc, name, nil)
		}
		return encodeText(enc, start, t.Format(time.RFC3339))
	case fmt.Stringer:
		return encodeText(enc, start, t.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return encodeValue(enc, name, nil)
		}
		return encodeValue(enc, name, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := encodeValue(enc, name, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		return encodeRecord(enc, start, rv)
	case reflect.Float32, reflect.Float64:
		return encodeText(enc, start, strconv.FormatFloat(rv.Float(), 'f', -1, 64))
	default:
		return encodeText(enc, start, fmt.Sprint(v))
	}
}

// sObjectFields are the fields the partner schema declares on sObject
// itself, in schema order. They are namespace qualified and precede the
// object's own fields.
var sObjectFields = []string{"type", "fieldsToNull", "Id"}

// encodeRecord writes an sObject: the sObject fields go first, the
// remaining fields follow in name order.
func encodeRecord(enc *xml.Encoder, start xml.StartElement, rv reflect.Value) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	fields := make(map[string]reflect.Value, rv.Len())
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		fields[k.String()] = rv.MapIndex(k)
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	for _, k := range sObjectFields {
		if v, ok := fields[k]; ok {
			if err := encodeValue(enc, "urn1:"+k, v.Interface()); err != nil {
				return err
			}
			delete(fields, k)
		}
	}
	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if err := encodeValue(enc, k, v.Interface()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeText(enc *xml.Encoder, start xml.StartElement, s string) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if s != "" {
		if err := enc.EncodeToken(xml.CharData(s)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
