package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/vango-dev/flight/pkg/vdom"
)

// Decode parses a complete wire payload back into a tree. Data after the
// top-level value is an error.
func Decode(data []byte) (*vdom.Node, error) {
	return DecodeWithLimits(data, DefaultDepthLimits())
}

// DecodeString parses a complete wire payload held in a string.
func DecodeString(s string) (*vdom.Node, error) {
	return DecodeWithLimits([]byte(s), DefaultDepthLimits())
}

// DecodeWithLimits is like Decode with custom depth limits.
func DecodeWithLimits(data []byte, limits DepthLimits) (*vdom.Node, error) {
	d := NewDecoder(bytes.NewReader(data))
	d.limits = limits.withDefaults()

	node, err := d.Decode()
	if err != nil {
		return nil, err
	}
	if _, err := d.dec.Token(); err != io.EOF {
		return nil, &DecodeError{Offset: d.dec.InputOffset(), Err: ErrTrailingData}
	}
	return node, nil
}

// Decoder reads wire payloads from an input stream.
type Decoder struct {
	dec    *json.Decoder
	limits DepthLimits
}

// NewDecoder returns a decoder that reads from r with default limits.
func NewDecoder(r io.Reader) *Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Decoder{dec: dec, limits: DefaultDepthLimits()}
}

// SetLimits replaces the decoder's depth limits.
func (d *Decoder) SetLimits(limits DepthLimits) {
	d.limits = limits.withDefaults()
}

// Decode reads the next wire value from the stream and converts it to a
// tree.
func (d *Decoder) Decode() (*vdom.Node, error) {
	raw, err := d.parse(0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		var de *DecodeError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, &DecodeError{Offset: d.dec.InputOffset(), Err: err}
	}
	c := converter{limits: d.limits}
	return c.node(raw, 0)
}

// object is a parsed JSON object with its field order kept.
type object struct {
	keys   []string
	vals   []any
	offset int64
}

func (o *object) get(key string) (any, bool) {
	for i, k := range o.keys {
		if k == key {
			return o.vals[i], true
		}
	}
	return nil, false
}

// parse reads one JSON value. Objects come back as *object, arrays as
// []any, numbers as json.Number.
func (d *Decoder) parse(depth int) (any, error) {
	offset := d.dec.InputOffset()
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	if depth >= d.limits.JSONDepth {
		return nil, &DecodeError{Offset: offset, Err: ErrMaxDepthExceeded}
	}

	switch delim {
	case '[':
		items := []any{}
		for d.dec.More() {
			v, err := d.parse(depth + 1)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		if _, err := d.dec.Token(); err != nil {
			return nil, err
		}
		return items, nil

	case '{':
		obj := &object{offset: offset}
		for d.dec.More() {
			tok, err := d.dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T", tok)
			}
			v, err := d.parse(depth + 1)
			if err != nil {
				return nil, err
			}
			obj.keys = append(obj.keys, key)
			obj.vals = append(obj.vals, v)
		}
		if _, err := d.dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// converter turns parsed JSON into nodes and attribute values.
type converter struct {
	limits DepthLimits
}

func (c converter) fail(offset int64, err error) error {
	return &DecodeError{Offset: offset, Err: err}
}

// node converts a value in node position.
func (c converter) node(v any, depth int) (*vdom.Node, error) {
	switch t := v.(type) {
	case nil, bool:
		return vdom.Empty(), nil
	case string:
		if IsElementMarker(t) {
			return nil, c.fail(-1, ErrStrayMarker)
		}
		return vdom.Text(UnescapeString(t)), nil
	case json.Number:
		f, err := number(t)
		if err != nil {
			return nil, c.fail(-1, err)
		}
		return vdom.Number(f), nil
	case []any:
		if depth >= c.limits.NodeDepth {
			return nil, c.fail(-1, ErrMaxDepthExceeded)
		}
		items := make([]*vdom.Node, len(t))
		for i, item := range t {
			n, err := c.node(item, depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return vdom.List(items...), nil
	case *object:
		return c.element(t, depth)
	default:
		return nil, c.fail(-1, fmt.Errorf("unexpected JSON value %T", v))
	}
}

// element converts an element object.
func (c converter) element(obj *object, depth int) (*vdom.Node, error) {
	if depth >= c.limits.NodeDepth {
		return nil, c.fail(obj.offset, ErrMaxDepthExceeded)
	}
	marker, _ := obj.get(TypeofField)
	if s, ok := marker.(string); !ok || !IsElementMarker(s) {
		return nil, c.fail(obj.offset, ErrMissingMarker)
	}

	rawTag, _ := obj.get(fieldType)
	tag, ok := rawTag.(string)
	if !ok || tag == "" || IsElementMarker(tag) {
		return nil, c.fail(obj.offset, fmt.Errorf("%w: type must be a string", ErrInvalidElement))
	}
	tag = UnescapeString(tag)

	var key string
	switch k := mustGet(obj, fieldKey).(type) {
	case nil:
	case string:
		if IsElementMarker(k) {
			return nil, c.fail(obj.offset, ErrStrayMarker)
		}
		key = UnescapeString(k)
	default:
		return nil, c.fail(obj.offset, fmt.Errorf("%w: key must be a string or null", ErrInvalidElement))
	}

	props, ok := mustGet(obj, fieldProps).(*object)
	if !ok {
		return nil, c.fail(obj.offset, fmt.Errorf("%w: props must be an object", ErrInvalidElement))
	}

	var (
		attrs    vdom.Attrs
		children *vdom.Node
	)
	for i, name := range props.keys {
		if name == vdom.ChildrenKey {
			n, err := c.node(props.vals[i], depth+1)
			if err != nil {
				return nil, err
			}
			children = n
			continue
		}
		value, err := c.value(props.vals[i], props.offset)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, vdom.Attr{Key: name, Value: value})
	}

	node := vdom.Element(tag, nil, children)
	node.Attrs = attrs
	node.Key = key
	return node, nil
}

// value converts a value in attribute position to plain data.
func (c converter) value(v any, offset int64) (any, error) {
	switch t := v.(type) {
	case nil, bool:
		return t, nil
	case string:
		if IsElementMarker(t) {
			return nil, c.fail(offset, ErrStrayMarker)
		}
		return UnescapeString(t), nil
	case json.Number:
		f, err := number(t)
		if err != nil {
			return nil, c.fail(offset, err)
		}
		return f, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			conv, err := c.value(item, offset)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case *object:
		if marker, ok := t.get(TypeofField); ok {
			if s, ok := marker.(string); ok && IsElementMarker(s) {
				return nil, c.fail(t.offset, ErrUnexpectedElement)
			}
		}
		out := make(map[string]any, len(t.keys))
		for i, k := range t.keys {
			conv, err := c.value(t.vals[i], t.offset)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	default:
		return nil, c.fail(offset, fmt.Errorf("unexpected JSON value %T", v))
	}
}

func mustGet(obj *object, key string) any {
	v, _ := obj.get(key)
	return v
}

func number(n json.Number) (float64, error) {
	f, err := n.Float64()
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s", ErrNonFiniteNumber, n)
		}
		return 0, err
	}
	return f, nil
}
