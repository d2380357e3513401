package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/flight/pkg/vdom"
)

// Encode returns the wire form of a resolved tree.
func Encode(node *vdom.Node) ([]byte, error) {
	e := &encoder{limit: MaxNodeDepth}
	if err := e.node(node, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// EncodeString returns the wire form of a resolved tree as a string.
func EncodeString(node *vdom.Node) (string, error) {
	data, err := Encode(node)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Encoder writes wire forms to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the wire form of node to the stream. Nothing is written
// when the tree cannot be encoded.
func (enc *Encoder) Encode(node *vdom.Node) error {
	data, err := Encode(node)
	if err != nil {
		return err
	}
	_, err = enc.w.Write(data)
	return err
}

// encoder builds one payload. path holds the position of the value being
// written, for error messages. limit matches the decoder's node depth so
// every payload written can be read back.
type encoder struct {
	buf   bytes.Buffer
	path  []string
	limit int
}

func (e *encoder) fail(err error) error {
	return &EncodeError{Path: strings.Join(e.path, ""), Err: err}
}

func (e *encoder) push(seg string) { e.path = append(e.path, seg) }
func (e *encoder) pop()            { e.path = e.path[:len(e.path)-1] }

// node writes a node in node position.
func (e *encoder) node(n *vdom.Node, depth int) error {
	switch n.Kind() {
	case vdom.KindEmpty:
		e.buf.WriteString("null")
		return nil
	case vdom.KindText:
		e.string(n.Text)
		return nil
	case vdom.KindNumber:
		return e.number(n.Num)
	case vdom.KindList:
		if depth >= e.limit {
			return e.fail(ErrMaxDepthExceeded)
		}
		e.buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.push("[" + strconv.Itoa(i) + "]")
			if err := e.node(item, depth+1); err != nil {
				return err
			}
			e.pop()
		}
		e.buf.WriteByte(']')
		return nil
	case vdom.KindElement:
		return e.element(n, depth)
	case vdom.KindComponent:
		name := "<nil>"
		if n.Comp != nil {
			name = n.Comp.Name()
		}
		return e.fail(fmt.Errorf("%w: %s", ErrUnresolvedComponent, name))
	default:
		return e.fail(fmt.Errorf("unknown node kind: %d", n.Kind()))
	}
}

// element writes {"$$typeof":"$RE","type":...,"key":...,"props":{...}}.
func (e *encoder) element(n *vdom.Node, depth int) error {
	if depth >= e.limit {
		return e.fail(ErrMaxDepthExceeded)
	}
	e.buf.WriteString(`{"`)
	e.buf.WriteString(TypeofField)
	e.buf.WriteString(`":"`)
	e.buf.WriteString(ElementMarker)
	e.buf.WriteString(`","` + fieldType + `":`)
	e.string(n.Tag)
	e.buf.WriteString(`,"` + fieldKey + `":`)
	if n.Key == "" {
		e.buf.WriteString("null")
	} else {
		e.string(n.Key)
	}
	e.buf.WriteString(`,"` + fieldProps + `":{`)

	e.push("<" + n.Tag + ">")
	first := true
	for _, a := range n.Attrs {
		if a.Key == vdom.ChildrenKey {
			continue
		}
		if !first {
			e.buf.WriteByte(',')
		}
		first = false
		e.key(a.Key)
		e.push("." + a.Key)
		if err := e.value(a.Value); err != nil {
			return err
		}
		e.pop()
	}
	if n.Children != nil {
		if !first {
			e.buf.WriteByte(',')
		}
		e.key(vdom.ChildrenKey)
		e.push("." + vdom.ChildrenKey)
		if err := e.node(n.Children, depth+1); err != nil {
			return err
		}
		e.pop()
	}
	e.pop()

	e.buf.WriteString("}}")
	return nil
}

// value writes an attribute value. Strings are escaped at any depth;
// object keys are not.
func (e *encoder) value(v any) error {
	switch v.(type) {
	case *vdom.Node, vdom.Component:
		return e.fail(fmt.Errorf("%w: %T", ErrUnsupportedValue, v))
	}
	plain, ok := vdom.Normalize(v)
	if !ok {
		return e.fail(fmt.Errorf("%w: %T", ErrUnsupportedValue, v))
	}
	return e.plain(plain)
}

func (e *encoder) plain(v any) error {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case float64:
		return e.number(t)
	case string:
		e.string(t)
	case []any:
		e.buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.push("[" + strconv.Itoa(i) + "]")
			if err := e.plain(item); err != nil {
				return err
			}
			e.pop()
		}
		e.buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		e.buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.key(k)
			e.push("." + k)
			if err := e.plain(t[k]); err != nil {
				return err
			}
			e.pop()
		}
		e.buf.WriteByte('}')
	default:
		return e.fail(fmt.Errorf("%w: %T", ErrUnsupportedValue, v))
	}
	return nil
}

func (e *encoder) number(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return e.fail(ErrNonFiniteNumber)
	}
	data, err := json.Marshal(f)
	if err != nil {
		return e.fail(err)
	}
	e.buf.Write(data)
	return nil
}

// string writes an escaped application string.
func (e *encoder) string(s string) {
	e.quote(EscapeString(s))
}

// key writes an object key followed by a colon. Keys are not escaped.
func (e *encoder) key(k string) {
	e.quote(k)
	e.buf.WriteByte(':')
}

// quote writes s as a JSON string. HTML characters stay literal; pages
// that embed the payload in a script escape it there.
func (e *encoder) quote(s string) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	e.buf.Write(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}))
}
