// json.go — the `json` native module.
//
// parse uses a hand-written scanner instead of encoding/json because the
// language guarantees that object iteration order equals source order, and
// encoding/json decodes objects into unordered maps. stringify is the
// inverse and walks objects in their key order.
package zekken

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

func registerJsonModule(r *Registry) {
	// parse(text: string) -> any — Object key order equals text order.
	r.registerFn("json", "parse",
		[]TypeName{TString}, TAny,
		func(_ *Interp, p Pos, args []Value) (Value, error) {
			v, err := jsonParse(args[0].Data.(string))
			if err != nil {
				return Value{}, rtErr(p, "json.parse: %v", err)
			}
			return v, nil
		})

	// stringify(value: any) -> string
	r.registerFn("json", "stringify",
		[]TypeName{TAny}, TString,
		func(_ *Interp, p Pos, args []Value) (Value, error) {
			s, err := jsonStringify(args[0])
			if err != nil {
				return Value{}, rtErr(p, "json.stringify: %v", err)
			}
			return StrVal(s), nil
		})
}

type jsonScanner struct {
	src string
	cur int
}

// jsonParse decodes one JSON value from text. Trailing non-blank content is
// an error. Integral numbers without '.', 'e' or 'E' become Int; everything
// else numeric becomes Float.
func jsonParse(text string) (Value, error) {
	s := &jsonScanner{src: text}
	s.skipSpace()
	v, err := s.value()
	if err != nil {
		return Value{}, err
	}
	s.skipSpace()
	if s.cur < len(s.src) {
		return Value{}, fmt.Errorf("unexpected trailing content at offset %d", s.cur)
	}
	return v, nil
}

func (s *jsonScanner) skipSpace() {
	for s.cur < len(s.src) {
		switch s.src[s.cur] {
		case ' ', '\t', '\n', '\r':
			s.cur++
		default:
			return
		}
	}
}

func (s *jsonScanner) value() (Value, error) {
	if s.cur >= len(s.src) {
		return Value{}, fmt.Errorf("unexpected end of input")
	}
	switch c := s.src[s.cur]; {
	case c == '{':
		return s.object()
	case c == '[':
		return s.array()
	case c == '"':
		str, err := s.string()
		if err != nil {
			return Value{}, err
		}
		return StrVal(str), nil
	case c == 't':
		return s.literal("true", BoolVal(true))
	case c == 'f':
		return s.literal("false", BoolVal(false))
	case c == 'n':
		return s.literal("null", Null)
	case c == '-' || (c >= '0' && c <= '9'):
		return s.number()
	default:
		return Value{}, fmt.Errorf("unexpected character %q at offset %d", string(rune(c)), s.cur)
	}
}

func (s *jsonScanner) literal(word string, v Value) (Value, error) {
	if !strings.HasPrefix(s.src[s.cur:], word) {
		return Value{}, fmt.Errorf("malformed literal at offset %d", s.cur)
	}
	s.cur += len(word)
	return v, nil
}

func (s *jsonScanner) object() (Value, error) {
	s.cur++ // '{'
	obj := NewObject()
	s.skipSpace()
	if s.cur < len(s.src) && s.src[s.cur] == '}' {
		s.cur++
		return ObjVal(obj), nil
	}
	for {
		s.skipSpace()
		if s.cur >= len(s.src) || s.src[s.cur] != '"' {
			return Value{}, fmt.Errorf("expected object key at offset %d", s.cur)
		}
		key, err := s.string()
		if err != nil {
			return Value{}, err
		}
		s.skipSpace()
		if s.cur >= len(s.src) || s.src[s.cur] != ':' {
			return Value{}, fmt.Errorf("expected ':' after object key at offset %d", s.cur)
		}
		s.cur++
		s.skipSpace()
		v, err := s.value()
		if err != nil {
			return Value{}, err
		}
		obj.Set(key, v)
		s.skipSpace()
		if s.cur >= len(s.src) {
			return Value{}, fmt.Errorf("unterminated object")
		}
		switch s.src[s.cur] {
		case ',':
			s.cur++
		case '}':
			s.cur++
			return ObjVal(obj), nil
		default:
			return Value{}, fmt.Errorf("expected ',' or '}' at offset %d", s.cur)
		}
	}
}

func (s *jsonScanner) array() (Value, error) {
	s.cur++ // '['
	var elems []Value
	s.skipSpace()
	if s.cur < len(s.src) && s.src[s.cur] == ']' {
		s.cur++
		return ArrVal(elems), nil
	}
	for {
		s.skipSpace()
		v, err := s.value()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
		s.skipSpace()
		if s.cur >= len(s.src) {
			return Value{}, fmt.Errorf("unterminated array")
		}
		switch s.src[s.cur] {
		case ',':
			s.cur++
		case ']':
			s.cur++
			return ArrVal(elems), nil
		default:
			return Value{}, fmt.Errorf("expected ',' or ']' at offset %d", s.cur)
		}
	}
}

func (s *jsonScanner) string() (string, error) {
	s.cur++ // opening '"'
	var b strings.Builder
	for {
		if s.cur >= len(s.src) {
			return "", fmt.Errorf("unterminated string")
		}
		c := s.src[s.cur]
		if c == '"' {
			s.cur++
			return b.String(), nil
		}
		if c != '\\' {
			b.WriteByte(c)
			s.cur++
			continue
		}
		s.cur++
		if s.cur >= len(s.src) {
			return "", fmt.Errorf("unterminated string")
		}
		esc := s.src[s.cur]
		s.cur++
		switch esc {
		case '"', '\\', '/':
			b.WriteByte(esc)
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r, err := s.hexRune()
			if err != nil {
				return "", err
			}
			// surrogate pair
			if utf16.IsSurrogate(r) && s.cur+1 < len(s.src) && s.src[s.cur] == '\\' && s.src[s.cur+1] == 'u' {
				s.cur += 2
				r2, err := s.hexRune()
				if err != nil {
					return "", err
				}
				r = utf16.DecodeRune(r, r2)
			}
			if r == utf8.RuneError {
				r = '�'
			}
			b.WriteRune(r)
		default:
			return "", fmt.Errorf("invalid escape '\\%s'", string(rune(esc)))
		}
	}
}

func (s *jsonScanner) hexRune() (rune, error) {
	if s.cur+4 > len(s.src) {
		return 0, fmt.Errorf("truncated unicode escape")
	}
	n, err := strconv.ParseUint(s.src[s.cur:s.cur+4], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid unicode escape")
	}
	s.cur += 4
	return rune(n), nil
}

func (s *jsonScanner) number() (Value, error) {
	start := s.cur
	if s.src[s.cur] == '-' {
		s.cur++
	}
	isFloat := false
	for s.cur < len(s.src) {
		c := s.src[s.cur]
		if c >= '0' && c <= '9' {
			s.cur++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			isFloat = true
			s.cur++
			continue
		}
		break
	}
	text := s.src[start:s.cur]
	if !isFloat {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return IntVal(n), nil
		}
		// out of int64 range: fall through to float
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, fmt.Errorf("malformed number %q", text)
	}
	return FloatVal(f), nil
}

// jsonStringify renders a value as JSON text. Object keys emit in insertion
// order. Function values cannot be serialized.
func jsonStringify(v Value) (string, error) {
	var b strings.Builder
	if err := writeJSON(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeJSON(b *strings.Builder, v Value) error {
	switch v.Tag {
	case VNull:
		b.WriteString("null")
	case VBool:
		b.WriteString(strconv.FormatBool(v.Data.(bool)))
	case VInt:
		b.WriteString(strconv.FormatInt(v.Data.(int64), 10))
	case VFloat:
		b.WriteString(strconv.FormatFloat(v.Data.(float64), 'g', -1, 64))
	case VStr:
		b.WriteString(strconv.Quote(v.Data.(string)))
	case VArr:
		b.WriteByte('[')
		for i, e := range v.Data.(*ArrayValue).Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, e); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case VObj:
		obj := v.Data.(*ObjectValue)
		b.WriteByte('{')
		for i, k := range obj.Keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			if err := writeJSON(b, obj.Entries[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return fmt.Errorf("cannot serialize %s", typeOf(v))
	}
	return nil
}
