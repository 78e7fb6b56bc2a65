package security

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// The pattern set below is intentionally frozen. It is a best-effort defense
// against the obvious injection shapes, not a substitute for output encoding
// at render time, and widening it silently changes security semantics.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`),
	regexp.MustCompile(`(?i)javascript:[^\s"'<>]*`),
	regexp.MustCompile(`(?i)\son\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`),
	regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe\s*>`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)expression\s*\(`),
}

// CleanString strips every frozen dangerous pattern and NUL bytes from a
// single string leaf.
func CleanString(s string) string {
	for _, re := range dangerousPatterns {
		s = re.ReplaceAllString(s, "")
	}
	return strings.ReplaceAll(s, "\x00", "")
}

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a tagged tree over arbitrary request JSON. Maps keep member order
// so a sanitized body re-serializes byte-stably.
type Value struct {
	Kind    Kind
	Str     string
	Num     json.Number
	Bool    bool
	List    []Value
	Members []Member
}

type Member struct {
	Key   string
	Value Value
}

// Sanitize rebuilds the tree with every string leaf cleaned. Non-string
// leaves pass through unchanged; list and map structure and order are kept.
func Sanitize(v Value) Value {
	switch v.Kind {
	case KindString:
		return Value{Kind: KindString, Str: CleanString(v.Str)}
	case KindList:
		out := make([]Value, len(v.List))
		for i, item := range v.List {
			out[i] = Sanitize(item)
		}
		return Value{Kind: KindList, List: out}
	case KindMap:
		out := make([]Member, len(v.Members))
		for i, m := range v.Members {
			out[i] = Member{Key: m.Key, Value: Sanitize(m.Value)}
		}
		return Value{Kind: KindMap, Members: out}
	default:
		return v
	}
}

func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := Value{Kind: KindMap}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				member, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				v.Members = append(v.Members, Member{Key: key, Value: member})
			}
			// closing '}'
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return v, nil
		case '[':
			v := Value{Kind: KindList}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				v.List = append(v.List, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return v, nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case json.Number:
		return Value{Kind: KindNumber, Num: t}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case nil:
		return Value{Kind: KindNull}, nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func EncodeJSON(v Value) []byte {
	var buf bytes.Buffer
	encodeValue(&buf, v)
	return buf.Bytes()
}

func encodeValue(buf *bytes.Buffer, v Value) {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindString:
		b, _ := json.Marshal(v.Str)
		buf.Write(b)
	case KindNumber:
		buf.WriteString(v.Num.String())
	case KindBool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeValue(buf, item)
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, _ := json.Marshal(m.Key)
			buf.Write(b)
			buf.WriteByte(':')
			encodeValue(buf, m.Value)
		}
		buf.WriteByte('}')
	}
}

// SanitizeJSON is the body-level entry point: parse, sanitize, re-serialize.
// Non-JSON payloads are returned untouched.
func SanitizeJSON(data []byte) []byte {
	if len(bytes.TrimSpace(data)) == 0 {
		return data
	}
	v, err := ParseJSON(data)
	if err != nil {
		return data
	}
	return EncodeJSON(Sanitize(v))
}

// SanitizeRawQuery cleans each query parameter value in place, keeping
// parameter order. Values that fail to unescape pass through untouched.
func SanitizeRawQuery(raw string) string {
	pairs := strings.Split(raw, "&")
	for i, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		pairs[i] = key + "=" + url.QueryEscape(CleanString(decoded))
	}
	return strings.Join(pairs, "&")
}
