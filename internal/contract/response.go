package contract

import (
	"encoding"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"apicontract/internal/core"
)

// Response is a decoded response to a contract call.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	// Body has any Content-Encoding removed.
	Body      []byte
	Duration  time.Duration
	RequestID string
}

// Path looks up a raw value with gjson path syntax, e.g. "data.#.email".
func (r *Response) Path(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Require checks that the body is JSON and that every path resolves to a
// non-null value. For "#" queries every element must carry the field.
func (r *Response) Require(paths ...string) error {
	if !gjson.ValidBytes(r.Body) {
		return r.malformed("response body is not valid JSON", nil)
	}
	for _, p := range paths {
		res := r.Path(p)
		if !res.Exists() || res.Type == gjson.Null {
			return r.malformed(fmt.Sprintf("missing field %q", p), nil)
		}
		if !strings.Contains(p, "#") || !res.IsArray() {
			continue
		}
		items := res.Array()
		for i, el := range items {
			if el.Type == gjson.Null {
				return r.malformed(fmt.Sprintf("field %q is null at index %d", p, i), nil)
			}
		}
		// gjson skips elements lacking the key, so compare against the
		// length of the collection itself.
		if base, _, ok := strings.Cut(p, ".#."); ok && strings.Count(p, "#") == 1 {
			if want := r.Path(base + ".#").Int(); int64(len(items)) != want {
				return r.malformed(fmt.Sprintf("field %q present in %d of %d elements", p, len(items), want), nil)
			}
		}
	}
	return nil
}

// GetString returns the string at path.
func (r *Response) GetString(path string) (string, error) {
	res, err := r.lookup(path, gjson.String)
	if err != nil {
		return "", err
	}
	return res.Str, nil
}

// GetInt returns the integer at path.
func (r *Response) GetInt(path string) (int64, error) {
	res, err := r.lookup(path, gjson.Number)
	if err != nil {
		return 0, err
	}
	if !isInteger(res) {
		return 0, r.malformed(fmt.Sprintf("field %q is not an integer: %s", path, res.Raw), nil)
	}
	return res.Int(), nil
}

// GetStrings returns the string array at path, e.g. "data.#.email".
func (r *Response) GetStrings(path string) ([]string, error) {
	items, err := r.list(path, gjson.String)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Str
	}
	return out, nil
}

// GetInts returns the integer array at path, e.g. "data.#.year".
func (r *Response) GetInts(path string) ([]int64, error) {
	items, err := r.list(path, gjson.Number)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(items))
	for i, it := range items {
		if !isInteger(it) {
			return nil, r.malformed(fmt.Sprintf("field %q[%d] is not an integer: %s", path, i, it.Raw), nil)
		}
		out[i] = it.Int()
	}
	return out, nil
}

// isInteger reports whether a number is written without fraction or
// exponent, the form encoding/json accepts for integer fields.
func isInteger(res gjson.Result) bool {
	return !strings.ContainsAny(res.Raw, ".eE")
}

func (r *Response) lookup(path string, want gjson.Type) (gjson.Result, error) {
	res := r.Path(path)
	if !res.Exists() {
		return res, r.malformed(fmt.Sprintf("missing field %q", path), nil)
	}
	if res.Type != want {
		return res, r.malformed(fmt.Sprintf("field %q is %s, want %s", path, res.Type, want), nil)
	}
	return res, nil
}

func (r *Response) list(path string, want gjson.Type) ([]gjson.Result, error) {
	res := r.Path(path)
	if !res.Exists() {
		return nil, r.malformed(fmt.Sprintf("missing field %q", path), nil)
	}
	if !res.IsArray() {
		return nil, r.malformed(fmt.Sprintf("field %q is not an array", path), nil)
	}
	items := res.Array()
	for i, it := range items {
		if it.Type != want {
			return nil, r.malformed(fmt.Sprintf("field %q[%d] is %s, want %s", path, i, it.Type, want), nil)
		}
	}
	return items, nil
}

func (r *Response) malformed(message string, err error) *core.ContractError {
	ce := core.NewMalformedContractError(message, err)
	ce.StatusCode = r.StatusCode
	if r.Method != "" {
		ce.WithEndpoint(r.Method, r.URL)
	}
	return ce
}

// requiredTag marks struct fields that must be present and non-null for
// Decode to succeed.
const requiredTag = "required"

// Decode maps the body, or the sub-document at path when path is not empty,
// into T. Unknown fields are ignored. Struct fields tagged
// `contract:"required"` must be present and non-null, including inside
// slices and nested structs; otherwise a malformed-contract error is
// returned instead of a zero value.
func Decode[T any](r *Response, path string) (T, error) {
	var out T

	if !gjson.ValidBytes(r.Body) {
		return out, r.malformed("response body is not valid JSON", nil)
	}

	doc := gjson.ParseBytes(r.Body)
	if path != "" {
		doc = r.Path(path)
		if !doc.Exists() {
			return out, r.malformed(fmt.Sprintf("missing field %q", path), nil)
		}
	}
	if doc.Type == gjson.Null {
		return out, r.malformed(fmt.Sprintf("document at %s is null", pathLabel(path)), nil)
	}

	if err := checkRequired(doc, reflect.TypeFor[T](), pathLabel(path)); err != nil {
		return out, r.malformed(err.Error(), nil)
	}

	if err := json.Unmarshal([]byte(doc.Raw), &out); err != nil {
		return out, r.malformed("failed to unmarshal response: "+err.Error(), err)
	}
	return out, nil
}

func pathLabel(path string) string {
	if path == "" {
		return "$"
	}
	return path
}

// checkRequired walks typ alongside doc and reports the first required field
// that is absent or null, and the first value whose JSON kind cannot hold
// typ. Null values of optional fields are accepted.
func checkRequired(doc gjson.Result, typ reflect.Type, where string) error {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if doc.Type == gjson.Null || customDecoding(typ) {
		return nil
	}

	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		if typ.Elem().Kind() == reflect.Uint8 {
			return nil
		}
		if !doc.IsArray() {
			return fmt.Errorf("expected array at %s, got %s", where, kindName(doc))
		}
		for i, el := range doc.Array() {
			if err := checkRequired(el, typ.Elem(), fmt.Sprintf("%s[%d]", where, i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		if !doc.IsObject() {
			return fmt.Errorf("expected object at %s, got %s", where, kindName(doc))
		}
		fields := doc.Map()
		for i := range typ.NumField() {
			f := typ.Field(i)
			if !f.IsExported() {
				continue
			}
			name := jsonName(f)
			if name == "-" {
				continue
			}
			val, ok := fields[name]
			if f.Tag.Get("contract") == requiredTag && (!ok || val.Type == gjson.Null) {
				return fmt.Errorf("missing required field %q at %s", name, where)
			}
			if ok {
				if err := checkRequired(val, f.Type, where+"."+name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

var (
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// customDecoding reports whether typ decodes itself, e.g. time.Time from a
// string, so its JSON kind says nothing about its Go kind.
func customDecoding(typ reflect.Type) bool {
	ptr := reflect.PointerTo(typ)
	return ptr.Implements(jsonUnmarshalerType) || ptr.Implements(textUnmarshalerType)
}

func kindName(doc gjson.Result) string {
	switch {
	case doc.IsObject():
		return "object"
	case doc.IsArray():
		return "array"
	default:
		return doc.Type.String()
	}
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
