package tokenizer

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// Token is one key and the text that replaces it.
type Token struct {
	Key   string
	Value string
}

// Source supplies tokens in the order they are applied.
type Source interface {
	Tokens() []Token
}

// Map is a string-valued token source. Tokens are applied in key order.
type Map map[string]string

// Tokens implements Source.
func (m Map) Tokens() []Token {
	out := make([]Token, 0, len(m))
	for k, v := range m {
		out = append(out, Token{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ObjectMap is a token source with arbitrary values, rendered with fmt.
// Nil values become "". Tokens are applied in key order.
type ObjectMap map[string]any

// Tokens implements Source.
func (m ObjectMap) Tokens() []Token {
	out := make([]Token, 0, len(m))
	for k, v := range m {
		out = append(out, Token{Key: k, Value: stringify(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Ordered is a token source applied in slice order.
type Ordered []Token

// Tokens implements Source.
func (o Ordered) Tokens() []Token { return o }

// Get returns the value of the first token with the given key.
func (o Ordered) Get(key string) (string, bool) {
	for _, t := range o {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// Struct returns a source over the exported fields of a struct (or pointer to
// one), keyed by field name or `mapstructure` tag. A nil value yields no tokens.
func Struct(v any) (Source, error) {
	if isNil(v) {
		return ObjectMap{}, nil
	}
	fields := map[string]any{}
	if err := mapstructure.Decode(v, &fields); err != nil {
		return nil, fmt.Errorf("failed to read token fields: %w", err)
	}
	return ObjectMap(fields), nil
}

// Merge combines sources into one. A later source overrides the value of a
// key an earlier one defined, keeping the key's original position.
func Merge(sources ...Source) Ordered {
	var out Ordered
	index := map[string]int{}
	for _, src := range sources {
		if src == nil {
			continue
		}
		for _, t := range src.Tokens() {
			if i, ok := index[t.Key]; ok {
				out[i].Value = t.Value
				continue
			}
			index[t.Key] = len(out)
			out = append(out, t)
		}
	}
	return out
}

func stringify(v any) string {
	if isNil(v) {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return fmt.Sprint(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
