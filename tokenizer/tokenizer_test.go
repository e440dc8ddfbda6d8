package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "hello $foo$ the $money$ costs $9.95 and $bar foo$ is really cool!"

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		tokens Source
		want   string
	}{
		{"single", Map{"foo": "5"}, "hello 5 the $money$ costs $9.95 and $bar foo$ is really cool!"},
		{"key with space", Map{"foo": "5.5", "bar foo": "HI"}, "hello 5.5 the $money$ costs $9.95 and HI is really cool!"},
		{"key spans two tokens", Map{" the ": "ABC"}, "hello $fooABCmoney$ costs $9.95 and $bar foo$ is really cool!"},
		{"order dependent", Map{" the ": "ABC", "9.95 and ": "5"}, "hello $fooABCmoney$ costs 5bar foo$ is really cool!"},
		{"objects", ObjectMap{"foo": 5.5, "bar foo": "HI"}, "hello 5.5 the $money$ costs $9.95 and HI is really cool!"},
		{"bool object", ObjectMap{" the ": true}, "hello $footruemoney$ costs $9.95 and $bar foo$ is really cool!"},
		{"nil object", ObjectMap{"foo": nil}, "hello  the $money$ costs $9.95 and $bar foo$ is really cool!"},
		{"ordered", Ordered{{"money", "WINNING"}, {"foo", "5"}}, "hello 5 the WINNING costs $9.95 and $bar foo$ is really cool!"},
		{"no tokens", Map{}, sample},
		{"unknown key", Map{"nope": "x"}, sample},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(sample, tt.tokens))
		})
	}
}

func TestRender_Basic(t *testing.T) {
	assert.Equal(t, "hello 5 there", Render("hello $foo$ there", Map{"foo": "5"}))
	assert.Equal(t, "hello $foo$ there", Render("hello $foo$ there", Map{}))
	assert.Equal(t, "hello $foo$ there", Render("hello $foo$ there", nil))
}

func TestRender_CaseInsensitiveByDefault(t *testing.T) {
	assert.Equal(t, "a 1 b 1 c 1", Render("a $FOO$ b $foo$ c $Foo$", Map{"foo": "1"}))

	tok := New()
	tok.CaseInsensitive = false
	assert.Equal(t, "a $FOO$ b 1 c $Foo$", tok.Render("a $FOO$ b $foo$ c $Foo$", Map{"foo": "1"}))
}

func TestRender_CaseFoldChangesLength(t *testing.T) {
	// the Kelvin sign folds to k but is three bytes long
	assert.Equal(t, "a 1 b 1", Render("a $\u212A$ b $k$", Map{"k": "1"}))
	assert.Equal(t, "[1] $\u212Ax$", Render("[$K$] $\u212Ax$", Map{"\u212A": "1"}))
	assert.Equal(t, "s=2", Render("s=$\u017F$", Map{"S": "2"}))
}

func TestRender_CustomDelimiters(t *testing.T) {
	tok := New()
	tok.LeftDelimiter, tok.RightDelimiter = "{{", "}}"
	assert.Equal(t, "Hi Bob, $name$", tok.Render("Hi {{name}}, $name$", Map{"name": "Bob"}))
}

func TestRender_ValueContainingKey(t *testing.T) {
	assert.Equal(t, "x[$a$]y[$a$]", Render("x$a$y$A$", Map{"a": "[$a$]"}))
}

func TestRender_RescansAfterReplacement(t *testing.T) {
	// removing the inner token forms a new one, which is removed in turn
	assert.Equal(t, "", Render("$$a$a$", Map{"a": ""}))
}

func TestRender_Idempotent(t *testing.T) {
	tokens := Map{"foo": "5", "bar": "6"}
	once := Render("a $foo$ b $bar$", tokens)
	assert.Equal(t, once, Render(once, tokens))
}

func TestHasUnresolvedToken(t *testing.T) {
	tok := New()
	tests := map[string]bool{
		"":                 false,
		"plain.cs":         false,
		"$Name$.cs":        true,
		"Foo.$Neato$.cs":   true,
		"costs $9 and $5":  false,
		"$$":               false,
		"$ spaced $":       false,
		"a$b c$d$e$":       true,
		"only$one":         false,
		`$a\b$`:            false,
		"This is foo.cs":   false,
		"$foo bar$baz$.cs": true,
	}
	for in, want := range tests {
		assert.Equal(t, want, tok.HasUnresolvedToken(in), in)
	}
}

func TestStructSource(t *testing.T) {
	type args struct {
		Name    string
		Count   int
		Missing *string
		Renamed string `mapstructure:"other"`
	}
	src, err := Struct(&args{Name: "Foo", Count: 3, Renamed: "x"})
	require.NoError(t, err)
	assert.Equal(t, []Token{
		{"Count", "3"}, {"Missing", ""}, {"Name", "Foo"}, {"other", "x"},
	}, src.Tokens())

	src, err = Struct(nil)
	require.NoError(t, err)
	assert.Empty(t, src.Tokens())

	var nilArgs *args
	src, err = Struct(nilArgs)
	require.NoError(t, err)
	assert.Empty(t, src.Tokens())
}

func TestMerge(t *testing.T) {
	merged := Merge(
		Ordered{{"b", "1"}, {"a", "1"}},
		nil,
		Map{"a": "2", "c": "2"},
	)
	assert.Equal(t, Ordered{{"b", "1"}, {"a", "2"}, {"c", "2"}}, merged)

	v, ok := merged.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	_, ok = merged.Get("A")
	assert.False(t, ok)
}

func TestParseArguments(t *testing.T) {
	got := ParseArguments([]string{"foo", "bar", "x=y", "empty=", "a=b=c", "baz"})
	assert.Equal(t, Ordered{
		{"ARG1", "foo"}, {"ARG2", "bar"}, {"x", "y"}, {"empty", ""}, {"a", "b=c"}, {"ARG3", "baz"},
	}, got)
	assert.Empty(t, ParseArguments(nil))
}
