package xast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsOption(t *testing.T) {
	tests := []struct {
		typ       string
		wantOK    bool
		qualifier string
		inner     string
	}{
		{typ: "mo.Option[int]", wantOK: true, qualifier: "mo", inner: "int"},
		{typ: "opt.Option[[]string]", wantOK: true, qualifier: "opt", inner: "[]string"},
		{typ: "Option[map[string]time.Time]", wantOK: true, inner: "map[string]time.Time"},
		{typ: "mo.Option[T]", wantOK: true, qualifier: "mo", inner: "T"},
		{typ: "*mo.Option[int]", wantOK: false},
		{typ: "[]mo.Option[int]", wantOK: false},
		{typ: "mo.Either[int, string]", wantOK: false},
		{typ: "string", wantOK: false},
		{typ: "Optional[int]", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			info, ok := AsOption(tt.typ)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.qualifier, info.Qualifier)
				assert.Equal(t, tt.inner, info.Inner)
			}
		})
	}
}

func TestSliceMap(t *testing.T) {
	assert.True(t, IsSlice("[]string"))
	assert.False(t, IsSlice("[3]string"))
	assert.True(t, IsMap("map[string]int"))
	assert.False(t, IsMap("mo.Option[map[string]int]"))
}

func TestQualifiers(t *testing.T) {
	assert.ElementsMatch(t, []string{"mo", "time"}, Qualifiers("mo.Option[time.Duration]"))
	assert.ElementsMatch(t, []string{"time"}, Qualifiers("time.Second * 5"))
	assert.Empty(t, Qualifiers("int"))
	assert.Nil(t, Qualifiers("func("))
}

func TestParseTag(t *testing.T) {
	pairs, err := ParseTag("`json:\"name,omitempty\" validate:\"required\"`")
	require.NoError(t, err)
	assert.Equal(t, []TagPair{
		{Key: "json", Value: "name,omitempty"},
		{Key: "validate", Value: "required"},
	}, pairs)

	pairs, err = ParseTag(`unwrapped:"tag=validate:\"gte=0\""`)
	require.NoError(t, err)
	assert.Equal(t, `tag=validate:"gte=0"`, pairs[0].Value)

	pairs, err = ParseTag("")
	require.NoError(t, err)
	assert.Empty(t, pairs)

	_, err = ParseTag(`json:"name`)
	assert.Error(t, err)

	_, err = ParseTag(`json name`)
	assert.Error(t, err)
}

func TestMergeTags(t *testing.T) {
	merged := MergeTags(
		[]TagPair{{Key: "json", Value: "a"}, {Key: "db", Value: "x"}},
		[]TagPair{{Key: "validate", Value: "required"}},
		[]TagPair{{Key: "json", Value: "b"}},
	)
	assert.Equal(t, []TagPair{
		{Key: "json", Value: "b"},
		{Key: "db", Value: "x"},
		{Key: "validate", Value: "required"},
	}, merged)

	v, ok := LookupTag(merged, "db")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	assert.Len(t, RemoveTag(merged, "db"), 2)
	assert.Equal(t, "`json:\"b\" db:\"x\" validate:\"required\"`", FormatTag(merged))
}
