package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "simple annotation", input: "// @Unwrapped", expected: []string{"Unwrapped"}},
		{name: "annotation with params", input: "// @Unwrapped(suffix=`Form`, name=Draft)", expected: []string{"Unwrapped"}},
		{name: "multiple annotations", input: "// @Unwrapped @Builder", expected: []string{"Unwrapped", "Builder"}},
		{name: "multiline annotations", input: "// @Unwrapped(suffix=`Form`)\n// @Wrapped", expected: []string{"Unwrapped", "Wrapped"}},
		{name: "no annotation", input: "// This is a comment", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, ann := range ParseAnnotations(tt.input) {
				names = append(names, ann.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestAnnotationParams(t *testing.T) {
	anns := ParseAnnotations("// @Unwrapped(Prefix=`Draft`, suffix=\"Form\", name=ProfileDraft, derives=`[Equal, Stringer]`)")
	require.Len(t, anns, 1)

	ann := anns[0]
	assert.Equal(t, "Draft", ann.GetParam("prefix"))
	assert.Equal(t, "Form", ann.GetParam("SUFFIX"))
	assert.Equal(t, "ProfileDraft", ann.GetParam("name"))
	assert.Equal(t, "[Equal, Stringer]", ann.GetParam("derives"))
	assert.True(t, ann.HasParam("name"))
	assert.False(t, ann.HasParam("output"))
	assert.Equal(t, "fallback", ann.GetParamOr("output", "fallback"))
}

func TestParseListParam(t *testing.T) {
	assert.Equal(t, []string{"Equal", "Stringer"}, ParseListParam("[Equal, Stringer]"))
	assert.Equal(t, []string{"Equal", "Stringer"}, ParseListParam("Equal|Stringer"))
	assert.Equal(t, []string{"a, b", "c"}, ParseListParam("a, b;c", ";"))
	assert.Nil(t, ParseListParam(""))
	assert.Nil(t, ParseListParam("[]"))
	assert.Equal(t, []string{"A"}, ParseListParam("A,,"))
}

func TestParseNestedParam(t *testing.T) {
	assert.Equal(t, map[string]string{"name": "ProfileBuilder"}, ParseNestedParam("ProfileBuilder", "name"))
	assert.Equal(t, map[string]string{"name": "PB", "vis": "pub"}, ParseNestedParam("name=PB, vis=pub", "name"))
	assert.Empty(t, ParseNestedParam("  ", "name"))
}

func TestAnnotationLookup(t *testing.T) {
	anns := ParseAnnotations("// @Unwrapped\n// @Builder(builder_type=PB)\n// @Other")

	assert.True(t, HasAnnotation(anns, "Builder"))
	assert.False(t, HasAnnotation(anns, "Wrapped"))
	assert.Nil(t, GetAnnotation(anns, "Wrapped"))
	assert.Equal(t, "PB", GetAnnotation(anns, "Builder").GetParam("builder_type"))

	filtered := FilterByNames(anns, "Unwrapped", "Other")
	require.Len(t, filtered, 2)
	assert.Equal(t, "Other", filtered[1].Name)
	assert.Len(t, FilterByNames(anns), 3)
}
