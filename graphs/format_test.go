package graphs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "null"},
		{"string", "bob", `"bob"`},
		{"int", int64(42), "42"},
		{"bool", true, "true"},
		{"list", []any{"a", int64(1)}, `["a", 1]`},
		{"map", map[string]any{"b": int64(2), "a": "x"}, `{a: "x", b: 2}`},
		{"node", person("bob"), `(:Person {name: "bob"})`},
		{"node without labels", Node{Properties: map[string]any{"name": "x"}}, `({name: "x"})`},
		{"bare node", Node{}, "()"},
		{"relationship", Relationship{Type: "MET"}, "[:MET]"},
		{"relationship with properties", Relationship{Type: "MET", Properties: map[string]any{"at": "Meetup1"}}, `[:MET {at: "Meetup1"}]`},
		{
			"path",
			Path{
				Nodes:         []Node{person("alice"), person("bob")},
				Relationships: []Relationship{{Type: "MET"}},
			},
			`(:Person {name: "alice"})-[:MET]-(:Person {name: "bob"})`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestFormatResult(t *testing.T) {
	result := &Result{
		Keys: []string{"p", "degree"},
		Rows: []Row{
			{Keys: []string{"p", "degree"}, Values: []any{person("bob"), int64(3)}},
			{Keys: []string{"p", "degree"}, Values: []any{person("alice"), int64(2)}},
		},
	}

	want := "p: (:Person {name: \"bob\"}), degree: 3\np: (:Person {name: \"alice\"}), degree: 2"
	assert.Equal(t, want, FormatResult(result))
	assert.Equal(t, "", FormatResult(&Result{}))
	assert.Equal(t, "", FormatResult(nil))
}
