package scenario_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-compose/compose/pkg/errors"
	"github.com/go-compose/compose/pkg/scenario"
)

func TestParse_RejectsEmptyAndInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "steps: [unclosed\n"},
		{"no steps", "name: empty\nsteps: []\n"},
		{"child missing type", "steps:\n  - children:\n      - key: a\n"},
		{"nested child missing type", "steps:\n  - children:\n      - type: column\n        children:\n          - text: hi\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(tt.doc))
			require.Error(t, err)
			var cerr *errors.ComposeError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, errors.KindScenario, cerr.Kind)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := scenario.Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
	var cerr *errors.ComposeError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, errors.KindScenario, cerr.Kind)
}

func TestLoad_DefaultsNameToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unnamed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - children:\n      - type: text\n"), 0o644))

	loaded, err := scenario.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded.Name)

	named, err := scenario.Load("testdata/keyed_reorder.yaml")
	require.NoError(t, err)
	assert.Equal(t, "keyed reorder", named.Name)
}

func TestRun_KeyedReorderScript(t *testing.T) {
	s, err := scenario.Load("testdata/keyed_reorder.yaml")
	require.NoError(t, err)

	result, err := scenario.Run(s)
	require.NoError(t, err)

	want := `scenario: keyed reorder
-- mount
  parent=1 create item#2 @0
  parent=1 create item#3 @1
  parent=1 create item#4 @2
-- reorder
  parent=1 update item#4 @0
  parent=1 move item#2 @1
  parent=1 move item#3 @2
-- final tree
root#1
  item#4 key=c [content("Gamma")]
  item#2 key=a [content("Alpha")]
  item#3 key=b [content("Beta")]
`
	assert.Equal(t, want, result.Format())
}

func TestRun_NestedChildren(t *testing.T) {
	s, err := scenario.Parse([]byte(`
name: nesting
steps:
  - children:
      - type: column
        children:
          - type: text
            text: one
          - type: text
            text: two
`))
	require.NoError(t, err)

	result, err := scenario.Run(s)
	require.NoError(t, err)

	want := "root#1\n  column#2\n    text#3 [content(\"one\")]\n    text#4 [content(\"two\")]\n"
	assert.Equal(t, want, result.FinalDump)
}

func TestRun_ZeroMaxPassesUsesDefault(t *testing.T) {
	s, err := scenario.Parse([]byte("steps:\n  - children:\n      - type: text\n"))
	require.NoError(t, err)
	s.MaxPasses = 0

	result, err := scenario.Run(s)
	require.NoError(t, err)
	assert.Len(t, result.Steps, 1)
}

func TestFormat_EmptyStepSaysNoEdits(t *testing.T) {
	r := &scenario.Result{
		Scenario: "quiet",
		Steps: []scenario.StepResult{
			{Name: "idle"},
			{Edits: []string{"parent=1 update text#2 @0"}},
		},
		FinalDump: "root#1\n",
	}
	want := `scenario: quiet
-- idle
  (no edits)
-- step 2
  parent=1 update text#2 @0
-- final tree
root#1
`
	assert.Equal(t, want, r.Format())
}
