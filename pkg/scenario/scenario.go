// Package scenario replays declarative reconciliation scenarios against the
// compose runtime. A scenario is a YAML document listing successive child
// trees for the root; running it emits each step, records the structural
// edit script the reconciler produced, and captures the final tree. The
// composetest goldens and the composectl replay command both drive the
// runtime through this package.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-compose/compose/pkg/compose"
	"github.com/go-compose/compose/pkg/errors"
	"github.com/go-compose/compose/pkg/modifier"
)

// Scenario is a parsed scenario file.
type Scenario struct {
	Name      string `yaml:"name"`
	MaxPasses int    `yaml:"maxPasses,omitempty"`
	Steps     []Step `yaml:"steps"`
}

// Step is one cycle's worth of content: the full child tree the root emits.
type Step struct {
	Name     string  `yaml:"name,omitempty"`
	Children []Child `yaml:"children"`
}

// Child describes one emitted node.
type Child struct {
	Type     string  `yaml:"type"`
	Key      string  `yaml:"key,omitempty"`
	Text     string  `yaml:"text,omitempty"`
	Children []Child `yaml:"children,omitempty"`
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &errors.ComposeError{
			Op:   "scenario.Parse",
			Kind: errors.KindScenario,
			Err:  err,
		}
	}
	if len(s.Steps) == 0 {
		return nil, &errors.ComposeError{
			Op:   "scenario.Parse",
			Kind: errors.KindScenario,
			Err:  fmt.Errorf("scenario %q has no steps", s.Name),
		}
	}
	for i, step := range s.Steps {
		if err := validateChildren(step.Children); err != nil {
			return nil, &errors.ComposeError{
				Op:   "scenario.Parse",
				Kind: errors.KindScenario,
				Err:  fmt.Errorf("step %d: %w", i, err),
			}
		}
	}
	return &s, nil
}

func validateChildren(children []Child) error {
	for _, ch := range children {
		if ch.Type == "" {
			return fmt.Errorf("child missing type")
		}
		if err := validateChildren(ch.Children); err != nil {
			return err
		}
	}
	return nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ComposeError{
			Op:   "scenario.Load",
			Kind: errors.KindScenario,
			Err:  err,
		}
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// StepResult is the recorded outcome of one step.
type StepResult struct {
	Name  string
	Edits []string
}

// Result is the recorded outcome of a full run.
type Result struct {
	Scenario  string
	Steps     []StepResult
	FinalDump string
}

// Format renders the result deterministically, one edit per line, for
// golden comparison and CLI output.
func (r *Result) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "scenario: %s\n", r.Scenario)
	for i, step := range r.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		fmt.Fprintf(&sb, "-- %s\n", name)
		if len(step.Edits) == 0 {
			sb.WriteString("  (no edits)\n")
		}
		for _, e := range step.Edits {
			fmt.Fprintf(&sb, "  %s\n", e)
		}
	}
	sb.WriteString("-- final tree\n")
	sb.WriteString(r.FinalDump)
	return sb.String()
}

// editRecorder collects formatted edits per reconciled parent.
type editRecorder struct {
	lines []string
}

func (r *editRecorder) ChildrenReconciled(parent compose.NodeID, edits []Edit) {
	for _, e := range edits {
		r.lines = append(r.lines, fmt.Sprintf("parent=%d %s", parent, e))
	}
}

// Edit aliases the runtime's edit type for observer wiring.
type Edit = compose.Edit

// Run replays the scenario: each step installs its child tree as the root
// content and runs one cycle.
func Run(s *Scenario) (*Result, error) {
	recorder := &editRecorder{}
	rt := compose.NewRecomposer(compose.Options{
		MaxPasses: s.MaxPasses,
		Observer:  recorder,
	})

	result := &Result{Scenario: s.Name}
	for i, step := range s.Steps {
		children := step.Children
		rt.SetContent(func(c *compose.Composer) {
			emitChildren(c, children)
		})
		recorder.lines = nil
		if err := rt.RunCycle(); err != nil {
			return nil, &errors.ComposeError{
				Op:   "scenario.Run",
				Kind: errors.KindScenario,
				Err:  fmt.Errorf("step %d: %w", i, err),
			}
		}
		result.Steps = append(result.Steps, StepResult{
			Name:  step.Name,
			Edits: append([]string(nil), recorder.lines...),
		})
	}
	result.FinalDump = rt.Tree().Dump()
	return result, nil
}

func emitChildren(c *compose.Composer, children []Child) {
	for _, ch := range children {
		var key any
		if ch.Key != "" {
			key = ch.Key
		}
		var chain modifier.Chain
		if ch.Text != "" {
			chain = modifier.NewChain(modifier.Content(ch.Text))
		}
		var body compose.BodyFunc
		if len(ch.Children) > 0 {
			nested := ch.Children
			body = func(c *compose.Composer) {
				emitChildren(c, nested)
			}
		}
		c.Emit(compose.TypeTag(ch.Type), key, chain, body)
	}
}
