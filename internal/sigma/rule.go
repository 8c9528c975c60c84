package sigma

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule holds the subset of a Sigma rule document the report cares about.
// Unknown keys are ignored.
type Rule struct {
	Title          string     `yaml:"title"`
	Description    string     `yaml:"description"`
	Level          string     `yaml:"level"`
	Logsource      Logsource  `yaml:"logsource"`
	FalsePositives stringList `yaml:"falsepositives"`
	References     stringList `yaml:"references"`
	Detection      logicBlock `yaml:"detection"`
}

// Logsource identifies the platform a rule applies to.
type Logsource struct {
	Product stringList `yaml:"product"`
}

// stringList accepts either a YAML scalar or a sequence of scalars.
// A scalar becomes a one-element list and null becomes an empty list.
type stringList []string

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.AliasNode:
		return s.UnmarshalYAML(value.Alias)
	case yaml.ScalarNode:
		if isNull(value) {
			*s = nil
			return nil
		}
		*s = stringList{value.Value}
	case yaml.SequenceNode:
		var out []string
		for _, node := range value.Content {
			if node.Kind == yaml.AliasNode {
				node = node.Alias
			}
			if node.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: list entries must be scalars", node.Line)
			}
			if isNull(node) {
				continue
			}
			out = append(out, node.Value)
		}
		*s = out
	default:
		return fmt.Errorf("line %d: expected a scalar or a list", value.Line)
	}
	return nil
}

func (s stringList) join() string {
	return strings.Join(s, listSeparator)
}

// logicBlock is the detection section as text. After RewriteDetection it is
// a literal scalar; a flow-style block that could not be rewritten is
// re-encoded as YAML instead.
type logicBlock string

func (l *logicBlock) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if isNull(value) {
			*l = ""
			return nil
		}
		*l = logicBlock(value.Value)
		return nil
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	*l = logicBlock(data)
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.ShortTag() == "!!null"
}
