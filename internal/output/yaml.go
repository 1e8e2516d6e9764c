package output

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLWriter outputs the issues as a file -> line -> issues mapping, in
// snapshot order.
type YAMLWriter struct{}

func (y *YAMLWriter) Write(w io.Writer, report *Report) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range report.Issues {
		lines := &yaml.Node{Kind: yaml.MappingNode}
		for _, l := range f.Lines {
			issues := &yaml.Node{}
			if err := issues.Encode(l.Issues); err != nil {
				return fmt.Errorf("encoding YAML: %w", err)
			}
			lines.Content = append(lines.Content, scalar("!!int", strconv.Itoa(l.Line)), issues)
		}
		root.Content = append(root.Content, scalar("!!str", f.Path), lines)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
