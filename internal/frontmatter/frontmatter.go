// Package frontmatter serializes the YAML front-matter block prefixed to
// every generated page.
//
// Fields are encoded through yaml.Node in a fixed order (title,
// sidebar_label, sidebar_position, description, slug) so repeated runs
// produce byte-identical output.
package frontmatter

import (
	"bytes"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Fields is the front matter emitted on generated pages. Optional fields
// are omitted when unset.
type Fields struct {
	Title           string
	SidebarLabel    string
	SidebarPosition *int
	Description     string
	Slug            string
}

// Encode renders the fields as a ----delimited YAML block, trailing newline
// included.
func (f Fields) Encode() ([]byte, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	addStr := func(key, val string) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val})
	}

	addStr("title", f.Title)
	if f.SidebarLabel != "" {
		addStr("sidebar_label", f.SidebarLabel)
	}
	if f.SidebarPosition != nil {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "sidebar_position"},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(*f.SidebarPosition)})
	}
	if f.Description != "" {
		addStr("description", f.Description)
	}
	if f.Slug != "" {
		addStr("slug", f.Slug)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	return buf.Bytes(), nil
}
