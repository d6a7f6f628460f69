package manifest

import "gopkg.in/yaml.v3"

// Helpers for editing a decoded yaml.Node tree in place. The node API
// keeps ordering, styles and comments of untouched entries intact across
// a decode/encode round trip, which is what lets the generator rewrite
// one table without disturbing the rest of the manifest.

// rootMapping returns the top-level mapping of a document node, creating
// it when the document is empty or null.
func rootMapping(doc *yaml.Node) (*yaml.Node, error) {
	if len(doc.Content) == 0 {
		root := newMapping()
		doc.Content = append(doc.Content, root)
		return root, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		root = newMapping()
		doc.Content[0] = root
		return root, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &MalformedManifestError{Detail: "manifest root is not a mapping"}
	}
	return root, nil
}

// mappingGet returns the key and value nodes for key, or nil, nil when
// the key is absent.
func mappingGet(m *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i], m.Content[i+1]
		}
	}
	return nil, nil
}

// mappingSet overwrites the value for key, appending a new entry when the
// key is absent. On overwrite any line comment the decoder attached to
// the key node is dropped so it cannot duplicate the value's comment.
func mappingSet(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i].LineComment = ""
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, newStringScalar(key), value)
}

func mappingDelete(m *yaml.Node, key string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return
		}
	}
}

// entryLineComment returns the trailing comment of one mapping entry.
// The yaml.v3 decoder attaches it to either the value or the key node
// depending on the value's shape, so both are consulted.
func entryLineComment(key, value *yaml.Node) string {
	if value.LineComment != "" {
		return value.LineComment
	}
	return key.LineComment
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func newStringScalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// newFlowSequence builds an inline array node, e.g. [a, b/c].
func newFlowSequence(items []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, item := range items {
		seq.Content = append(seq.Content, newStringScalar(item))
	}
	return seq
}
