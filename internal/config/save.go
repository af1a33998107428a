package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveSidebarOrder persists the sidebar section order into the config
// file, preserving comments and formatting in other sections by editing
// the yaml.Node tree in place.
func SaveSidebarOrder(configPath string, order []string) error {
	if err := ValidateSidebarOrder(order); err != nil {
		return err
	}
	return saveUIKey(configPath, "sidebar_order", stringSequenceNode(order))
}

// SavePinnedLists persists the pinned list names into the config file.
func SavePinnedLists(configPath string, names []string) error {
	return saveUIKey(configPath, "pinned_lists", stringSequenceNode(names))
}

// saveUIKey replaces one key under the ui mapping, creating the mapping
// and the document as needed, then writes the file atomically.
func saveUIKey(configPath, key string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is the user's config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		// Empty or new file
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{Kind: yaml.MappingNode},
			},
		}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	ui := findOrAppendMapping(root, "ui")
	setMappingKey(ui, key, value)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeFileAtomic(configPath, buf.Bytes())
}

// findOrAppendMapping returns the mapping node stored under key in root,
// appending an empty mapping if the key is absent.
func findOrAppendMapping(root *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			if root.Content[i+1].Kind != yaml.MappingNode {
				root.Content[i+1] = &yaml.Node{Kind: yaml.MappingNode}
			}
			return root.Content[i+1]
		}
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		mapping,
	)
	return mapping
}

// setMappingKey replaces or appends key in the mapping.
func setMappingKey(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

func stringSequenceNode(values []string) *yaml.Node {
	node := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Content: make([]*yaml.Node, 0, len(values)),
	}
	for _, v := range values {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: v})
	}
	return node
}

// writeFileAtomic writes to a temp file in the same directory, then
// renames it over the destination.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".tiddly.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// MoveSection shifts a section one step up or down in the order and
// saves. Out-of-range moves are no-ops.
func MoveSection(configPath string, order []string, index, delta int) error {
	target := index + delta
	if index < 0 || index >= len(order) || target < 0 || target >= len(order) {
		return nil
	}

	updated := make([]string, len(order))
	copy(updated, order)
	updated[index], updated[target] = updated[target], updated[index]

	return SaveSidebarOrder(configPath, updated)
}
