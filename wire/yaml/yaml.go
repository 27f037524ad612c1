// Package yaml converts between YAML text and document values, preserving
// mapping key order in both directions. Bridge deployments commonly keep
// registration and config documents in YAML while the protocol itself speaks
// JSON.
package yaml

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	serial "github.com/bridgekit/serial"
)

// Decode parses YAML text into a document value.
func Decode(data []byte) (serial.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return serial.Value{}, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return serial.Null(), nil
	}
	return fromNode(root.Content[0])
}

// Encode renders a document value as YAML text, emitting mapping keys in
// insertion order.
func Encode(v serial.Value) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func fromNode(n *yaml.Node) (serial.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return serial.Null(), nil
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return serial.Value{}, fmt.Errorf("line %d: invalid bool %q", n.Line, n.Value)
			}
			return serial.Bool(b), nil
		case "!!int":
			i, err := strconv.ParseInt(n.Value, 0, 64)
			if err != nil {
				return serial.Value{}, fmt.Errorf("line %d: invalid integer %q", n.Line, n.Value)
			}
			return serial.Int(i), nil
		case "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return serial.Value{}, fmt.Errorf("line %d: invalid float %q", n.Line, n.Value)
			}
			return serial.Float(f), nil
		default:
			return serial.String(n.Value), nil
		}
	case yaml.SequenceNode:
		items := make([]serial.Value, len(n.Content))
		for i, c := range n.Content {
			item, err := fromNode(c)
			if err != nil {
				return serial.Value{}, err
			}
			items[i] = item
		}
		return serial.List(items...), nil
	case yaml.MappingNode:
		m := serial.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return serial.Value{}, fmt.Errorf("line %d: non-scalar mapping key", keyNode.Line)
			}
			val, err := fromNode(valNode)
			if err != nil {
				return serial.Value{}, err
			}
			m.Set(keyNode.Value, val)
		}
		return serial.Object(m), nil
	case yaml.AliasNode:
		return fromNode(n.Alias)
	default:
		return serial.Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func toNode(v serial.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case serial.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case serial.KindBool:
		b, _ := v.Bool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	case serial.KindNumber:
		text, _ := v.NumberText()
		tag := "!!float"
		if _, err := strconv.ParseInt(text, 10, 64); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}, nil
	case serial.KindString:
		s, _ := v.Str()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}, nil
	case serial.KindList:
		items, _ := v.Items()
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range items {
			c, err := toNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, c)
		}
		return node, nil
	case serial.KindMap:
		m, _ := v.Obj()
		node := &yaml.Node{Kind: yaml.MappingNode}
		var nerr error
		m.Range(func(k string, item serial.Value) bool {
			c, err := toNode(item)
			if err != nil {
				nerr = err
				return false
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, c)
			return true
		})
		if nerr != nil {
			return nil, nerr
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %s", v.Kind())
	}
}
