// docconv converts a document between wire formats on stdin/stdout.
//
// Usage:
//
//	docconv -from json|jsonc|yaml|cbor -to json|yaml|cbor [-pretty]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	serial "github.com/bridgekit/serial"
	cborwire "github.com/bridgekit/serial/wire/cbor"
	yamlwire "github.com/bridgekit/serial/wire/yaml"
)

func main() {
	var from, to string
	var pretty bool
	flag.StringVar(&from, "from", "json", "input format: json, jsonc, yaml, cbor")
	flag.StringVar(&to, "to", "json", "output format: json, yaml, cbor")
	flag.BoolVar(&pretty, "pretty", false, "indent JSON output")
	flag.Parse()

	if err := run(from, to, pretty, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "docconv:", err)
		os.Exit(1)
	}
}

func run(from, to string, pretty bool, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	var doc serial.Value
	switch from {
	case "json":
		doc, err = serial.ValueFromJSON(data)
	case "jsonc":
		doc, err = serial.ValueFromJSONC(data)
	case "yaml":
		doc, err = yamlwire.Decode(data)
	case "cbor":
		doc, err = cborwire.Decode(data)
	default:
		return fmt.Errorf("unknown input format %q", from)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", from, err)
	}

	var rendered []byte
	switch to {
	case "json":
		if pretty {
			rendered, err = serial.ValueToJSONIndent(doc, "", "  ")
			if err == nil {
				rendered = append(rendered, '\n')
			}
		} else {
			rendered, err = serial.ValueToJSON(doc)
			if err == nil {
				rendered = append(rendered, '\n')
			}
		}
	case "yaml":
		rendered, err = yamlwire.Encode(doc)
	case "cbor":
		rendered, err = cborwire.Encode(doc)
	default:
		return fmt.Errorf("unknown output format %q", to)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", to, err)
	}

	_, err = out.Write(rendered)
	return err
}
