package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

func validateOutputFormat(outputFormat string) error {
	switch strings.ToLower(outputFormat) {
	case "table":
	case "yaml":
	case "json":
	default:
		return errors.Errorf("unknown output format %q", outputFormat)
	}
	return nil
}

// printStructured writes obj as yaml or json. It reports false for the table
// format, which callers render themselves.
func printStructured(
	w io.Writer,
	outputFormat string,
	obj interface{},
	operation string,
) (bool, error) {
	switch strings.ToLower(outputFormat) {
	case "yaml":
		yamlBytes, err := yaml.Marshal(obj)
		if err != nil {
			return true, errors.Wrapf(
				err,
				"error formatting output from %s operation",
				operation,
			)
		}
		fmt.Fprint(w, string(yamlBytes))
		return true, nil
	case "json":
		prettyJSON, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return true, errors.Wrapf(
				err,
				"error formatting output from %s operation",
				operation,
			)
		}
		fmt.Fprintln(w, string(prettyJSON))
		return true, nil
	}
	return false, nil
}
