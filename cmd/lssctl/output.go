package main

import (
	"encoding/json"
	"fmt"
)

// printJSON writes v as indented JSON to stdout, the uniform output shape
// for every subcommand so scripting around lssctl only needs a JSON parser.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
