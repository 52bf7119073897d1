// Package display holds output helpers shared by the CLI commands.
package display

import (
	"encoding/json"
	"os"

	"golang.org/x/term"
)

// MarshalJSON marshals with pretty formatting when stdout is a terminal and
// compact formatting when piped, so downstream tools get one object per
// write.
func MarshalJSON(v interface{}) ([]byte, error) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
