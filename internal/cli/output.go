package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/pretty"

	"github.com/dshills/rewind/internal/engine"
)

// Errors returned for malformed command input.
var (
	ErrInvalidJSON = errors.New("invalid JSON")
	ErrNoMatch     = errors.New("query matched nothing")
)

func decodeJSON(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return v, nil
}

// printState writes the current state followed by its position.
func (a *app) printState(e *engine.Engine) error {
	data, err := json.Marshal(e.State())
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = fmt.Fprintf(a.out, "%s @%d/%d\n", data, e.Position(), e.Patches().Len())
	return err
}

// writeJSON writes data on one line, or indented when indent is set.
func (a *app) writeJSON(data []byte, indent bool) error {
	if indent {
		_, err := a.out.Write(pretty.Pretty(data))
		return err
	}
	_, err := fmt.Fprintf(a.out, "%s\n", pretty.Ugly(data))
	return err
}
