package bridge

import (
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/Neumenon/limpet/limpet"
	"github.com/Neumenon/limpet/stream"
)

// ReadJSONC strips // line comments, /* block comments */, and
// trailing commas from data, then parses the remaining JSON onto c's
// stack. The strict reader rejects all three; this front end accepts
// hand-authored configuration files.
func ReadJSONC(c *limpet.Context, data []byte) error {
	return stream.ReadBytes(c, jsonc.ToJSON(data))
}

// ReadJSONCFile reads a JSONC file from disk onto c's stack.
func ReadJSONCFile(c *limpet.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := ReadJSONC(c, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
