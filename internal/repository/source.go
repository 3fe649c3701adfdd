package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aliskhannn/ayurbot/assets"
)

// readJSON decodes the file at path into v. An empty path falls back to the
// embedded asset with the given name.
func readJSON(path, embedded string, v any) error {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = assets.Read(embedded)
	}
	if err != nil {
		return err
	}

	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", embedded, err)
	}

	return nil
}
