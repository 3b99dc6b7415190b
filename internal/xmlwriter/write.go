package xmlwriter

import "os"

// WriteFile writes data to path, which Build already produced as UTF-8
// without a byte-order mark (spec.md §4.8 "File written in UTF-8 without
// BOM").
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
