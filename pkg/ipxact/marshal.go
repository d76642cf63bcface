package ipxact

import (
	"os"

	"github.com/busmap/sv2ipxact/pkg/corerr"
)

// Bytes marshals the document to its on-the-wire form: an XML declaration
// followed by the indented component tree. Two calls on the same document
// return identical bytes.
func (d *Document) Bytes() ([]byte, error) {
	data, err := d.render()
	if err != nil {
		return nil, corerr.Wrap(corerr.OutputIoError, "marshal component document", err)
	}
	return data, nil
}

// WriteFile marshals the document and writes it to path. Write failures
// are fatal to the run (spec §7).
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return corerr.Wrap(corerr.OutputIoError, "write "+path, err)
	}
	return nil
}
