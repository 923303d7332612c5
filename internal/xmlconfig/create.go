package xmlconfig

import (
	"os"

	"github.com/beevik/etree"
	"github.com/spf13/afero"

	"filament/internal/principal"
)

// tagRoot names the document element written by Create. Load accepts any root.
const tagRoot = "FilamentServer"

// Create writes an empty registry document to path with owner-only
// permissions. It fails if path already exists.
func Create(fs afero.Fs, path string) error {
	if path == "" {
		return principal.Errorf(principal.InvalidArgument, "configuration file path is required")
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(tagRoot)
	root.CreateElement(tagGroups)
	root.CreateElement(tagUsers)
	indent(doc)

	f, err := fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return principal.Wrap(principal.AccessFailure, err, "creating configuration file")
	}
	if _, err := doc.WriteTo(f); err != nil {
		_ = f.Close()
		return principal.Wrap(principal.AccessFailure, err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		return principal.Wrap(principal.AccessFailure, err, "closing %s", path)
	}
	return nil
}
