package xmlconfig

import (
	"strings"

	"github.com/beevik/etree"

	"filament/internal/principal"
)

// Option names inside a Permission element.
const (
	optFileRead   = "FileRead"
	optFileWrite  = "FileWrite"
	optFileDelete = "FileDelete"
	optFileAppend = "FileAppend"
	optDirCreate  = "DirCreate"
	optDirDelete  = "DirDelete"
	optDirList    = "DirList"
	optDirSubDirs = "DirSubDirs"
	optIsHome     = "IsHome"
	optAutoCreate = "AutoCreate"

	legacyDirRead    = "DirRead"
	legacyDirSubdirs = "DirSubdirs"
)

// encodeDirectory fills a Permission element. The alias is written only for
// non-home directories.
func encodeDirectory(el *etree.Element, d principal.Directory, alias string, isHome bool) {
	el.CreateAttr(attrDir, d.Path)
	addOption(el, optFileRead, formatBool(d.Files.Read))
	addOption(el, optFileWrite, formatBool(d.Files.Write))
	addOption(el, optFileDelete, formatBool(d.Files.Delete))
	addOption(el, optFileAppend, formatBool(d.Files.Append))
	addOption(el, optDirCreate, formatBool(d.Folders.Create))
	addOption(el, optDirDelete, formatBool(d.Folders.Delete))
	addOption(el, optDirList, formatBool(d.Folders.List))
	addOption(el, optDirSubDirs, formatBool(d.Folders.Subdirectories))
	addOption(el, optIsHome, formatBool(isHome))
	addOption(el, optAutoCreate, formatBool(d.AutoCreate))
	if !isHome {
		addLeaf(el.CreateElement(tagAliases), tagAlias, alias)
	}
}

// decodeDirectory reads a Permission element. It reports whether the element
// is marked as the home directory and leaves placement to the caller.
func decodeDirectory(el *etree.Element) (principal.VirtualDirectory, bool, error) {
	var (
		vd     principal.VirtualDirectory
		isHome bool
	)
	vd.Path = el.SelectAttrValue(attrDir, "")
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case tagOption:
			v := child.Text()
			switch optionName(child) {
			case optFileRead:
				vd.Files.Read = parseBool(v, false)
			case optFileWrite:
				vd.Files.Write = parseBool(v, false)
			case optFileDelete:
				vd.Files.Delete = parseBool(v, false)
			case optFileAppend:
				vd.Files.Append = parseBool(v, false)
			case optDirCreate:
				vd.Folders.Create = parseBool(v, false)
			case optDirDelete:
				vd.Folders.Delete = parseBool(v, false)
			case optDirList, legacyDirRead:
				vd.Folders.List = parseBool(v, false)
			case optDirSubDirs, legacyDirSubdirs:
				vd.Folders.Subdirectories = parseBool(v, false)
			case optIsHome:
				isHome = parseBool(v, false)
			case optAutoCreate:
				vd.AutoCreate = parseBool(v, false)
			}
		case tagAliases:
			if a := child.SelectElement(tagAlias); a != nil {
				vd.Alias = a.Text()
			}
		}
	}
	if isHome {
		vd.Alias = ""
		return vd, true, nil
	}
	if strings.TrimSpace(vd.Alias) == "" {
		return vd, false, principal.Errorf(principal.SchemaViolation, "directory %q has no alias", vd.Path)
	}
	return vd, false, nil
}

// encodePermissions writes the home directory first, then the virtual
// directories in order.
func encodePermissions(el *etree.Element, home principal.Directory, virtual []principal.VirtualDirectory) {
	encodeDirectory(el.CreateElement(tagPermission), home, "", true)
	for _, vd := range virtual {
		encodeDirectory(el.CreateElement(tagPermission), vd.Directory, vd.Alias, false)
	}
}

func decodePermissions(el *etree.Element, home *principal.Directory, virtual *[]principal.VirtualDirectory) error {
	for _, child := range el.SelectElements(tagPermission) {
		vd, isHome, err := decodeDirectory(child)
		if err != nil {
			return err
		}
		if isHome {
			*home = vd.Directory
			continue
		}
		*virtual = append(*virtual, vd)
	}
	return nil
}
