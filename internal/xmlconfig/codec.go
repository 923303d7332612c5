// Package xmlconfig stores the principal registry in a single XML document.
//
// The document is loaded into an in-memory tree owned by a Provider; edits are
// flushed back to the file as a whole on Commit. The codec in this package maps
// that tree to and from the principal model.
package xmlconfig

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Element and attribute names of the persisted document.
const (
	tagGroups      = "Groups"
	tagGroup       = "Group"
	tagUsers       = "Users"
	tagUser        = "User"
	tagOption      = "Option"
	tagIPFilter    = "IpFilter"
	tagDisallowed  = "Disallowed"
	tagAllowed     = "Allowed"
	tagIP          = "IP"
	tagPermissions = "Permissions"
	tagPermission  = "Permission"
	tagAliases     = "Aliases"
	tagAlias       = "Alias"
	tagSpeedLimits = "SpeedLimits"
	tagDownload    = "Download"
	tagUpload      = "Upload"
	tagRule        = "Rule"
	tagDays        = "Days"
	tagDate        = "Date"
	tagFrom        = "From"
	tagTo          = "To"

	attrName = "Name"
	attrDir  = "Dir"
)

// indent formats doc for writing. Whitespace-only leaf text is data and
// is left alone.
func indent(doc *etree.Document) {
	s := etree.NewIndentSettings()
	s.Spaces = 2
	s.PreserveLeafWhitespace = true
	doc.IndentWithSettings(s)
}

// parseBool accepts "1"/"0" and the usual true/false spellings.
// Anything else, including a missing value, yields def.
func parseBool(text string, def bool) bool {
	text = strings.TrimSpace(text)
	switch {
	case text == "1":
		return true
	case text == "0":
		return false
	case strings.EqualFold(text, "true"):
		return true
	case strings.EqualFold(text, "false"):
		return false
	}
	if v, err := strconv.ParseBool(text); err == nil {
		return v
	}
	return def
}

// formatBool always writes the numeric form so output does not depend on locale.
func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// parseInt returns 0 for missing or unparseable text.
func parseInt(text string) int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return v
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

// addOption appends <Option Name="name">value</Option>.
func addOption(el *etree.Element, name, value string) *etree.Element {
	opt := el.CreateElement(tagOption)
	opt.CreateAttr(attrName, name)
	opt.SetText(value)
	return opt
}

// addLeaf appends <tag>text</tag>.
func addLeaf(el *etree.Element, tag, text string) *etree.Element {
	leaf := el.CreateElement(tag)
	leaf.SetText(text)
	return leaf
}

// optionName returns the Name attribute of an Option element.
func optionName(el *etree.Element) string {
	return el.SelectAttrValue(attrName, "")
}

// attrInt reads an integer attribute, 0 when absent or malformed.
func attrInt(el *etree.Element, key string) int {
	return parseInt(el.SelectAttrValue(key, ""))
}
