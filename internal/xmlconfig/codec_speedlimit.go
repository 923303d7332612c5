package xmlconfig

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"filament/internal/principal"
)

// SpeedLimits attributes. The upload names have legacy spellings that are
// still accepted on read.
const (
	attrDlType     = "DlType"
	attrDlLimit    = "DlLimit"
	attrDlBypass   = "ServerDlLimitBypass"
	attrUlType     = "UlType"
	attrUlLimit    = "ULimit"
	attrUlBypass   = "ServerULimitBypass"
	attrSpeed      = "Speed"
	attrYear       = "Year"
	attrMonth      = "Month"
	attrDay        = "Day"
	attrHour       = "Hour"
	attrMinute     = "Minute"
	attrSecond     = "Second"
	legacyUlLimit  = "UlLimit"
	legacyUlBypass = "ServerUlLimitBypass"
)

func encodeSpeedLimits(el *etree.Element, l principal.SpeedLimits) {
	el.CreateAttr(attrDlType, formatInt(int(l.Download.Type)))
	if l.Download.ConstantLimit != nil {
		el.CreateAttr(attrDlLimit, formatInt(*l.Download.ConstantLimit))
	}
	el.CreateAttr(attrDlBypass, formatBool(l.Download.OverrideServerLimit))
	el.CreateAttr(attrUlType, formatInt(int(l.Upload.Type)))
	if l.Upload.ConstantLimit != nil {
		el.CreateAttr(attrUlLimit, formatInt(*l.Upload.ConstantLimit))
	}
	el.CreateAttr(attrUlBypass, formatBool(l.Upload.OverrideServerLimit))

	encodeRules(el.CreateElement(tagDownload), l.Download.Rules)
	encodeRules(el.CreateElement(tagUpload), l.Upload.Rules)
}

func decodeSpeedLimits(el *etree.Element) (principal.SpeedLimits, error) {
	var (
		l   principal.SpeedLimits
		err error
	)
	for _, a := range el.Attr {
		switch a.Key {
		case attrDlType:
			l.Download.Type, err = parseSpeedLimitType(a.Key, a.Value)
		case attrDlLimit:
			l.Download.ConstantLimit = parseOptionalInt(a.Value)
		case attrDlBypass:
			l.Download.OverrideServerLimit = parseBool(a.Value, false)
		case attrUlType:
			l.Upload.Type, err = parseSpeedLimitType(a.Key, a.Value)
		case attrUlLimit, legacyUlLimit:
			l.Upload.ConstantLimit = parseOptionalInt(a.Value)
		case attrUlBypass, legacyUlBypass:
			l.Upload.OverrideServerLimit = parseBool(a.Value, false)
		}
		if err != nil {
			return principal.SpeedLimits{}, err
		}
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case tagDownload:
			l.Download.Rules = decodeRules(child)
		case tagUpload:
			l.Upload.Rules = decodeRules(child)
		}
	}
	return l, nil
}

func parseSpeedLimitType(key, v string) (principal.SpeedLimitType, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, principal.Errorf(principal.SchemaViolation, "%s %q is not a number", key, v)
	}
	t := principal.SpeedLimitType(n)
	if !t.Valid() {
		return 0, principal.Errorf(principal.SchemaViolation, "%s %d is not a known speed limit type", key, n)
	}
	return t, nil
}

// parseOptionalInt returns nil for an empty or malformed limit.
func parseOptionalInt(v string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &n
}

func encodeRules(el *etree.Element, rules []principal.SpeedLimitRule) {
	for _, r := range rules {
		encodeRule(el.CreateElement(tagRule), r)
	}
}

func decodeRules(el *etree.Element) []principal.SpeedLimitRule {
	var rules []principal.SpeedLimitRule
	for _, child := range el.SelectElements(tagRule) {
		rules = append(rules, decodeRule(child))
	}
	return rules
}

func encodeRule(el *etree.Element, r principal.SpeedLimitRule) {
	el.CreateAttr(attrSpeed, formatInt(r.Speed))
	if r.Days != 0 {
		addLeaf(el, tagDays, formatInt(int(r.Days)))
	}
	if r.Date != nil {
		d := el.CreateElement(tagDate)
		d.CreateAttr(attrYear, formatInt(r.Date.Year))
		d.CreateAttr(attrMonth, formatInt(int(r.Date.Month)))
		d.CreateAttr(attrDay, formatInt(r.Date.Day))
	}
	encodeTimeOfDay(el.CreateElement(tagFrom), r.Period.Start)
	encodeTimeOfDay(el.CreateElement(tagTo), r.Period.End)
}

func decodeRule(el *etree.Element) principal.SpeedLimitRule {
	r := principal.SpeedLimitRule{Speed: attrInt(el, attrSpeed)}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case tagDays:
			if v, err := strconv.ParseUint(strings.TrimSpace(child.Text()), 10, 8); err == nil {
				r.Days = principal.DaysOfWeek(v)
			}
		case tagDate:
			r.Date = &principal.Date{
				Year:  attrInt(child, attrYear),
				Month: time.Month(attrInt(child, attrMonth)),
				Day:   attrInt(child, attrDay),
			}
		case tagFrom:
			r.Period.Start = decodeTimeOfDay(child)
		case tagTo:
			r.Period.End = decodeTimeOfDay(child)
		}
	}
	return r
}

func encodeTimeOfDay(el *etree.Element, d time.Duration) {
	el.CreateAttr(attrHour, formatInt(int(d/time.Hour)))
	el.CreateAttr(attrMinute, formatInt(int(d%time.Hour/time.Minute)))
	el.CreateAttr(attrSecond, formatInt(int(d%time.Minute/time.Second)))
}

func decodeTimeOfDay(el *etree.Element) time.Duration {
	return time.Duration(attrInt(el, attrHour))*time.Hour +
		time.Duration(attrInt(el, attrMinute))*time.Minute +
		time.Duration(attrInt(el, attrSecond))*time.Second
}
