package markup

import (
	"fmt"
	"regexp"
	"strings"
)

// markup syntax used inside subtitle texts
type Dialect int

const (
	None Dialect = iota
	SubRip
	WebVTT
	SSA
	MicroDVD
)

func (d Dialect) String() string {
	switch d {
	case None:
		return "none"
	case SubRip:
		return "subrip"
	case WebVTT:
		return "webvtt"
	case SSA:
		return "ssa"
	case MicroDVD:
		return "microdvd"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// styles every dialect can express in some form
var styles = []string{"i", "b", "u"}

var (
	htmlTagRegex      = regexp.MustCompile(`<(/?)([a-zA-Z]*)[^>]*>`)
	canonicalTagRegex = regexp.MustCompile(`<(/?)([ibu])>`)
	ssaBlockRegex     = regexp.MustCompile(`\{([^}]*)\}`)
	ssaStyleRegex     = regexp.MustCompile(`\\([ibu])(\d+)`)
	microDVDCodeRegex = regexp.MustCompile(`^\{([a-zA-Z]):([^}]*)\}`)
)

// converts text between dialects, returning it unchanged when they match
//
// Conversion passes through a reduced form holding only italic, bold and
// underline tags; anything else the target cannot express is dropped.
func Convert(text string, from, to Dialect) string {
	if from == to || text == "" {
		return text
	}
	return encode(decode(text, from), to)
}

// removes all markup of the dialect
func Strip(text string, d Dialect) string {
	return encode(decode(text, d), None)
}

func decode(text string, d Dialect) string {
	switch d {
	case SubRip, WebVTT:
		return decodeHTML(text)
	case SSA:
		return decodeSSA(text)
	case MicroDVD:
		return decodeMicroDVD(text)
	default:
		return text
	}
}

func encode(text string, d Dialect) string {
	switch d {
	case SubRip, WebVTT:
		return text
	case SSA:
		return canonicalTagRegex.ReplaceAllStringFunc(text, func(tag string) string {
			m := canonicalTagRegex.FindStringSubmatch(tag)
			if m[1] == "/" {
				return `{\` + m[2] + "0}"
			}
			return `{\` + m[2] + "1}"
		})
	case MicroDVD:
		return encodeMicroDVD(text)
	default:
		return canonicalTagRegex.ReplaceAllString(text, "")
	}
}

func decodeHTML(text string) string {
	return htmlTagRegex.ReplaceAllStringFunc(text, func(tag string) string {
		m := htmlTagRegex.FindStringSubmatch(tag)
		name := strings.ToLower(m[2])
		if !isStyle(name) {
			return ""
		}
		return "<" + m[1] + name + ">"
	})
}

func decodeSSA(text string) string {
	return ssaBlockRegex.ReplaceAllStringFunc(text, func(block string) string {
		var sb strings.Builder
		for _, m := range ssaStyleRegex.FindAllStringSubmatch(block, -1) {
			if m[2] == "0" {
				sb.WriteString("</" + m[1] + ">")
			} else {
				sb.WriteString("<" + m[1] + ">")
			}
		}
		return sb.String()
	})
}

// line-level codes: {y:i} for one line, {Y:i} for the rest of the text and a
// leading slash as shorthand for italic
func decodeMicroDVD(text string) string {
	lines := strings.Split(text, "\n")
	sticky := ""
	for i, line := range lines {
		local := sticky
		for {
			if strings.HasPrefix(line, "/") {
				local += "i"
				line = line[1:]
				continue
			}
			m := microDVDCodeRegex.FindStringSubmatch(line)
			if m == nil {
				break
			}
			line = line[len(m[0]):]
			switch m[1] {
			case "y":
				local += strings.ToLower(m[2])
			case "Y":
				local += strings.ToLower(m[2])
				sticky += strings.ToLower(m[2])
			}
		}
		lines[i] = wrap(line, local)
	}
	return strings.Join(lines, "\n")
}

func wrap(line, flags string) string {
	if line == "" {
		return line
	}
	var open, close string
	for _, s := range styles {
		if strings.Contains(flags, s) {
			open += "<" + s + ">"
			close = "</" + s + ">" + close
		}
	}
	return open + line + close
}

// styles covering a whole line become line codes, partial ones are dropped
func encodeMicroDVD(text string) string {
	active := map[string]bool{}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		covered := map[string]bool{"i": true, "b": true, "u": true}
		hasText := false
		var plain strings.Builder
		last := 0
		for _, loc := range canonicalTagRegex.FindAllStringSubmatchIndex(line, -1) {
			if run := line[last:loc[0]]; run != "" {
				hasText = true
				markCovered(covered, active)
				plain.WriteString(run)
			}
			active[line[loc[4]:loc[5]]] = loc[3] == loc[2]
			last = loc[1]
		}
		if run := line[last:]; run != "" {
			hasText = true
			markCovered(covered, active)
			plain.WriteString(run)
		}
		prefix := ""
		if hasText {
			for _, s := range styles {
				if covered[s] {
					prefix += "{y:" + s + "}"
				}
			}
		}
		lines[i] = prefix + plain.String()
	}
	return strings.Join(lines, "\n")
}

func markCovered(covered, active map[string]bool) {
	for _, s := range styles {
		if !active[s] {
			covered[s] = false
		}
	}
}

func isStyle(name string) bool {
	for _, s := range styles {
		if s == name {
			return true
		}
	}
	return false
}
