package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes settings and command results as EDN. Keys become kebab-case keywords
// (categoryId -> :category-id), scope names become keywords, and unset optional
// fields are left out of maps instead of printed as nil.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := plain(v)
	if err != nil {
		return err
	}
	p := ednPrinter{pretty: pretty}
	p.value(x, "", 0)
	p.buf.WriteByte('\n')
	_, err = w.Write(p.buf.Bytes())
	return err
}

// keyRank orders map keys the way a reader scans a menu entry: identity, label, state,
// placement, then nested collections. Unranked keys follow alphabetically.
var keyRank = map[string]int{
	"data":          0,
	"error":         1,
	"version":       2,
	"scope":         3,
	"label":         4,
	"id":            5,
	"name":          6,
	"displayName":   7,
	"customName":    8,
	"icon":          9,
	"hidden":        10,
	"expanded":      11,
	"categoryId":    12,
	"order":         13,
	"primaryMenu":   20,
	"secondaryMenu": 21,
	"categories":    22,
	"items":         23,
}

// keywordValues lists keys whose string values are enumerations.
var keywordValues = map[string]bool{
	"scope": true,
	"level": true,
}

type ednPrinter struct {
	buf    bytes.Buffer
	pretty bool
}

func (p *ednPrinter) value(v any, key string, level int) {
	switch t := v.(type) {
	case nil:
		p.buf.WriteString("nil")
	case bool:
		p.buf.WriteString(strconv.FormatBool(t))
	case string:
		if keywordValues[key] && t != "" && !strings.ContainsFunc(t, unicode.IsSpace) {
			p.buf.WriteByte(':')
			p.buf.WriteString(keyword(t))
			return
		}
		p.buf.WriteString(strconv.Quote(t))
	case float64:
		// Orders and counts are integral.
		if t == float64(int64(t)) {
			p.buf.WriteString(strconv.FormatInt(int64(t), 10))
			return
		}
		p.buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		p.open('[', len(t) > 0)
		for i, it := range t {
			p.sep(i, level+1)
			p.value(it, "", level+1)
		}
		p.close(']', len(t) > 0, level)
	case map[string]any:
		keys := presentKeys(t)
		p.open('{', len(keys) > 0)
		for i, k := range keys {
			p.sep(i, level+1)
			p.buf.WriteByte(':')
			p.buf.WriteString(keyword(k))
			p.buf.WriteByte(' ')
			p.value(t[k], k, level+1)
		}
		p.close('}', len(keys) > 0, level)
	default:
		p.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

func (p *ednPrinter) open(c byte, nonEmpty bool) {
	p.buf.WriteByte(c)
	if p.pretty && nonEmpty {
		p.buf.WriteByte('\n')
	}
}

func (p *ednPrinter) sep(i, level int) {
	if p.pretty {
		if i > 0 {
			p.buf.WriteByte('\n')
		}
		p.buf.WriteString(strings.Repeat("  ", level))
		return
	}
	if i > 0 {
		p.buf.WriteByte(' ')
	}
}

func (p *ednPrinter) close(c byte, nonEmpty bool, level int) {
	if p.pretty && nonEmpty {
		p.buf.WriteByte('\n')
		p.buf.WriteString(strings.Repeat("  ", level))
	}
	p.buf.WriteByte(c)
}

// presentKeys drops nil values and sorts the rest by keyRank.
func presentKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := keyRank[keys[i]]
		rj, jok := keyRank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return keys[i] < keys[j]
	})
	return keys
}

// keyword turns a JSON key into a keyword name: camelCase and whitespace become dashes.
func keyword(s string) string {
	var b strings.Builder
	for i, r := range strings.Join(strings.Fields(s), "-") {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
