// Package gen renders a small Go source file of named constants for the
// text-string keys found in a decoded CBOR map, using a text/template
// plus golang.org/x/tools/imports pipeline.
package gen

import (
	"bytes"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/tools/imports"
)

type keyConst struct {
	Ident   string
	Literal string
}

var keysTemplate = template.Must(template.New("keys").Parse(`// Code generated by cborgen keys. DO NOT EDIT.

package {{.Package}}

// Key name constants for the document's top-level map keys.
const (
{{- range .Keys}}
	{{.Ident}} = {{.Literal}}
{{- end}}
)
`))

// RenderKeyConstants renders a Go source file in package pkg containing
// one exported constant per distinct key in keys, formatted and
// import-resolved before being returned. If import resolution fails, the
// gofmt-formatted source is returned instead, or the raw template output
// if formatting fails too.
func RenderKeyConstants(pkg string, keys []string) ([]byte, error) {
	seen := make(map[string]bool, len(keys))
	consts := make([]keyConst, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		consts = append(consts, keyConst{Ident: identFor(k), Literal: strconv.Quote(k)})
	}
	sort.Slice(consts, func(i, j int) bool { return consts[i].Ident < consts[j].Ident })

	var buf bytes.Buffer
	data := struct {
		Package string
		Keys    []keyConst
	}{Package: pkg, Keys: consts}
	if err := keysTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}

	out, err := imports.Process("keys_gen.go", buf.Bytes(), nil)
	if err != nil {
		if formatted, ferr := format.Source(buf.Bytes()); ferr == nil {
			return formatted, nil
		}
		return buf.Bytes(), nil
	}
	return out, nil
}

// identFor turns a CBOR map key into an exported Go identifier of the
// form "KeyCamelCase", stripping characters that are not valid in a Go
// identifier and capitalizing each word boundary.
func identFor(key string) string {
	var sb strings.Builder
	sb.WriteString("Key")
	upperNext := true
	for _, r := range key {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upperNext {
				sb.WriteRune(unicode.ToUpper(r))
				upperNext = false
			} else {
				sb.WriteRune(r)
			}
		default:
			upperNext = true
		}
	}
	if sb.Len() == len("Key") {
		return "KeyEmpty"
	}
	return sb.String()
}
