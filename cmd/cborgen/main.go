// Command cborgen is a small diagnostic and code-generation CLI over
// this repository's CBOR runtime: it renders a document in diagnostic
// notation, and emits named constants for a document's map keys.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/wardleaf/minicbor/cmd/cborgen/internal/gen"
	cbor "github.com/wardleaf/minicbor/runtime"
)

// CLI defines the cborgen command-line interface.
type CLI struct {
	Diag DiagCmd `cmd:"" help:"Render a CBOR document in diagnostic notation."`
	Keys KeysCmd `cmd:"" help:"Generate named constants for a document's map keys."`
}

// DiagCmd implements "cborgen diag <file>".
type DiagCmd struct {
	File string `arg:"" help:"Path to a binary CBOR document."`
}

func (c *DiagCmd) Run() error {
	b, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %q: %w", c.File, err)
	}
	s, _, err := cbor.DiagBytes(b)
	if err != nil {
		return fmt.Errorf("diag %q: %w", c.File, err)
	}
	fmt.Println(s)
	return nil
}

// KeysCmd implements "cborgen keys <file> --package <name>".
type KeysCmd struct {
	File    string `arg:"" help:"Path to a binary CBOR document whose top-level item is a map."`
	Package string `help:"Package name for the generated source." default:"cborkeys"`
	Output  string `short:"o" help:"Output file." default:"keys_gen.go"`
}

func (c *KeysCmd) Run() error {
	b, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %q: %w", c.File, err)
	}
	if got := cbor.NextType(b); got != cbor.MapType {
		return fmt.Errorf("%q: top-level item is %s, not a map", c.File, got)
	}
	v, err := cbor.NewCursor(b).Next()
	if err != nil {
		return fmt.Errorf("decode %q: %w", c.File, err)
	}
	m, err := v.Map()
	if err != nil {
		return fmt.Errorf("%q: top-level item is not a map: %w", c.File, err)
	}

	var keys []string
	cur := m.Iter()
	for {
		k, err := cur.Next()
		if err != nil {
			return fmt.Errorf("decode %q: %w", c.File, err)
		}
		if k.IsEof() {
			break
		}
		val, err := cur.Next()
		if err != nil {
			return fmt.Errorf("decode %q: %w", c.File, err)
		}
		_ = val
		if s, err := k.Text(); err == nil {
			keys = append(keys, s)
		}
	}

	src, err := gen.RenderKeyConstants(c.Package, keys)
	if err != nil {
		return fmt.Errorf("render keys: %w", err)
	}
	if err := os.WriteFile(c.Output, src, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", c.Output, err)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cborgen"),
		kong.Description("Inspect and generate supporting code for CBOR documents."),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
