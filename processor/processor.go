/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"io"
	"os"

	"github.com/suparena/metastore/schema"
)

const schemaImport = "github.com/suparena/metastore/schema"

var (
	schemaFlag  = flag.String("schema", "", "field catalogue YAML (default: the embedded catalogue)")
	outFlag     = flag.String("o", "", "output file (default: stdout)")
	packageFlag = flag.String("package", "schema", "package name of the generated file")
)

// Main runs the generator with the command line flags.
func Main() {
	if !flag.Parsed() {
		flag.Parse()
	}
	if err := Run(*schemaFlag, *outFlag, *packageFlag); err != nil {
		fmt.Fprintf(os.Stderr, "fieldgen: %v\n", err)
		os.Exit(1)
	}
}

// Run loads the catalogue at schemaPath (the embedded one when empty) and
// writes the generated identifiers to out (stdout when empty).
func Run(schemaPath, out, pkg string) error {
	reg := schema.Default()
	if schemaPath != "" {
		f, err := os.Open(schemaPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if reg, err = schema.Load(f); err != nil {
			return fmt.Errorf("%s: %w", schemaPath, err)
		}
	}

	var buf bytes.Buffer
	if err := Generate(reg, pkg, &buf); err != nil {
		return err
	}
	if out == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(out, buf.Bytes(), 0o644)
}

// ConstName is the Go identifier generated for a field.
func ConstName(f schema.Field) string {
	return f.Entity + f.Name
}

// Generate renders one FieldID constant per field of reg, grouped by entity
// in declaration order.
func Generate(reg *schema.Registry, pkg string, w io.Writer) error {
	typ := "FieldID"
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by fieldgen. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	if pkg != "schema" {
		typ = "schema.FieldID"
		fmt.Fprintf(&buf, "import %q\n\n", schemaImport)
	}

	buf.WriteString("// Field identifiers of the embedded catalogue.\nconst (\n")
	for i, e := range reg.Entities() {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "\t// %s\n", e.Name)
		for _, f := range reg.FieldsOf(e.Name) {
			fmt.Fprintf(&buf, "\t%s %s = %q\n", ConstName(f), typ, string(f.ID))
		}
	}
	buf.WriteString(")\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format generated code: %w", err)
	}
	_, err = w.Write(src)
	return err
}
