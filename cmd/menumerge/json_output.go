package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	formatAuto  = "auto"
	formatTable = "table"
	formatJSON  = "json"
)

func (c *commandContext) validateFormat() error {
	switch c.format() {
	case formatAuto, formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported --format %q (want auto, table, or json)", *c.formatFlag)
	}
}

func (c *commandContext) format() string {
	if c.formatFlag == nil {
		return formatAuto
	}
	value := strings.ToLower(strings.TrimSpace(*c.formatFlag))
	if value == "" {
		return formatAuto
	}
	return value
}

// wantJSON reports whether cmd should emit JSON. An explicit --json wins,
// then --format, then terminal detection on stdout.
func (c *commandContext) wantJSON(cmd *cobra.Command, jsonFlag bool) bool {
	if jsonFlag {
		return true
	}
	switch c.format() {
	case formatJSON:
		return true
	case formatTable:
		return false
	}
	return !isTerminal(cmd.OutOrStdout())
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
