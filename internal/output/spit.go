// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/staranto/fcache/internal/cache"
	"github.com/staranto/fcache/internal/config"
)

// Formats are the accepted --output values.
var Formats = []string{"text", "json", "raw", "yaml"}

// Query narrows v to the gjson path query. An empty query returns v as is.
func Query(v any, query string) (any, error) {
	if query == "" {
		return v, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	r := gjson.GetBytes(b, query)
	if !r.Exists() {
		return nil, fmt.Errorf("query %q matched nothing", query)
	}
	return r.Value(), nil
}

// Value writes v to w in format.
func Value(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "raw":
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		s, err := InterfaceToString(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	}
}

// InterfaceToString prints scalars bare and everything else as indented JSON.
func InterfaceToString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "null", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// Stats writes st to w. Text output is a two column table.
func Stats(w io.Writer, st cache.Stats, format string, color bool) error {
	if format != "text" {
		return Value(w, st, format)
	}

	rows := [][]string{
		{"total files", strconv.Itoa(st.TotalFiles)},
		{"valid", strconv.Itoa(st.ValidFiles)},
		{"expired", strconv.Itoa(st.ExpiredFiles)},
		{"invalid", strconv.Itoa(st.InvalidFiles)},
		{"size", humanize.Bytes(uint64(max(st.TotalSize, 0)))},
		{"memory entries", strconv.Itoa(st.MemoryEntries)},
	}
	_, err := fmt.Fprintln(w, Table(rows, nil, color))
	return err
}

// Table renders rows with optional headers using the borderless style used for
// all text output.
func Table(rows [][]string, headers []string, color bool) *table.Table {
	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 2) //nolint:mnd
	log.Debugf("padding: %v", pad)

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if len(headers) > 0 {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	return t
}

// DumpExamples renders a table of example command usages.
func DumpExamples(w io.Writer, examples [][2]string) {
	if len(examples) == 0 {
		return
	}
	var rows [][]string
	for _, ex := range examples {
		rows = append(rows, []string{ex[0], ex[1]})
	}
	fmt.Fprintln(w, Table(rows, []string{"Command", "Description"}, false))
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}
