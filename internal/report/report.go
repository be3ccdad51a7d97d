// Package report renders the outcome of a production run for people and for
// machines.
package report

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/vk/forgegrid/internal/executor"
)

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Document is the serialisable form of a run result.
type Document struct {
	Log            []LogLine  `json:"log"`
	Stock          []Stock    `json:"stock"`
	Buildings      []Building `json:"buildings"`
	CompletionTime int        `json:"completion_time"`
}

// LogLine is one production.
type LogLine struct {
	StartTime int    `json:"start_time"`
	Building  string `json:"building"`
	Recipe    string `json:"recipe"`
}

// Stock is a product left in inventory.
type Stock struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// Building is a building's final simulated clock.
type Building struct {
	Name      string `json:"name"`
	Project   string `json:"project"`
	StartTime int    `json:"start_time"`
	EndTime   int    `json:"end_time"`
}

// Build converts a result into a Document. Products that ran out are left
// out of the stock list.
func Build(res *executor.Result) Document {
	doc := Document{
		Log:            make([]LogLine, 0, len(res.Log)),
		Stock:          make([]Stock, 0, len(res.Inventory)),
		Buildings:      make([]Building, 0, len(res.Buildings)),
		CompletionTime: res.CompletionTime,
	}
	for _, e := range res.Log {
		doc.Log = append(doc.Log, LogLine{StartTime: e.StartTime, Building: e.Building, Recipe: e.Recipe})
	}
	for _, it := range res.Inventory {
		if it.Quantity <= 0 {
			continue
		}
		doc.Stock = append(doc.Stock, Stock{Product: it.ID, Quantity: it.Quantity})
	}
	for _, b := range res.Buildings {
		doc.Buildings = append(doc.Buildings, Building{
			Name:      b.Name,
			Project:   b.Project,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})
	}
	return doc
}

// Write renders res to w in the given format.
func Write(w io.Writer, format string, res *executor.Result) error {
	doc := Build(res)
	switch strings.ToLower(format) {
	case "", FormatText:
		return writeText(w, doc)
	case FormatJSON:
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, doc Document) error {
	var sb strings.Builder

	sb.WriteString("Production log:\n")
	if len(doc.Log) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, l := range doc.Log {
		fmt.Fprintf(&sb, "%d:%s:%s\n", l.StartTime, l.Building, l.Recipe)
	}

	sb.WriteString("\nStock:\n")
	if len(doc.Stock) == 0 {
		sb.WriteString("  (empty)\n")
	}
	for _, s := range doc.Stock {
		fmt.Fprintf(&sb, "  %s: %d\n", s.Product, s.Quantity)
	}

	sb.WriteString("\nBuildings:\n")
	for _, b := range doc.Buildings {
		fmt.Fprintf(&sb, "  %s (%s): %d\n", b.Name, b.Project, b.StartTime)
	}

	fmt.Fprintf(&sb, "\nCompletion time: %d\n", doc.CompletionTime)

	_, err := io.WriteString(w, sb.String())
	return err
}
