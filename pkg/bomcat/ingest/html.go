package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/promtech/bomcat/pkg/bomcat/internalerr"
)

// HTMLAdapter reads tables out of HTML exports that some document tools
// produce instead of real spreadsheets. Each <table> becomes a cell
// grid handled the same way as a spreadsheet sheet.
type HTMLAdapter struct {
	logger *zap.Logger
}

// NewHTMLAdapter returns an HTML-table adapter.
func NewHTMLAdapter(logger *zap.Logger) *HTMLAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTMLAdapter{logger: logger}
}

func (a *HTMLAdapter) Ingest(path string) ([]RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrUnreadableDocument, path, err)
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrUnreadableDocument, path, err)
	}

	base := filepath.Base(path)
	var out []RawRow
	for i, tbl := range findTables(root) {
		grid := htmlTableGrid(tbl)
		sheet := fmt.Sprintf("table%d", i+1)
		out = append(out, rowsFromGrid(grid, base, sheet)...)
	}
	a.logger.Debug("html document ingested", zap.String("file", base), zap.Int("rows", len(out)))
	return out, nil
}

func findTables(n *html.Node) []*html.Node {
	var tables []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return tables
}

func htmlTableGrid(table *html.Node) [][]string {
	var grid [][]string
	var walkRows func(*html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var row []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					row = append(row, normalizeCell(nodeText(c)))
				}
			}
			grid = append(grid, row)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(table)
	return grid
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
