package ingest

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/internalerr"
)

// DocumentConverter turns a legacy word document into the modern table
// format. Implementations return the path of the converted file.
type DocumentConverter interface {
	Convert(ctx context.Context, path string) (string, error)
	Available() bool
}

// SofficeConverter shells out to a headless office suite.
type SofficeConverter struct {
	// Binary overrides the executable name, default "soffice".
	Binary string
	// Timeout bounds one conversion, default 2 minutes.
	Timeout time.Duration
}

func (c *SofficeConverter) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return "soffice"
}

// Available reports whether the office binary is on PATH.
func (c *SofficeConverter) Available() bool {
	_, err := exec.LookPath(c.binary())
	return err == nil
}

// Convert writes the converted document next to a temporary directory
// and returns its path.
func (c *SofficeConverter) Convert(ctx context.Context, path string) (string, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outDir, err := os.MkdirTemp("", "bomcat-convert-*")
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, c.binary(), "--headless", "--convert-to", "docx", "--outdir", outDir, path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w: convert %s: %v: %s", internalerr.ErrUnreadableDocument, path, err, strings.TrimSpace(string(out)))
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".docx"
	converted := filepath.Join(outDir, name)
	if _, err := os.Stat(converted); err != nil {
		return "", fmt.Errorf("%w: convert %s: no output produced", internalerr.ErrUnreadableDocument, path)
	}
	return converted, nil
}

// LegacyWordAdapter converts a legacy document and reuses the
// word-table adapter. A missing or failing converter degrades to the
// line-text parse without surfacing an error.
type LegacyWordAdapter struct {
	Converter DocumentConverter

	logger *zap.Logger
}

// NewLegacyWordAdapter returns a legacy-document adapter.
func NewLegacyWordAdapter(conv DocumentConverter, logger *zap.Logger) *LegacyWordAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LegacyWordAdapter{Converter: conv, logger: logger}
}

func (a *LegacyWordAdapter) Ingest(path string) ([]RawRow, error) {
	if a.Converter != nil && a.Converter.Available() {
		converted, err := a.Converter.Convert(context.Background(), path)
		if err == nil {
			defer os.RemoveAll(filepath.Dir(converted))
			rows, werr := (&WordAdapter{logger: a.logger}).Ingest(converted)
			if werr == nil {
				return retagSource(rows, filepath.Base(path)), nil
			}
			a.logger.Warn("converted document unreadable", zap.String("file", path), zap.Error(werr))
		} else {
			a.logger.Warn("legacy conversion failed", zap.String("file", path), zap.Error(err))
		}
	}
	return (&TextAdapter{logger: a.logger}).Ingest(path)
}

func retagSource(rows []RawRow, sourceFile string) []RawRow {
	for i := range rows {
		rows[i].SourceFile = sourceFile
	}
	return rows
}
