// Package compdb is the versioned, hash-audited component-name store.
// It maps known component names to categories, keeps an append-only
// change history, and survives concurrent writers through an advisory
// lock and atomic write-then-rename saves.
package compdb

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/promtech/bomcat/pkg/bomcat/bom"
	"github.com/promtech/bomcat/pkg/bomcat/internalerr"
)

const (
	historyCap      = 50
	historyNamesCap = 10
	timeLayout      = "2006-01-02 15:04:05"
)

// Metadata describes the store version and hash chain.
type Metadata struct {
	Version         string `json:"version"`
	Created         string `json:"created"`
	LastUpdated     string `json:"last_updated"`
	TotalComponents int    `json:"total_components"`
	Description     string `json:"description,omitempty"`
	PreviousHash    string `json:"previous_hash"`
	CurrentHash     string `json:"current_hash"`
}

// HistoryEntry is one immutable audit record, newest first in the file.
type HistoryEntry struct {
	Version         string   `json:"version"`
	Timestamp       string   `json:"timestamp"`
	Action          string   `json:"action"`
	Source          string   `json:"source,omitempty"`
	ComponentsAdded int      `json:"components_added"`
	ComponentNames  []string `json:"component_names,omitempty"`
	PreviousHash    string   `json:"previous_hash"`
	CurrentHash     string   `json:"current_hash"`
}

type database struct {
	Metadata   Metadata          `json:"metadata"`
	History    []HistoryEntry    `json:"history"`
	Categories map[string]string `json:"categories"`
	Components map[string]string `json:"components"`
}

// Store is a component database bound to one file path.
type Store struct {
	path   string
	lock   *flock.Flock
	logger *zap.Logger
	now    func() time.Time
}

// New returns a Store over the given file. The file is created lazily
// with a seed set on first load.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
		now:    time.Now,
	}
}

// seedComponents is the initial name set of a freshly created store.
var seedComponents = map[string]string{
	"1594ТЛ2Т":     "ics",
	"HMC435AMS8GE": "ics",
	"HMC742ALP5E":  "ics",
	"РАТ-0+":       "ics",
	"РАТ-1+":       "ics",
	"РАТ-2+":       "ics",
	"РАТ-3+":       "ics",
	"РАТ-20+":      "ics",
	"PE43713A-Z":   "ics",
}

func categoryNames() map[string]string {
	out := make(map[string]string, len(bom.SheetOrder)+1)
	for _, c := range bom.SheetOrder {
		out[string(c)] = c.DisplayName()
	}
	out[string(bom.NonBOM)] = bom.NonBOM.DisplayName()
	return out
}

// Hash is the content hash of a component map: SHA-256 over the sorted
// (name, category) pairs, truncated to 16 hex characters. Deterministic
// regardless of insertion order.
func Hash(components map[string]string) string {
	if len(components) == 0 {
		return ""
	}
	names := make([]string, 0, len(components))
	for n := range components {
		names = append(names, n)
	}
	sort.Strings(names)
	pairs := make([][2]string, 0, len(names))
	for _, n := range names {
		pairs = append(pairs, [2]string{n, components[n]})
	}
	raw, _ := json.Marshal(pairs)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:16]
}

// incrementVersion bumps an "X.Y" version string. Imports bump the
// major and reset the minor; manual additions bump the minor. The
// post-clear "0.0" state transitions to "0.1" on a manual addition and
// straight to "1.0" on an import.
func incrementVersion(current string, manualAdd bool) string {
	major, minor, err := parseVersion(current)
	if err != nil {
		return "1.0"
	}
	if major == 0 && minor == 0 {
		if manualAdd {
			return "0.1"
		}
		return "1.0"
	}
	if manualAdd {
		return fmt.Sprintf("%d.%d", major, minor+1)
	}
	return fmt.Sprintf("%d.0", major+1)
}

func parseVersion(v string) (major, minor int, err error) {
	parts := strings.SplitN(strings.TrimSpace(v), ".", 2)
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	if len(parts) == 2 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, err
		}
	}
	if major < 0 || minor < 0 {
		return 0, 0, fmt.Errorf("negative version %q", v)
	}
	return major, minor, nil
}

// Load returns the current name→category map. A missing file is
// created with the seed set at version 1.0.
func (s *Store) Load() (map[string]string, error) {
	db, err := s.load()
	if err != nil {
		return nil, err
	}
	return db.Components, nil
}

func (s *Store) load() (*database, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s.create()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrStoreUnavailable, s.path, err)
	}
	var db database
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrStoreUnavailable, s.path, err)
	}
	if db.Components == nil {
		db.Components = map[string]string{}
	}
	return &db, nil
}

func (s *Store) create() (*database, error) {
	now := s.now().Format(timeLayout)
	hash := Hash(seedComponents)
	components := make(map[string]string, len(seedComponents))
	for k, v := range seedComponents {
		components[k] = v
	}
	db := &database{
		Metadata: Metadata{
			Version:         "1.0",
			Created:         now,
			LastUpdated:     now,
			TotalComponents: len(components),
			Description:     "Справочник компонентов классификатора",
			CurrentHash:     hash,
		},
		History: []HistoryEntry{{
			Version:         "1.0",
			Timestamp:       now,
			Action:          "initial_creation",
			ComponentsAdded: len(components),
			CurrentHash:     hash,
		}},
		Categories: categoryNames(),
		Components: components,
	}
	if err := s.write(db); err != nil {
		return nil, err
	}
	s.logger.Info("component database created",
		zap.String("path", s.path), zap.Int("components", len(components)))
	return db, nil
}

// Save persists a component map. A changed content hash bumps the
// version and appends one history entry; an unchanged hash only
// refreshes the update timestamp.
func (s *Store) Save(components map[string]string, action, source string, names []string) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("%w: lock %s: %v", internalerr.ErrStoreUnavailable, s.path, err)
	}
	defer s.lock.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}

	added := len(components) - len(db.Components)
	previous := db.Metadata.CurrentHash
	next := Hash(components)
	now := s.now().Format(timeLayout)

	if next != previous && next != "" {
		db.Metadata.Version = incrementVersion(db.Metadata.Version, action == "manual_add")
		db.Metadata.PreviousHash = previous
		db.Metadata.CurrentHash = next
		s.appendHistory(db, action, source, added, names, now)
	}

	db.Components = components
	db.Metadata.LastUpdated = now
	db.Metadata.TotalComponents = len(components)
	return s.write(db)
}

func (s *Store) appendHistory(db *database, action, source string, added int, names []string, now string) {
	if len(names) > historyNamesCap {
		extra := len(names) - historyNamesCap
		names = append(append([]string{}, names[:historyNamesCap]...),
			fmt.Sprintf("... и еще %d", extra))
	}
	entry := HistoryEntry{
		Version:         db.Metadata.Version,
		Timestamp:       now,
		Action:          action,
		Source:          source,
		ComponentsAdded: added,
		ComponentNames:  names,
		PreviousHash:    db.Metadata.PreviousHash,
		CurrentHash:     db.Metadata.CurrentHash,
	}
	db.History = append([]HistoryEntry{entry}, db.History...)
	if len(db.History) > historyCap {
		db.History = db.History[:historyCap]
	}
}

// AddComponent inserts or re-categorizes one name, saving only when
// something actually changes.
func (s *Store) AddComponent(name string, category bom.Category, source string) error {
	name = strings.TrimSpace(name)
	if name == "" || !category.Valid() {
		return fmt.Errorf("%w: component %q category %q", internalerr.ErrInvalidInput, name, category)
	}
	components, err := s.Load()
	if err != nil {
		return err
	}
	if existing, ok := components[name]; ok && existing == string(category) {
		return nil
	}
	components[name] = string(category)
	action := "manual_add"
	if source != "" {
		action = "import_from_file"
	}
	return s.Save(components, action, source, []string{name})
}

// GetCategory resolves a name through the four-tier fallback: exact,
// case-insensitive, whitespace-insensitive, then whitespace-and-hyphen
// insensitive. The first hit wins.
func (s *Store) GetCategory(name string) (bom.Category, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	components, err := s.Load()
	if err != nil {
		s.logger.Warn("component lookup failed", zap.Error(err))
		return "", false
	}

	if cat, ok := components[name]; ok {
		return bom.Category(cat), true
	}

	folds := []func(string) string{
		strings.ToLower,
		func(s string) string { return strings.ToLower(strings.ReplaceAll(s, " ", "")) },
		func(s string) string {
			return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "-", ""))
		},
	}
	for _, fold := range folds {
		want := fold(name)
		for n, cat := range components {
			if fold(n) == want {
				return bom.Category(cat), true
			}
		}
	}
	return "", false
}

// Clear backs the current file up under a timestamped name and writes
// an empty store at version 0.0.
func (s *Store) Clear() (backupPath string, err error) {
	if err := s.lock.Lock(); err != nil {
		return "", fmt.Errorf("%w: lock %s: %v", internalerr.ErrStoreUnavailable, s.path, err)
	}
	defer s.lock.Unlock()

	if raw, rerr := os.ReadFile(s.path); rerr == nil {
		backupDir := filepath.Join(filepath.Dir(s.path), "backups")
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			return "", fmt.Errorf("%w: backup dir: %v", internalerr.ErrStoreUnavailable, err)
		}
		stamp := s.now().Format("20060102_150405")
		backupPath = filepath.Join(backupDir,
			fmt.Sprintf("component_database_before_clear_%s_%s.json", stamp, ulid.Make().String()))
		if err := os.WriteFile(backupPath, raw, 0o644); err != nil {
			return "", fmt.Errorf("%w: backup: %v", internalerr.ErrStoreUnavailable, err)
		}
	}

	now := s.now().Format(timeLayout)
	db := &database{
		Metadata: Metadata{
			Version:     "0.0",
			Created:     now,
			LastUpdated: now,
		},
		History: []HistoryEntry{{
			Version:   "0.0",
			Timestamp: now,
			Action:    "clear",
			Source:    backupPath,
		}},
		Categories: categoryNames(),
		Components: map[string]string{},
	}
	if err := s.write(db); err != nil {
		return "", err
	}
	s.logger.Info("component database cleared", zap.String("backup", backupPath))
	return backupPath, nil
}

// SetVersion forces the version string, recording the change.
func (s *Store) SetVersion(version string) error {
	if _, _, err := parseVersion(version); err != nil {
		return fmt.Errorf("%w: version %q", internalerr.ErrInvalidInput, version)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("%w: lock %s: %v", internalerr.ErrStoreUnavailable, s.path, err)
	}
	defer s.lock.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	old := db.Metadata.Version
	now := s.now().Format(timeLayout)
	db.Metadata.Version = version
	db.Metadata.LastUpdated = now
	s.appendHistory(db, "manual_version_change",
		fmt.Sprintf("смена версии: %s → %s", old, version), 0, nil, now)
	return s.write(db)
}

// Stats summarizes the store for reporting surfaces.
type Stats struct {
	Version         string
	TotalComponents int
	LastUpdated     string
	CurrentHash     string
	PerCategory     map[string]int
}

// GetStats returns version, totals and a per-category breakdown.
func (s *Store) GetStats() (Stats, error) {
	db, err := s.load()
	if err != nil {
		return Stats{}, err
	}
	per := make(map[string]int)
	for _, cat := range db.Components {
		per[cat]++
	}
	return Stats{
		Version:         db.Metadata.Version,
		TotalComponents: len(db.Components),
		LastUpdated:     db.Metadata.LastUpdated,
		CurrentHash:     db.Metadata.CurrentHash,
		PerCategory:     per,
	}, nil
}

// History returns up to limit audit records, newest first. A limit of
// 0 returns everything.
func (s *Store) History(limit int) ([]HistoryEntry, error) {
	db, err := s.load()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(db.History) {
		limit = len(db.History)
	}
	out := make([]HistoryEntry, limit)
	copy(out, db.History[:limit])
	return out, nil
}

// write persists atomically: temp file in the same directory, then
// rename over the target.
func (s *Store) write(db *database) error {
	raw, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", internalerr.ErrStoreUnavailable, dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".compdb-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	return nil
}
