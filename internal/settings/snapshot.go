// Package settings serves DB-backed site settings from an in-memory snapshot.
// Reads never hit the database; the snapshot is refreshed at startup and after
// every admin settings write.
package settings

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"
)

// snapshot holds the in-memory settings values.
type snapshot struct {
	updatedAt time.Time
	values    map[string]json.RawMessage
}

// globalSnapshot stores the latest snapshot atomically.
var globalSnapshot atomic.Value // stores snapshot

func init() {
	globalSnapshot.Store(snapshot{values: map[string]json.RawMessage{}})
}

// StoreSnapshot replaces the in-memory settings snapshot.
func StoreSnapshot(updatedAt time.Time, values map[string]json.RawMessage) {
	next := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		if v == nil {
			next[key] = nil
			continue
		}
		copied := make([]byte, len(v))
		copy(copied, v)
		next[key] = copied
	}

	globalSnapshot.Store(snapshot{
		updatedAt: updatedAt.UTC(),
		values:    next,
	})
}

// UpdatedAt returns the last settings update timestamp.
func UpdatedAt() time.Time {
	return loadSnapshot().updatedAt
}

// Value returns a copy of the raw value for a key.
func Value(key string) (json.RawMessage, bool) {
	cfg := loadSnapshot()
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	val, ok := cfg.values[key]
	if !ok {
		return nil, false
	}
	if val == nil {
		return nil, true
	}
	copied := make([]byte, len(val))
	copy(copied, val)
	return copied, true
}

// loadSnapshot returns the current snapshot with safe defaults.
func loadSnapshot() snapshot {
	v := globalSnapshot.Load()
	cfg, ok := v.(snapshot)
	if !ok {
		return snapshot{values: map[string]json.RawMessage{}}
	}
	if cfg.values == nil {
		return snapshot{updatedAt: cfg.updatedAt, values: map[string]json.RawMessage{}}
	}
	return cfg
}

// SiteName returns the configured site name or the default.
func SiteName() string {
	raw, ok := Value(SiteNameKey)
	if !ok {
		return DefaultSiteName
	}
	var name string
	if errParse := json.Unmarshal(raw, &name); errParse != nil {
		return DefaultSiteName
	}
	if strings.TrimSpace(name) == "" {
		return DefaultSiteName
	}
	return name
}

// AIUseLevels returns the configured AI use scale presets or the default.
func AIUseLevels() []string {
	raw, ok := Value(AIUseLevelsKey)
	if !ok {
		return append([]string(nil), DefaultAIUseLevels...)
	}
	var levels []string
	if errParse := json.Unmarshal(raw, &levels); errParse != nil || len(levels) == 0 {
		return append([]string(nil), DefaultAIUseLevels...)
	}
	return levels
}

// BlankRowCount returns the configured blank row count for new scratch
// rubrics, clamped to a sane range.
func BlankRowCount() int {
	raw, ok := Value(DefaultRowCountKey)
	if !ok {
		return DefaultRowCount
	}
	var n int
	if errParse := json.Unmarshal(raw, &n); errParse != nil {
		return DefaultRowCount
	}
	if n < 0 {
		return 0
	}
	if n > 50 {
		return 50
	}
	return n
}
