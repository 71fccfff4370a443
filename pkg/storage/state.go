package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/xeipuuv/gojsonschema"
)

// Persisted keys, named after the browser edition's localStorage keys.
const (
	KeyCompletedGrouped    = "social-tracker-completed-grouped"
	KeyCompletedLegacy     = "social-tracker-completed"
	KeyAchievementUnlocked = "social-tracker-achievement-unlocked"
	KeyAchievementShown    = "social-tracker-achievement-shown"
	KeyLanguage            = "social-tracker-language"
)

const completionRecordSchema = `{
  "type": "object",
  "required": ["completedAt"],
  "properties": {
    "completedAt": { "type": "string", "format": "date-time" }
  }
}`

const groupedLedgerSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "additionalProperties": ` + completionRecordSchema + `
  }
}`

const flatLedgerSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": ` + completionRecordSchema + `
}`

var (
	groupedLedgerSchema = gojsonschema.NewStringLoader(groupedLedgerSchemaJSON)
	flatLedgerSchema    = gojsonschema.NewStringLoader(flatLedgerSchemaJSON)
)

// StateRepository reads and writes the typed checklist state on top of a KV.
// Reads never fail: unreadable values are logged and replaced by defaults.
type StateRepository struct {
	kv     KV
	logger *slog.Logger
}

func NewStateRepository(kv KV, logger *slog.Logger) *StateRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateRepository{kv: kv, logger: logger}
}

// LoadLedger returns the grouped completion ledger. When only the legacy
// flat ledger exists it is returned as firstGroup's ledger.
func (r *StateRepository) LoadLedger(firstGroup checklist.GroupKey) checklist.GroupedLedger {
	raw, ok := r.get(KeyCompletedGrouped)
	if ok {
		var ledger checklist.GroupedLedger
		if err := decodeValidated(raw, groupedLedgerSchema, &ledger); err != nil {
			r.logger.Warn("ignoring unreadable completion ledger", "key", KeyCompletedGrouped, "error", err)
			return checklist.NewGroupedLedger()
		}
		if ledger == nil {
			ledger = checklist.NewGroupedLedger()
		}
		return ledger
	}

	raw, ok = r.get(KeyCompletedLegacy)
	if !ok {
		return checklist.NewGroupedLedger()
	}

	var flat checklist.CompletionLedger
	if err := decodeValidated(raw, flatLedgerSchema, &flat); err != nil {
		r.logger.Warn("ignoring unreadable legacy ledger", "key", KeyCompletedLegacy, "error", err)
		return checklist.NewGroupedLedger()
	}

	ledger := checklist.NewGroupedLedger()
	if len(flat) > 0 && firstGroup != "" {
		ledger[firstGroup] = flat
		r.logger.Info("migrated legacy completion ledger", "group", firstGroup, "tasks", len(flat))
	}
	return ledger
}

// SaveLedger writes the whole grouped ledger.
func (r *StateRepository) SaveLedger(ledger checklist.GroupedLedger) error {
	if ledger == nil {
		ledger = checklist.NewGroupedLedger()
	}
	return r.setJSON(KeyCompletedGrouped, ledger)
}

func (r *StateRepository) LoadAchievement() checklist.AchievementState {
	return checklist.AchievementState{
		Unlocked:  r.getBool(KeyAchievementUnlocked),
		ShownOnce: r.getBool(KeyAchievementShown),
	}
}

func (r *StateRepository) SaveAchievement(state checklist.AchievementState) error {
	if err := r.setJSON(KeyAchievementUnlocked, state.Unlocked); err != nil {
		return err
	}
	return r.setJSON(KeyAchievementShown, state.ShownOnce)
}

// LoadLanguage returns the saved language tag, if any. Both JSON strings and
// bare values are accepted.
func (r *StateRepository) LoadLanguage() (string, bool) {
	raw, ok := r.get(KeyLanguage)
	if !ok {
		return "", false
	}
	var lang string
	if err := json.Unmarshal([]byte(raw), &lang); err != nil {
		lang = raw
	}
	lang = strings.TrimSpace(lang)
	return lang, lang != ""
}

func (r *StateRepository) SaveLanguage(lang string) error {
	return r.setJSON(KeyLanguage, lang)
}

func (r *StateRepository) get(key string) (string, bool) {
	raw, ok, err := r.kv.Get(key)
	if err != nil {
		r.logger.Warn("failed to read saved state", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

func (r *StateRepository) getBool(key string) bool {
	raw, ok := r.get(key)
	if !ok {
		return false
	}
	var v bool
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		r.logger.Warn("ignoring unreadable flag", "key", key, "error", err)
		return false
	}
	return v
}

func (r *StateRepository) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.kv.Set(key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func decodeValidated(raw string, schema gojsonschema.JSONLoader, v any) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return fmt.Errorf("schema: %s", strings.Join(issues, "; "))
	}
	return json.Unmarshal([]byte(raw), v)
}
