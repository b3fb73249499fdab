package pageconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnsupportedSchemaVersion wraps the version a document declared when no
// migration path to the current version exists.
type ErrUnsupportedSchemaVersion struct {
	Version int
}

func (e *ErrUnsupportedSchemaVersion) Error() string {
	return fmt.Sprintf("unsupported page config schema version %d", e.Version)
}

// ValidationError carries the field-level messages a document was rejected with.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid page config: " + strings.Join(e.Messages, "; ")
}

// migrations maps a schema version to the step that brings a document of
// that version up to the next one. Version 1 is current, so the table holds
// only the identity entry; older app versions never shipped another schema.
var migrations = map[int]func(*Document) error{
	1: func(*Document) error { return nil },
}

var hexColorRegexp = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateAndMigrate strictly decodes raw, migrates the document to the
// current schema version, and validates it. It is the single entry point the
// page config service saves through.
func ValidateAndMigrate(raw json.RawMessage) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, &ValidationError{Messages: []string{err.Error()}}
	}
	if err := Migrate(&doc); err != nil {
		return nil, err
	}
	if errs := validate(&doc); len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}
	return &doc, nil
}

// Migrate brings doc up to CurrentSchemaVersion. A missing or zero
// schemaVersion is treated as version 1 (documents written before the field
// existed). Versions above the current one are rejected.
func Migrate(doc *Document) error {
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = 1
	}
	if doc.SchemaVersion > CurrentSchemaVersion {
		return &ErrUnsupportedSchemaVersion{Version: doc.SchemaVersion}
	}
	for v := doc.SchemaVersion; v < CurrentSchemaVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return &ErrUnsupportedSchemaVersion{Version: v}
		}
		if err := step(doc); err != nil {
			return fmt.Errorf("migrate schema v%d: %w", v, err)
		}
		doc.SchemaVersion = v + 1
	}
	return nil
}

func validate(doc *Document) []string {
	var errs []string
	if _, ok := knownTemplates[doc.Theme.Template]; !ok {
		errs = append(errs, fmt.Sprintf("theme.template %q is not a known template", doc.Theme.Template))
	}
	if doc.Theme.PrimaryColor != "" && !hexColorRegexp.MatchString(doc.Theme.PrimaryColor) {
		errs = append(errs, "theme.primaryColor must be a hex color")
	}
	if doc.Theme.SecondaryColor != "" && !hexColorRegexp.MatchString(doc.Theme.SecondaryColor) {
		errs = append(errs, "theme.secondaryColor must be a hex color")
	}
	if strings.TrimSpace(doc.Hero.Title) == "" {
		errs = append(errs, "hero.title is required")
	}
	seen := make(map[string]struct{}, len(doc.Sections))
	for i, s := range doc.Sections {
		if s.ID == "" {
			errs = append(errs, fmt.Sprintf("sections[%d].id is required", i))
			continue
		}
		if _, dup := seen[s.ID]; dup {
			errs = append(errs, fmt.Sprintf("sections[%d].id %q is duplicated", i, s.ID))
		}
		seen[s.ID] = struct{}{}
		if _, ok := knownSectionKinds[s.Kind]; !ok {
			errs = append(errs, fmt.Sprintf("sections[%d].kind %q is not a known section kind", i, s.Kind))
		}
	}
	return errs
}
