package pageconfig

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw(t *testing.T, mutate func(m map[string]any)) json.RawMessage {
	t.Helper()
	m := map[string]any{
		"schemaVersion": 1,
		"theme": map[string]any{
			"template":     TemplateClassic,
			"primaryColor": "#aabbcc",
		},
		"hero": map[string]any{
			"title":    "Nora & Sam",
			"subtitle": "We're getting married",
		},
		"sections": []any{
			map[string]any{"id": "story-1", "kind": SectionStory, "visible": true},
			map[string]any{"id": "faq-1", "kind": SectionFAQ, "title": "FAQ", "visible": true},
		},
	}
	if mutate != nil {
		mutate(m)
	}
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	return raw
}

func TestValidateAndMigrate(t *testing.T) {
	tests := []struct {
		name    string
		raw     json.RawMessage
		wantErr string
		wantVer int
	}{
		{
			name:    "valid v1 document",
			raw:     validRaw(t, nil),
			wantVer: 1,
		},
		{
			name: "missing schemaVersion treated as v1",
			raw: validRaw(t, func(m map[string]any) {
				delete(m, "schemaVersion")
			}),
			wantVer: 1,
		},
		{
			name: "future schema version rejected",
			raw: validRaw(t, func(m map[string]any) {
				m["schemaVersion"] = 7
			}),
			wantErr: "unsupported page config schema version 7",
		},
		{
			name:    "unknown top-level field rejected",
			raw:     json.RawMessage(`{"schemaVersion":1,"bogus":true}`),
			wantErr: "invalid page config",
		},
		{
			name: "unknown template rejected",
			raw: validRaw(t, func(m map[string]any) {
				m["theme"] = map[string]any{"template": "neon_disco"}
			}),
			wantErr: `theme.template "neon_disco"`,
		},
		{
			name: "bad hex color rejected",
			raw: validRaw(t, func(m map[string]any) {
				m["theme"] = map[string]any{"template": TemplateClassic, "primaryColor": "red"}
			}),
			wantErr: "theme.primaryColor must be a hex color",
		},
		{
			name: "empty hero title rejected",
			raw: validRaw(t, func(m map[string]any) {
				m["hero"] = map[string]any{"title": "   "}
			}),
			wantErr: "hero.title is required",
		},
		{
			name: "duplicate section ids rejected",
			raw: validRaw(t, func(m map[string]any) {
				m["sections"] = []any{
					map[string]any{"id": "s1", "kind": SectionFAQ, "visible": true},
					map[string]any{"id": "s1", "kind": SectionStory, "visible": true},
				}
			}),
			wantErr: `"s1" is duplicated`,
		},
		{
			name: "unknown section kind rejected",
			raw: validRaw(t, func(m map[string]any) {
				m["sections"] = []any{
					map[string]any{"id": "s1", "kind": "carousel", "visible": true},
				}
			}),
			wantErr: `"carousel" is not a known section kind`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ValidateAndMigrate(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVer, doc.SchemaVersion)
		})
	}
}

func TestValidateAndMigrate_FutureVersionErrorType(t *testing.T) {
	_, err := ValidateAndMigrate(validRaw(t, func(m map[string]any) {
		m["schemaVersion"] = 2
	}))
	var verErr *ErrUnsupportedSchemaVersion
	require.True(t, errors.As(err, &verErr))
	assert.Equal(t, 2, verErr.Version)
}

func TestMigrate_ZeroVersionBecomesCurrent(t *testing.T) {
	doc := &Document{Theme: Theme{Template: TemplateClassic}, Hero: Hero{Title: "x"}}
	require.NoError(t, Migrate(doc))
	assert.Equal(t, CurrentSchemaVersion, doc.SchemaVersion)
}
