// Package pageconfig defines the versioned page config document that drives
// an event's public invitation page, plus migration, validation, and diff
// utilities over it.
package pageconfig

import "encoding/json"

// CurrentSchemaVersion is the version new and migrated documents carry.
const CurrentSchemaVersion = 1

// Page templates.
const (
	TemplateCinematicScroll = "cinematic_scroll"
	TemplateGoldenCard      = "golden_card"
	TemplateClassic         = "classic"
)

// Section kinds an event page may carry, in organizer-chosen order.
const (
	SectionSchedule = "schedule"
	SectionFAQ      = "faq"
	SectionGallery  = "gallery"
	SectionSpeakers = "speakers"
	SectionSponsors = "sponsors"
	SectionStory    = "story"
	SectionRegistry = "registry"
)

// Document is an event's page config: theme, hero, and ordered sections.
// swagger:model PageConfigDocument
type Document struct {
	SchemaVersion int       `json:"schemaVersion"`
	Theme         Theme     `json:"theme"`
	Hero          Hero      `json:"hero"`
	Sections      []Section `json:"sections"`
}

// Theme selects the rendering template and its palette.
type Theme struct {
	Template       string `json:"template"`
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	Font           string `json:"font,omitempty"`
}

// Hero is the page header block.
type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Section is one ordered block of the page. Body is kind-specific and kept
// opaque here; the frontend owns its shape.
type Section struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Title   string          `json:"title,omitempty"`
	Visible bool            `json:"visible"`
	Body    json.RawMessage `json:"body,omitempty"`
}

var knownTemplates = map[string]struct{}{
	TemplateCinematicScroll: {},
	TemplateGoldenCard:      {},
	TemplateClassic:         {},
}

var knownSectionKinds = map[string]struct{}{
	SectionSchedule: {},
	SectionFAQ:      {},
	SectionGallery:  {},
	SectionSpeakers: {},
	SectionSponsors: {},
	SectionStory:    {},
	SectionRegistry: {},
}
