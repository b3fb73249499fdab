package pageconfig

import (
	"bytes"
	"fmt"
	"strings"
)

// Diff describes what changed between two versions of a document. It is
// coarse on purpose: the dashboard shows it as an audit line, not a patch.
type Diff struct {
	ThemeChanged      bool
	HeroChanged       bool
	AddedSections     []string
	RemovedSections   []string
	ChangedSections   []string
	SectionsReordered bool
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return !d.ThemeChanged && !d.HeroChanged && !d.SectionsReordered &&
		len(d.AddedSections) == 0 && len(d.RemovedSections) == 0 && len(d.ChangedSections) == 0
}

// Compare computes the Diff from old to new. A nil old means everything in
// new counts as added.
func Compare(old, new *Document) Diff {
	var d Diff
	if old == nil {
		for _, s := range new.Sections {
			d.AddedSections = append(d.AddedSections, s.ID)
		}
		d.ThemeChanged = true
		d.HeroChanged = true
		return d
	}
	d.ThemeChanged = old.Theme != new.Theme
	d.HeroChanged = old.Hero != new.Hero

	oldByID := make(map[string]Section, len(old.Sections))
	oldOrder := make([]string, 0, len(old.Sections))
	for _, s := range old.Sections {
		oldByID[s.ID] = s
		oldOrder = append(oldOrder, s.ID)
	}
	newOrder := make([]string, 0, len(new.Sections))
	for _, s := range new.Sections {
		newOrder = append(newOrder, s.ID)
		prev, ok := oldByID[s.ID]
		if !ok {
			d.AddedSections = append(d.AddedSections, s.ID)
			continue
		}
		if sectionChanged(prev, s) {
			d.ChangedSections = append(d.ChangedSections, s.ID)
		}
		delete(oldByID, s.ID)
	}
	for _, id := range oldOrder {
		if _, removed := oldByID[id]; removed {
			d.RemovedSections = append(d.RemovedSections, id)
		}
	}
	d.SectionsReordered = surviveOrderChanged(oldOrder, newOrder, d.AddedSections, d.RemovedSections)
	return d
}

func sectionChanged(a, b Section) bool {
	return a.Kind != b.Kind || a.Title != b.Title || a.Visible != b.Visible ||
		!bytes.Equal(a.Body, b.Body)
}

// surviveOrderChanged reports whether the sections present in both versions
// appear in a different relative order.
func surviveOrderChanged(oldOrder, newOrder, added, removed []string) bool {
	skip := make(map[string]struct{}, len(added)+len(removed))
	for _, id := range added {
		skip[id] = struct{}{}
	}
	for _, id := range removed {
		skip[id] = struct{}{}
	}
	var oldKept, newKept []string
	for _, id := range oldOrder {
		if _, ok := skip[id]; !ok {
			oldKept = append(oldKept, id)
		}
	}
	for _, id := range newOrder {
		if _, ok := skip[id]; !ok {
			newKept = append(newKept, id)
		}
	}
	if len(oldKept) != len(newKept) {
		return true
	}
	for i := range oldKept {
		if oldKept[i] != newKept[i] {
			return true
		}
	}
	return false
}

// Summary renders the diff as a short human-readable list for audit logging,
// e.g. "theme changed, added sections: faq-1, reordered sections".
func (d Diff) Summary() string {
	if d.Empty() {
		return "no changes"
	}
	var parts []string
	if d.ThemeChanged {
		parts = append(parts, "theme changed")
	}
	if d.HeroChanged {
		parts = append(parts, "hero changed")
	}
	if len(d.AddedSections) > 0 {
		parts = append(parts, fmt.Sprintf("added sections: %s", strings.Join(d.AddedSections, ", ")))
	}
	if len(d.RemovedSections) > 0 {
		parts = append(parts, fmt.Sprintf("removed sections: %s", strings.Join(d.RemovedSections, ", ")))
	}
	if len(d.ChangedSections) > 0 {
		parts = append(parts, fmt.Sprintf("changed sections: %s", strings.Join(d.ChangedSections, ", ")))
	}
	if d.SectionsReordered {
		parts = append(parts, "reordered sections")
	}
	return strings.Join(parts, ", ")
}
