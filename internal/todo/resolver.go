// Package todo maps an activity to the category of preparation tasks it
// requires and serves those tasks from the reference catalog.
package todo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Subject is what a rule is evaluated against, already folded.
type Subject struct {
	// Label is the folded activity label, e.g. "porte 3 - public".
	Label string
	// Text is label, category and place joined with spaces.
	Text string
}

// Rule assigns Category to subjects matching Match.
type Rule struct {
	Category string
	Match    func(Subject) bool
}

func prefix(p string) func(Subject) bool {
	return func(s Subject) bool { return strings.HasPrefix(s.Label, p) }
}

func contains(words ...string) func(Subject) bool {
	return func(s Subject) bool {
		for _, w := range words {
			if strings.Contains(s.Text, w) {
				return true
			}
		}
		return false
	}
}

func exact(label string) func(Subject) bool {
	return func(s Subject) bool { return s.Label == label }
}

// Rules are evaluated top to bottom and the first match wins, so specific
// phrases sit above the words they contain ("fin de la validite du badge"
// before "badge", "demontage" before "montage").
var Rules = []Rule{
	{Category: "portes", Match: prefix("porte")},
	{Category: "parkings", Match: contains("parking")},
	{Category: "campings", Match: contains("aire d'accueil", "camping")},
	{Category: "pc_organisation", Match: contains("pc organisation")},
	{Category: "pc_autorites", Match: contains("pc autorit")},
	{Category: "centre_accreditation", Match: contains("centre accreditation")},
	{Category: "help_desk", Match: contains("help desk")},
	{Category: "fin_validite_badge", Match: contains("fin de la validite du badge")},
	{Category: "badges", Match: contains("badge")},
	{Category: "scan", Match: contains("scan")},
	{Category: "demontage", Match: contains("demontage", "fin du montage")},
	{Category: "montage", Match: contains("montage", "debut du montage")},
	{Category: "tribunes", Match: contains("tribune")},
	{Category: "passerelles", Match: contains("passerelle")},
	{Category: "sanitaires", Match: contains("sanitaire")},
	{Category: "ouverture_public", Match: exact("au public")},
}

// ResolveCategory returns the todo category of an activity, or false when
// no rule matches.
func ResolveCategory(label, category, place string) (string, bool) {
	return resolveWith(Rules, label, category, place)
}

func resolveWith(rules []Rule, label, category, place string) (string, bool) {
	s := Subject{Label: Fold(label)}
	s.Text = strings.Join([]string{s.Label, Fold(category), Fold(place)}, " ")
	for _, r := range rules {
		if r.Match(s) {
			return r.Category, true
		}
	}
	return "", false
}

// Fold lowercases s, strips diacritics and normalises apostrophes and
// spacing, so "Aire d’Accueil  Sud" folds to "aire d'accueil sud".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.NewReplacer("’", "'", "‘", "'", "`", "'").Replace(folded)
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
