package models

import (
	"regexp"
)

// TitleGroupOther is the explicit catch-all label. Classification is total:
// every title maps to exactly one label and unmatched titles map here.
const TitleGroupOther = "Other"

func mustCompileFold(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}

func wordPattern(keyword string) *regexp.Regexp {
	return mustCompileFold(`\b` + regexp.QuoteMeta(keyword) + `\b`)
}

func wordPatterns(keywords ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, wordPattern(kw))
	}
	return out
}

func anyMatch(patterns []*regexp.Regexp, title string) bool {
	for _, p := range patterns {
		if p.MatchString(title) {
			return true
		}
	}
	return false
}

// baseRarityMarkers feed the shared "other rarity marker" guard used by the
// RR/RRR/VMAX "Only" composites. Each marker is detected independently; the
// guard is the disjunction.
var baseRarityMarkers = []string{
	"sr", "ssr", "ur", "hr", "ar", "chr",
	"full art", "rainbow",
}

// extendedRarityMarkers were added in the second revision of the rule set.
// The two revisions disagree on exactly this list, so it stays configurable
// instead of being baked into the table.
var extendedRarityMarkers = []string{
	"sar", "csr", "secret", "gold",
}

// ClassifierConfig carries the taxonomy parameters that differ between the
// observed rule-set revisions.
type ClassifierConfig struct {
	// ExtraExclusionMarkers extends the "other rarity marker" guard beyond
	// the base set.
	ExtraExclusionMarkers []string
}

// DefaultClassifierConfig uses the extended exclusion set.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{ExtraExclusionMarkers: extendedRarityMarkers}
}

// LegacyClassifierConfig matches the earlier rule revision, which guards only
// on the base marker set.
func LegacyClassifierConfig() ClassifierConfig {
	return ClassifierConfig{}
}

type titleRule struct {
	Label string
	Match func(m *titleMatch) bool
}

// titleMatch precomputes the flags shared by several rules so each predicate
// stays a plain boolean expression.
type titleMatch struct {
	title          string
	hasRR          bool
	hasRRR         bool
	hasVMAX        bool
	hasOtherRarity bool
}

type TitleClassifier struct {
	rules      []titleRule
	rrPat      *regexp.Regexp
	rrrPat     *regexp.Regexp
	vmaxPat    *regexp.Regexp
	exclusions []*regexp.Regexp
}

// Ordering is the tie-break mechanism: predicates overlap on purpose and the
// first match wins. "Master Ball Holo" contains both "Master Ball" and
// "Ball Holo", and must classify as the more specific "Master Ball", which is
// why that rule sits first. Keep the whole table in one place; relative order
// is what reviewers need to see.
func buildRules() []titleRule {
	var (
		masterBall = wordPatterns("master ball")
		ballHolo   = wordPatterns("ball holo", "ball mirror", "pokeball holo")
		graded     = wordPatterns("psa", "bgs", "cgc", "graded")
		sealed     = wordPatterns("booster box", "sealed", "unopened")
		vintage    = wordPatterns("vintage", "1st edition", "base set", "no rarity")
		shiny      = wordPatterns("shiny")
		sar        = wordPatterns("sar")
		chrCsr     = wordPatterns("chr", "csr")
		sr         = wordPatterns("sr", "ssr")
		urHr       = wordPatterns("ur", "hr")
		ar         = wordPatterns("ar")
		fullArt    = wordPatterns("full art", "fa")
		vStar      = wordPatterns("vstar", "v-union", "v union", "v")
		exGx       = wordPatterns("ex", "gx")
		trainer    = wordPatterns("trainer", "supporter", "stadium", "tr")
		energy     = wordPatterns("energy")
		promo      = wordPatterns("promo")
		bulk       = wordPatterns("bulk", "common", "commons", "uncommon")
	)

	return []titleRule{
		{"Master Ball", func(m *titleMatch) bool { return anyMatch(masterBall, m.title) }},
		{"Ball Holo", func(m *titleMatch) bool { return anyMatch(ballHolo, m.title) }},
		{"Graded", func(m *titleMatch) bool { return anyMatch(graded, m.title) }},
		{"Sealed", func(m *titleMatch) bool { return anyMatch(sealed, m.title) }},
		{"Vintage", func(m *titleMatch) bool { return anyMatch(vintage, m.title) }},
		{"Shiny", func(m *titleMatch) bool { return anyMatch(shiny, m.title) }},
		{"SAR", func(m *titleMatch) bool { return anyMatch(sar, m.title) }},
		{"CHR/CSR", func(m *titleMatch) bool { return anyMatch(chrCsr, m.title) }},
		{"SR", func(m *titleMatch) bool { return anyMatch(sr, m.title) }},
		{"UR/HR", func(m *titleMatch) bool { return anyMatch(urHr, m.title) }},
		{"AR", func(m *titleMatch) bool { return anyMatch(ar, m.title) }},
		{"Full Art", func(m *titleMatch) bool { return anyMatch(fullArt, m.title) }},
		{"RR/RRR Mix", func(m *titleMatch) bool { return m.hasRR && m.hasRRR }},
		{"RR Only", func(m *titleMatch) bool {
			return m.hasRR && !m.hasRRR && !m.hasVMAX && !m.hasOtherRarity
		}},
		{"RRR Only", func(m *titleMatch) bool {
			return m.hasRRR && !m.hasRR && !m.hasVMAX && !m.hasOtherRarity
		}},
		{"VMAX Only", func(m *titleMatch) bool {
			return m.hasVMAX && !m.hasRR && !m.hasRRR && !m.hasOtherRarity
		}},
		{"V/VSTAR", func(m *titleMatch) bool { return anyMatch(vStar, m.title) }},
		{"ex/GX", func(m *titleMatch) bool { return anyMatch(exGx, m.title) }},
		{"Trainer", func(m *titleMatch) bool { return anyMatch(trainer, m.title) }},
		{"Energy", func(m *titleMatch) bool { return anyMatch(energy, m.title) }},
		{"Promo", func(m *titleMatch) bool { return anyMatch(promo, m.title) }},
		{"Bulk", func(m *titleMatch) bool { return anyMatch(bulk, m.title) }},
	}
}

func NewTitleClassifier(cfg ClassifierConfig) *TitleClassifier {
	markers := append([]string{}, baseRarityMarkers...)
	markers = append(markers, cfg.ExtraExclusionMarkers...)

	return &TitleClassifier{
		rules:      buildRules(),
		rrPat:      wordPattern("rr"),
		rrrPat:     wordPattern("rrr"),
		vmaxPat:    wordPattern("vmax"),
		exclusions: wordPatterns(markers...),
	}
}

// Classify maps a title to one label of the closed taxonomy. Pure function of
// the input and the fixed rule table; never errors, never returns "".
func (c *TitleClassifier) Classify(title string) string {
	t := NormalizeTitle(title)
	m := &titleMatch{
		title:          t,
		hasRR:          c.rrPat.MatchString(t),
		hasRRR:         c.rrrPat.MatchString(t),
		hasVMAX:        c.vmaxPat.MatchString(t),
		hasOtherRarity: anyMatch(c.exclusions, t),
	}
	for _, rule := range c.rules {
		if rule.Match(m) {
			return rule.Label
		}
	}
	return TitleGroupOther
}

// Labels returns the taxonomy in rule order, fallback last.
func (c *TitleClassifier) Labels() []string {
	out := make([]string, 0, len(c.rules)+1)
	for _, r := range c.rules {
		out = append(out, r.Label)
	}
	return append(out, TitleGroupOther)
}

var defaultClassifier = NewTitleClassifier(DefaultClassifierConfig())

// ClassifyTitle classifies with the default (extended-guard) rule set.
func ClassifyTitle(title string) string {
	return defaultClassifier.Classify(title)
}
