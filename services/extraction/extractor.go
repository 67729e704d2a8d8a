package extraction

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tableorder/models"
	"tableorder/services/menu"
)

const (
	// FuzzyThreshold is the minimum partial-ratio score for a fuzzy match.
	FuzzyThreshold = 85.0
	// minFuzzyTokenLen keeps short filler words ("a", "to", "me") from matching any item.
	minFuzzyTokenLen = 3
)

var wordToNum = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lower-cases text and splits it on word boundaries.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// quantityOf reads a token as a count: digits or a number word up to ten.
func quantityOf(token string) (int, bool) {
	if n, ok := wordToNum[token]; ok {
		return n, true
	}
	if n, err := strconv.Atoi(token); err == nil {
		return n, true
	}
	return 0, false
}

// ExtractQuantity returns the first count found in tokens, or 1. It is not tied
// to a particular item: "two coffee and one pizza" yields 2 for both.
func ExtractQuantity(tokens []string) int {
	for _, t := range tokens {
		if n, ok := quantityOf(t); ok {
			if n < 1 {
				return 1
			}
			return n
		}
	}
	return 1
}

// Extractor finds menu items and quantities in an utterance. It holds an
// immutable catalog handle and is safe for concurrent use.
type Extractor struct {
	catalog   menu.Catalog
	heads     map[string]bool
	threshold float64
}

type Option func(*Extractor)

// WithGenericHeads replaces the catalog's head vocabulary.
func WithGenericHeads(heads ...string) Option {
	return func(e *Extractor) {
		e.heads = map[string]bool{}
		for _, h := range heads {
			if h = menu.NormalizeTerm(h); h != "" {
				e.heads[h] = true
			}
		}
	}
}

func WithThreshold(score float64) Option {
	return func(e *Extractor) { e.threshold = score }
}

func NewExtractor(catalog menu.Catalog, opts ...Option) *Extractor {
	e := &Extractor{
		catalog:   catalog,
		heads:     map[string]bool{},
		threshold: FuzzyThreshold,
	}
	for _, h := range catalog.GenericHeads() {
		e.heads[h] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract resolves text against the catalog. A generic head left over once the
// named items are taken out turns the whole result into a clarification request.
func (e *Extractor) Extract(text string) models.ExtractionResult {
	tokens := Tokenize(text)
	result := models.ExtractionResult{
		Quantity:      ExtractQuantity(tokens),
		FoodItems:     []string{},
		Clarification: []models.Clarification{},
	}

	found, rest := e.exactMatches(tokens)
	if len(found) == 0 {
		found = e.fuzzyMatches(tokens)
	}

	if amb := e.ambiguities(rest); len(amb) > 0 {
		result.Clarification = amb
		return result
	}

	seen := map[string]bool{}
	for _, name := range found {
		if !seen[name] {
			seen[name] = true
			result.FoodItems = append(result.FoodItems, name)
		}
	}
	return result
}

type termHit struct {
	pos  int
	name string
}

// exactMatches accepts every name or alias found in the text starting on a word
// boundary, so "dosas" still contains "dosa" while "steak" does not contain
// "tea". Longer terms are taken first and blanked out of the text, which keeps
// "paneer tikka" from matching inside "paneer tikka pizza". It returns the
// matched names in text order and the tokens left unclaimed.
func (e *Extractor) exactMatches(tokens []string) ([]string, []string) {
	text := " " + strings.Join(tokens, " ")

	terms := append([]menu.Term(nil), e.catalog.Terms()...)
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i].Text) > len(terms[j].Text)
	})

	var hits []termHit
	for _, term := range terms {
		words := Tokenize(term.Text)
		if len(words) == 0 {
			continue
		}
		needle := " " + strings.Join(words, " ")
		blank := " " + strings.Repeat("|", len(needle)-1)
		for {
			i := strings.Index(text, needle)
			if i < 0 {
				break
			}
			hits = append(hits, termHit{pos: i, name: canonical(term.Item)})
			text = text[:i] + blank + text[i+len(needle):]
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	found := make([]string, 0, len(hits))
	for _, h := range hits {
		found = append(found, h.name)
	}
	return found, Tokenize(text)
}

// fuzzyMatches scores each token against every term and keeps the best one at or
// above the threshold. A token whose best score is shared by different items
// ("masala") names none of them and is dropped.
func (e *Extractor) fuzzyMatches(tokens []string) []string {
	terms := e.catalog.Terms()

	var found []string
	for _, t := range tokens {
		if len([]rune(t)) < minFuzzyTokenLen {
			continue
		}
		if _, isQty := quantityOf(t); isQty {
			continue
		}

		bestScore := 0.0
		var best *menu.Term
		tied := false
		for i := range terms {
			score := partialRatio(t, terms[i].Text)
			switch {
			case score > bestScore:
				bestScore, best, tied = score, &terms[i], false
			case score == bestScore && best != nil && terms[i].Item.ID != best.Item.ID:
				tied = true
			}
		}
		if best != nil && !tied && bestScore >= e.threshold {
			found = append(found, canonical(best.Item))
		}
	}
	return found
}

// ambiguities lists, per generic head among tokens, every catalog item whose
// name contains that head as a word.
func (e *Extractor) ambiguities(tokens []string) []models.Clarification {
	var out []models.Clarification
	done := map[string]bool{}

	for _, t := range tokens {
		if !e.heads[t] || done[t] {
			continue
		}
		done[t] = true

		var options []string
		for _, item := range e.catalog.ListItems() {
			for _, w := range Tokenize(item.Name) {
				if w == t {
					options = append(options, canonical(item))
					break
				}
			}
		}
		if len(options) > 0 {
			out = append(out, models.Clarification{Term: t, Options: options})
		}
	}
	return out
}

func canonical(item models.MenuItem) string {
	return menu.NormalizeTerm(item.Name)
}
