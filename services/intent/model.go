package intent

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"tableorder/models"
)

// Model is an exported snapshot of a char_wb TF-IDF vectorizer followed by a
// logistic regression. It is read-only once loaded.
type Model struct {
	Classes    []string       `json:"classes"`
	NgramRange [2]int         `json:"ngram_range"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Coef       [][]float64    `json:"coef"`
	Intercept  []float64      `json:"intercept"`
}

// LoadModel reads and validates a model snapshot.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intent model %s: %w", path, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse intent model %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that the vectorizer and the classifier agree on their dimensions.
func (m *Model) Validate() error {
	if len(m.Classes) < 2 {
		return fmt.Errorf("intent model: need at least 2 classes, got %d", len(m.Classes))
	}
	if m.NgramRange[0] < 1 || m.NgramRange[1] < m.NgramRange[0] {
		return fmt.Errorf("intent model: bad ngram range %v", m.NgramRange)
	}
	features := len(m.IDF)
	for ngram, idx := range m.Vocabulary {
		if idx < 0 || idx >= features {
			return fmt.Errorf("intent model: feature %q index %d out of range", ngram, idx)
		}
	}
	rows := len(m.Classes)
	if rows == 2 && len(m.Coef) == 1 {
		rows = 1
	}
	if len(m.Coef) != rows || len(m.Intercept) != rows {
		return fmt.Errorf("intent model: %d classes but %d coefficient rows and %d intercepts",
			len(m.Classes), len(m.Coef), len(m.Intercept))
	}
	for i, row := range m.Coef {
		if len(row) != features {
			return fmt.Errorf("intent model: coefficient row %d has %d features, want %d", i, len(row), features)
		}
	}
	return nil
}

var whiteSpaces = regexp.MustCompile(`\s\s+`)

// charWBNgrams pads each word with a space on both sides and emits its character
// n-grams. A padded word no longer than n is emitted whole once and ends the
// scan for that word.
func charWBNgrams(text string, minN, maxN int) []string {
	text = whiteSpaces.ReplaceAllString(strings.ToLower(text), " ")

	var grams []string
	for _, word := range strings.Fields(text) {
		w := []rune(" " + word + " ")
		for n := minN; n <= maxN; n++ {
			if len(w) <= n {
				grams = append(grams, string(w))
				break
			}
			for offset := 0; offset+n <= len(w); offset++ {
				grams = append(grams, string(w[offset:offset+n]))
			}
		}
	}
	return grams
}

// vectorize returns the l2-normalized tf-idf features as a sparse map.
func (m *Model) vectorize(text string) map[int]float64 {
	counts := map[int]float64{}
	for _, g := range charWBNgrams(text, m.NgramRange[0], m.NgramRange[1]) {
		if idx, ok := m.Vocabulary[g]; ok {
			counts[idx]++
		}
	}

	var norm float64
	for idx, tf := range counts {
		v := tf * m.IDF[idx]
		counts[idx] = v
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range counts {
			counts[idx] /= norm
		}
	}
	return counts
}

// Predict returns a probability per class in the order of m.Classes.
func (m *Model) Predict(text string) []float64 {
	x := m.vectorize(text)

	scores := make([]float64, len(m.Coef))
	for k, row := range m.Coef {
		z := m.Intercept[k]
		for idx, v := range x {
			z += row[idx] * v
		}
		scores[k] = z
	}

	if len(scores) == 1 {
		p := 1 / (1 + math.Exp(-scores[0]))
		return []float64{1 - p, p}
	}
	return softmax(scores)
}

func softmax(z []float64) []float64 {
	hi := math.Inf(-1)
	for _, v := range z {
		if v > hi {
			hi = v
		}
	}
	var sum float64
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = math.Exp(v - hi)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// result ranks every class by probability. Ties keep class order.
func (m *Model) result(probs []float64) models.IntentResult {
	alts := make([]models.IntentScore, len(probs))
	for i, p := range probs {
		alts[i] = models.IntentScore{Label: m.Classes[i], Confidence: round3(p)}
	}
	sort.SliceStable(alts, func(i, j int) bool {
		return alts[i].Confidence > alts[j].Confidence
	})
	return models.IntentResult{
		Label:        alts[0].Label,
		Confidence:   alts[0].Confidence,
		Alternatives: alts,
	}
}
