package selector

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"ArticlePublisher/internal/catalog"
	"ArticlePublisher/internal/domain"
)

// Selector picks the next unused topic from a catalog.
type Selector struct {
	catalog catalog.Catalog
	rnd     *rand.Rand
	now     func() time.Time
}

// New builds a selector; a nil rnd falls back to a time-seeded source.
func New(c catalog.Catalog, rnd *rand.Rand, now func() time.Time) *Selector {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if now == nil {
		now = time.Now
	}
	return &Selector{catalog: c, rnd: rnd, now: now}
}

// Select returns a random (category, topic) pair whose topic is not yet a
// ledger title. Once the catalog is exhausted it returns a random pair with
// the current year appended to the topic.
func (s *Selector) Select(ledger []domain.ArticleRecord) (catalog.Pair, error) {
	pairs := s.catalog.Pairs()
	if len(pairs) == 0 {
		return catalog.Pair{}, fmt.Errorf("topic catalog is empty")
	}

	used := UsedTitles(ledger)
	s.rnd.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})

	for _, pair := range pairs {
		if !used[strings.ToLower(pair.Topic)] {
			return pair, nil
		}
	}

	pick := pairs[s.rnd.IntN(len(pairs))]
	pick.Topic = fmt.Sprintf("%s — %d", pick.Topic, s.now().Year())
	return pick, nil
}

// Remaining counts unused topics per category.
func (s *Selector) Remaining(ledger []domain.ArticleRecord) map[string]int {
	used := UsedTitles(ledger)
	remaining := make(map[string]int, len(s.catalog))
	for _, entry := range s.catalog {
		remaining[entry.Category] = 0
		for _, topic := range entry.Topics {
			if !used[strings.ToLower(topic)] {
				remaining[entry.Category]++
			}
		}
	}
	return remaining
}

// UsedTitles returns the lowercased set of ledger titles.
func UsedTitles(ledger []domain.ArticleRecord) map[string]bool {
	used := make(map[string]bool, len(ledger))
	for _, record := range ledger {
		used[strings.ToLower(record.Title)] = true
	}
	return used
}
