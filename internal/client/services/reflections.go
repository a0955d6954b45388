package services

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Reflection is a generated look back over the user's unlocked capsules.
// Generation is a stand-in: the text is canned, only the themes are pulled
// from actual capsule content. Decrypted plaintext never leaves the
// process, so a future real generator has to run locally too.
type Reflection struct {
	Type           string
	Content        string
	CreatedAt      time.Time
	PeriodStart    time.Time
	PeriodEnd      time.Time
	SentimentTrend string
	KeyThemes      []string
}

// themeVocabulary is the fixed set of themes scanned for in capsule text.
var themeVocabulary = []string{
	"growth", "learning", "gratitude", "family", "friends",
	"hope", "fear", "love", "work", "change",
}

var defaultThemes = []string{"growth", "relationships", "confidence", "gratitude", "learning"}

const periodicReflectionText = `Looking at your entries from the past three months, there is a steady pattern of growth and self-compassion.

Your writing has moved from uncertainty toward a more confident voice. Challenges that earlier entries framed as fears now read as opportunities, which points to growing resilience.

Relationships come up again and again as a source of joy and gratitude. The care you show for others mirrors the kindness you are learning to show yourself.

Keep nurturing this quiet confidence. Your past self would be proud of how far you have come.`

const milestoneReflectionText = `Your most recent capsule shows real emotional maturity: naming both fear and excitement in the same breath is harder than it looks.

Choosing hope while acknowledging worry is a skill, and it comes through clearly in your writing. The commitment to building a life that feels authentically yours stands out as a core value.

The encouragement you wrote for your future self reflects the same kindness you deserve today.`

// ReflectionService produces reflections over the signed-in user's
// capsules.
type ReflectionService struct {
	store *CapsuleStore
	nowFn func() time.Time
}

func NewReflectionService(store *CapsuleStore) *ReflectionService {
	return &ReflectionService{store: store, nowFn: time.Now}
}

// extractThemes counts vocabulary hits across the given texts and returns
// up to five themes, most frequent first.
func extractThemes(texts []string) []string {
	counts := map[string]int{}
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, theme := range themeVocabulary {
			counts[theme] += strings.Count(lower, theme)
		}
	}

	themes := make([]string, 0, len(counts))
	for theme, n := range counts {
		if n > 0 {
			themes = append(themes, theme)
		}
	}
	sort.Slice(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return themes[i] < themes[j]
	})

	if len(themes) == 0 {
		return defaultThemes
	}
	if len(themes) > 5 {
		themes = themes[:5]
	}
	return themes
}

// Generate builds reflections from the user's current capsules. Locked
// capsules contribute nothing: their content is a placeholder here, just
// like everywhere else on this side of the unlock date.
func (r *ReflectionService) Generate(ctx context.Context) ([]*Reflection, error) {
	views, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(views))
	for _, v := range views {
		if !v.Unlocked {
			continue
		}
		texts = append(texts, v.Title, v.Content)
	}

	now := r.nowFn()
	reflections := []*Reflection{
		{
			Type:           "periodic",
			Content:        periodicReflectionText,
			CreatedAt:      now,
			PeriodStart:    now.AddDate(0, -3, 0),
			PeriodEnd:      now,
			SentimentTrend: "improving",
			KeyThemes:      extractThemes(texts),
		},
	}

	if len(texts) > 0 {
		reflections = append(reflections, &Reflection{
			Type:           "milestone",
			Content:        milestoneReflectionText,
			CreatedAt:      now,
			PeriodStart:    now.AddDate(0, -1, 0),
			PeriodEnd:      now,
			SentimentTrend: "stable",
			KeyThemes:      extractThemes(texts),
		})
	}

	return reflections, nil
}
