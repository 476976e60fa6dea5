package taste

import (
	"strings"

	"github.com/justnchxn/musictoart/pkg/rng"
)

// DefaultTheme is used for empty or unknown theme names.
const DefaultTheme = "oil painting"

// MainstreamThreshold is the average popularity at which a listener counts
// as mainstream.
const MainstreamThreshold = 60

// Themes are the art styles /api/generate accepts.
var Themes = []string{
	"oil painting",
	"watercolor",
	"neon cyberpunk",
	"ghibli",
	"vaporwave",
	"pixel art",
	"low-poly 3d",
	"origami paper",
	"charcoal sketch",
	"ink wash",
	"stained glass",
	"clay stop-motion",
	"ukiyo-e",
	"synthwave",
	"bauhaus minimal",
	"steampunk",
}

// NormalizeTheme matches name case-insensitively against Themes.
func NormalizeTheme(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, t := range Themes {
		if t == n {
			return t
		}
	}
	return DefaultTheme
}

// PopularityWord is "mainstream" at or above MainstreamThreshold, else "indie".
func PopularityWord(avg float64) string {
	if avg >= MainstreamThreshold {
		return "mainstream"
	}
	return "indie"
}

// ThreeWords describes a taste as genre, popularity and era, sampling genre
// and era in proportion to their counts.
func ThreeWords(v Vector, r *rng.Rand) (genre, popularity, era string) {
	genre = "abstract"
	if len(v.GenreCounts) > 0 {
		genre = strings.ReplaceAll(weightedChoice(v.GenreCounts, r), "-", " ")
	}
	era = DefaultEra
	if len(v.Eras) > 0 {
		era = weightedChoice(v.Eras, r)
	}
	return genre, PopularityWord(v.PopularityAvg), era
}

// Prompt builds the text-to-image prompt for a theme.
func Prompt(genre, popularity, era, theme string) string {
	return genre + " " + popularity + " " + era + ", " + theme +
		", abstract digital art, high detail, volumetric lighting, vector shapes, generative aesthetic, 4k"
}

func weightedChoice(counts map[string]int, r *rng.Rand) string {
	keys := sortedKeys(counts)
	total := 0
	for _, k := range keys {
		total += counts[k]
	}
	if total == 0 {
		return keys[len(keys)-1]
	}
	x := r.Range(0, float64(total))
	acc := 0
	for _, k := range keys {
		acc += counts[k]
		if x < float64(acc) {
			return k
		}
	}
	return keys[len(keys)-1]
}
