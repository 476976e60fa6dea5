package taste

import (
	"math"
	"sort"
	"strings"

	"github.com/justnchxn/musictoart/pkg/integrations/spotify"
)

// Defaults used when the history carries no signal.
const (
	DefaultPopularity = 50
	DefaultDurationMs = 180000
	DefaultEra        = "2000s"
)

// genreBuckets folds related genres into the palette families.
var genreBuckets = map[string]string{
	"dream pop":  "dream-pop",
	"shoegaze":   "dream-pop",
	"indie rock": "indie",
	"folk":       "indie",
	"house":      "electronic",
	"techno":     "electronic",
	"classical":  "classical",
	"jazz":       "jazz",
	"metal":      "metal",
}

// Durations summarises track lengths in milliseconds.
type Durations struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Vector is the taste summary of a listening history.
type Vector struct {
	GenreCounts   map[string]int `json:"genreCounts"`
	PopularityAvg float64        `json:"popularityAvg"`
	ExplicitRatio float64        `json:"explicitRatio"`
	Durations     Durations      `json:"durationsMs"`
	Eras          map[string]int `json:"eras"`
}

// Bucket maps a genre to its family, or to its lowercase self.
func Bucket(genre string) string {
	g := strings.ToLower(genre)
	if b, ok := genreBuckets[g]; ok {
		return b
	}
	return g
}

// Decade returns "1990s" for a release date starting "1993", or "" when the
// date has no four-digit year.
func Decade(releaseDate string) string {
	if len(releaseDate) < 4 {
		return ""
	}
	year := releaseDate[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year[:3] + "0s"
}

// BuildVector summarises top artists and tracks.
func BuildVector(artists []spotify.Artist, tracks []spotify.Track) Vector {
	v := Vector{
		GenreCounts: make(map[string]int),
		Eras:        make(map[string]int),
	}

	var pops []int
	for _, a := range artists {
		for _, g := range a.Genres {
			v.GenreCounts[Bucket(g)]++
		}
		if a.Popularity != nil {
			pops = append(pops, *a.Popularity)
		}
	}

	var explicit int
	var durs []float64
	for _, t := range tracks {
		if t.Popularity != nil {
			pops = append(pops, *t.Popularity)
		}
		if t.Explicit {
			explicit++
		}
		if t.DurationMs > 0 {
			durs = append(durs, float64(t.DurationMs))
		}
		if era := Decade(t.Album.ReleaseDate); era != "" {
			v.Eras[era]++
		}
	}

	v.PopularityAvg = DefaultPopularity
	if len(pops) > 0 {
		sum := 0
		for _, p := range pops {
			sum += p
		}
		v.PopularityAvg = float64(sum) / float64(len(pops))
	}
	if len(tracks) > 0 {
		v.ExplicitRatio = float64(explicit) / float64(len(tracks))
	}

	v.Durations.Mean = DefaultDurationMs
	if len(durs) > 0 {
		var sum float64
		for _, d := range durs {
			sum += d
		}
		mean := sum / float64(len(durs))
		var sq float64
		for _, d := range durs {
			sq += (d - mean) * (d - mean)
		}
		v.Durations = Durations{Mean: mean, Std: math.Sqrt(sq / float64(len(durs)))}
	}
	return v
}

// Entropy is the Shannon entropy in bits of counts, scaled by 1/5 and capped
// at 1.
func Entropy(counts map[string]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p+1e-12)
	}
	return math.Min(1, h/5)
}

// TopGenre returns the most frequent genre bucket, or "default" when there
// are none.
func (v Vector) TopGenre() string {
	return argmax(v.GenreCounts, "default")
}

// TopEra returns the most frequent release decade, or DefaultEra.
func (v Vector) TopEra() string {
	return argmax(v.Eras, DefaultEra)
}

// argmax breaks ties by the lexically smallest key so the result does not
// depend on map order.
func argmax(counts map[string]int, fallback string) string {
	best, bestN := fallback, 0
	for _, k := range sortedKeys(counts) {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
