package genkore

import (
	"sort"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Suggest returns the items of haystack within maxDist edits of needle,
// closest first.
func Suggest(needle string, haystack []string, maxDist int) []string {
	r := []rune(needle)
	options := make(suggestions, 0, len(haystack))
	for _, straw := range haystack {
		dist := levenshtein.DistanceForStrings(r, []rune(straw), levenshtein.DefaultOptions)
		if len(straw) > 0 && dist <= maxDist {
			options = append(options, suggestion{s: straw, dist: dist})
		}
	}
	sort.Stable(options)
	res := make([]string, len(options))
	for i, o := range options {
		res[i] = o.s
	}
	return res
}

type suggestion struct {
	s    string
	dist int
}

type suggestions []suggestion

func (s suggestions) Len() int           { return len(s) }
func (s suggestions) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s suggestions) Less(i, j int) bool { return s[i].dist < s[j].dist }
