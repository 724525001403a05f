// Package fuzzy ranks candidate strings against a typed query.
//
// The command line uses it to complete ex commands: the characters typed
// so far must appear in a candidate in order, and candidates are ranked by
// how tightly and how early they match.
//
// # Scoring
//
// The default scorer favors:
//   - consecutive matched characters
//   - matches at word boundaries (after punctuation, camelCase humps)
//   - candidates starting with the query
//   - shorter candidates
//
// and penalizes gaps between matched characters.
//
// # Usage
//
//	m := fuzzy.NewMatcher(fuzzy.DefaultOptions())
//	for _, r := range m.Match("wq", []string{"w", "wq", "write"}, 0) {
//	    fmt.Println(r.Text, r.Score)
//	}
package fuzzy
