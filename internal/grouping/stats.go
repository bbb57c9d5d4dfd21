package grouping

// Stats are the display counts shown next to a grouping pass.
type Stats struct {
	Products  int `json:"products" yaml:"products"`
	Groups    int `json:"groups" yaml:"groups"`
	Removable int `json:"removable" yaml:"removable"`
}

// Summarize counts products, groups and the total length of all duplicate
// lists. A product sitting in several groups is counted once per group.
func Summarize(productCount int, groups []Group) Stats {
	s := Stats{Products: productCount, Groups: len(groups)}
	for _, g := range groups {
		s.Removable += len(g.Duplicates)
	}
	return s
}
