package adapter

import "strings"

// Board is one configured item of a source: a company board, a Lever site
// or a feed URL, plus the name to show for it.
type Board struct {
	ID   string
	Name string
}

func (b Board) label() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}

// cleanBoards trims identifiers, drops boards without one and defaults the
// display name to the identifier.
func cleanBoards(boards []Board) []Board {
	out := make([]Board, 0, len(boards))
	for _, b := range boards {
		b.ID = strings.TrimSpace(b.ID)
		b.Name = strings.TrimSpace(b.Name)
		if b.ID == "" {
			continue
		}
		if b.Name == "" {
			b.Name = b.ID
		}
		out = append(out, b)
	}
	return out
}
