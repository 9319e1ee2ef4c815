package glow

import (
	"strings"

	"github.com/okian/glowplan/internal/domain/model"
)

// MergePalette returns preferred colors first, then base colors, with
// case-insensitive duplicates and blanks removed, truncated to
// model.MaxPaletteSize. Neither input is modified.
func MergePalette(preferred, base []string) []string {
	out := make([]string, 0, model.MaxPaletteSize)
	seen := make(map[string]struct{}, len(preferred)+len(base))

	for _, list := range [][]string{preferred, base} {
		for _, c := range list {
			c = strings.TrimSpace(c)
			key := strings.ToLower(c)
			if c == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, c)
			if len(out) == model.MaxPaletteSize {
				return out
			}
		}
	}
	return out
}

// basePalette picks the five-color table for an energy label, falling back
// to the category palette.
func basePalette(energy string, cat model.Category) []string {
	if p, ok := energyPalettes[strings.ToLower(strings.TrimSpace(energy))]; ok {
		return p
	}
	return pick(categoryPalettes, cat)
}
