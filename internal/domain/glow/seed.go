package glow

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/okian/glowplan/internal/domain/model"
)

// Seed parameters. The glow score lives in [scoreBase, scoreBase+seedModulus-1].
const (
	seedModulus = 10
	scoreBase   = 88
)

var faceShapes = []string{"Oval", "Square", "Round", "Heart", "Diamond"}

// Seed hashes the canonical input tuple into [0, seedModulus). It is a pure
// function: the same moment type and baseline always give the same seed.
func Seed(momentType string, b model.Baseline) int {
	b = b.Normalized()
	canon := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(momentType)),
		string(b.Identity),
		string(b.HairCoverage),
		strings.ToLower(b.StyleEnergy),
	}, "|")
	return int(xxhash.Sum64String(canon) % seedModulus)
}

// GlowScore maps a seed onto the score band.
func GlowScore(seed int) int {
	return scoreBase + seed%seedModulus
}

// FaceShape picks the face-shape label for a seed.
func FaceShape(seed int) string {
	return faceShapes[seed%len(faceShapes)]
}
