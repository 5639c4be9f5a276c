package code

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

var adjectives = []string{"Dragon", "Stone", "Iron", "Golden", "Silver", "Crystal", "Shadow", "Fire"}

var nouns = []string{"Keep", "Tower", "Fort", "Hold", "Bastion", "Castle", "Stronghold", "Citadel"}

const (
	minNumber = 100
	maxNumber = 999
)

// Source is the part of *rand.Rand the generator needs.
type Source interface {
	Intn(n int) int
}

// Generate builds a code such as DRAGON-KEEP-482 from src. Codes are not
// unique by construction; callers detect collisions.
func Generate(src Source) string {
	adjective := adjectives[src.Intn(len(adjectives))]
	noun := nouns[src.Intn(len(nouns))]
	number := minNumber + src.Intn(maxNumber-minNumber+1)
	return strings.ToUpper(fmt.Sprintf("%s-%s-%d", adjective, noun, number))
}

// NewGenerator returns a Generate bound to a seeded source that is safe to
// call from several goroutines.
func NewGenerator(seed int64) func() string {
	r := rand.New(rand.NewSource(seed))
	var lock sync.Mutex
	return func() string {
		lock.Lock()
		defer lock.Unlock()
		return Generate(r)
	}
}
