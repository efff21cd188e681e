package idgen

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Format(t *testing.T) {
	g := &Generator{Now: func() time.Time { return time.UnixMilli(1700000000123) }}

	id := g.New("comp")
	assert.Regexp(t, regexp.MustCompile(`^comp_1700000000123_[0-9a-z]{9}$`), id)
	assert.True(t, HasPrefix(id, "comp"))
	assert.False(t, HasPrefix(id, "kit"))
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := Default.New("loan")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
