// Package idgen generates record identifiers of the form
// <prefix>_<unix millis>_<9 base36 chars>.
package idgen

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const suffixLen = 9

// Generator creates identifiers. Now is swappable for tests.
type Generator struct {
	Now func() time.Time
}

// Default is the process-wide generator
var Default = &Generator{Now: time.Now}

// New returns a fresh identifier with the given prefix
func (g *Generator) New(prefix string) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return prefix + "_" + strconv.FormatInt(now().UnixMilli(), 10) + "_" + randomSuffix()
}

// HasPrefix reports whether id was generated with prefix
func HasPrefix(id, prefix string) bool {
	parts := strings.Split(id, "_")
	return len(parts) == 3 && parts[0] == prefix && len(parts[2]) == suffixLen
}

func randomSuffix() string {
	u := uuid.New()
	s := strconv.FormatUint(binary.BigEndian.Uint64(u[:8]), 36)
	if len(s) < suffixLen {
		s = strings.Repeat("0", suffixLen-len(s)) + s
	}
	return s[:suffixLen]
}
