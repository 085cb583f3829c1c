package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// platformNamespace is the fixed UUID namespace under which platform
// ids are mapped. Changing it would orphan every existing agent
// session, so it is deliberately hardcoded.
var platformNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Resolve maps a numeric platform id onto its stable internal UUID.
// The mapping is deterministic: the same id always resolves to the
// same UUID, across processes and restarts.
func Resolve(platformID int64) uuid.UUID {
	name := fmt.Sprintf("platform:%d", platformID)
	return uuid.NewSHA1(platformNamespace, []byte(name))
}
