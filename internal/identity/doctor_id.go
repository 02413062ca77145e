package identity

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// NewDoctorID builds a public doctor identifier from the email local part:
// "DR" + first 3 letters uppercased + 2-digit year + 3 random digits.
// The suffix is random, so callers must collision-check against the store.
func NewDoctorID(email string, now time.Time) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}

	prefix := strings.ToUpper(local)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	year := now.Year() % 100

	return fmt.Sprintf("DR%s%02d%03d", prefix, year, rand.Intn(1000))
}
