package identity

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var doctorIDPattern = regexp.MustCompile(`^DR[A-Z0-9.]{0,3}\d{2}\d{3}$`)

func TestNewDoctorID_Format(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	id := NewDoctorID("johndoe@example.com", now)

	if !strings.HasPrefix(id, "DRJOH26") {
		t.Errorf("id = %q, want prefix DRJOH26", id)
	}
	if !doctorIDPattern.MatchString(id) {
		t.Errorf("id = %q does not match expected shape", id)
	}
}

func TestNewDoctorID_ShortLocalPart(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	id := NewDoctorID("jo@example.com", now)

	if !strings.HasPrefix(id, "DRJO26") {
		t.Errorf("id = %q, want prefix DRJO26", id)
	}
}

func TestNewDoctorID_NoAtSign(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	id := NewDoctorID("smith", now)

	if !strings.HasPrefix(id, "DRSMI26") {
		t.Errorf("id = %q, want prefix DRSMI26", id)
	}
}

func TestNewDoctorID_SuffixIsNumeric(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		id := NewDoctorID("alice@example.com", now)
		suffix := id[len(id)-3:]
		for _, r := range suffix {
			if r < '0' || r > '9' {
				t.Fatalf("id %q suffix %q is not numeric", id, suffix)
			}
		}
	}
}
