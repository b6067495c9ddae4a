package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"talentscout-bot/internal/candidate"
)

// HashPII returns the SHA-256 hex digest of value.
func HashPII(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Redact builds the stored form of a candidate: email and phone replaced by
// their digests, stamped with savedAt.
func Redact(c candidate.Complete, savedAt time.Time) StoredCandidate {
	return StoredCandidate{
		FullName:        c.FullName,
		YearsExperience: c.YearsExperience,
		DesiredPosition: c.DesiredPosition,
		CurrentLocation: c.CurrentLocation,
		TechStack:       append([]string(nil), c.TechStack...),
		Consent:         c.Consent,
		EmailHashed:     HashPII(c.Email),
		PhoneHashed:     HashPII(c.Phone),
		SavedAt:         savedAt.Unix(),
	}
}
