package contest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two coordinates using
// the haversine formula. Accuracy within ~0.5% is plenty for ranking guesses.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// MaskEmail renders an address safe for the public leaderboard: first
// character of the local part, asterisks, then the domain.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at+1:]
	if len(local) == 1 {
		return fmt.Sprintf("%s***@%s", local, domain)
	}
	return fmt.Sprintf("%s%s@%s", local[:1], strings.Repeat("*", len(local)-1), domain)
}

// TargetCommitment returns a salted hash of the secret coordinates. Published
// up front so nobody can claim the target moved after the fact; the salt is
// revealed with the target when the contest closes.
func TargetCommitment(lat, lng float64, salt string) string {
	payload := fmt.Sprintf("%.6f:%.6f:%s", lat, lng, salt)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
