package dashboard

import "strings"

// CriticalThreshold is the issue count above which a room is critical
const CriticalThreshold = 10

// Status distribution labels
const (
	BucketVerified = "Verificada"
	BucketReview   = "Revisar"
	BucketCritical = "Crítico"
	BucketPending  = "Pendente"
)

// Colours shared by the status chart and the 3D viewer
const (
	ColorVerified = "#22C55E"
	ColorReview   = "#EAB308"
	ColorCritical = "#EF4444"
	ColorPending  = "#9CA3AF"
)

// bucketOrder is the output order of StatusDistribution
var bucketOrder = []struct{ label, color string }{
	{BucketVerified, ColorVerified},
	{BucketReview, ColorReview},
	{BucketCritical, ColorCritical},
	{BucketPending, ColorPending},
}

// verifiedStatuses count towards salasVerificadas
var verifiedStatuses = map[string]bool{
	"VERIFICADA": true,
	"REVISAR":    true,
	"EM REVISÃO": true,
}

func normalizeStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsVerified reports whether a room status counts as verified
func IsVerified(status string) bool {
	return verifiedStatuses[normalizeStatus(status)]
}

// IsReleased reports whether the secondary status carries the release marker
func IsReleased(statusRA *string) bool {
	if statusRA == nil {
		return false
	}
	return strings.Contains(normalizeStatus(*statusRA), "LIBERADO")
}

// IsCritical reports whether a room has more issues than CriticalThreshold
func IsCritical(issues int64) bool {
	return issues > CriticalThreshold
}

// Classify places a room in exactly one status bucket. Critical takes
// precedence over any status label.
func Classify(status string, issues int64) string {
	if IsCritical(issues) {
		return BucketCritical
	}
	switch normalizeStatus(status) {
	case "VERIFICADA":
		return BucketVerified
	case "EM REVISÃO", "REVISAR":
		return BucketReview
	}
	return BucketPending
}

// RoomColor derives the viewer colour of a room. Unlike Classify it matches
// status keywords anywhere in the label.
func RoomColor(status string, issues int64) string {
	if IsCritical(issues) {
		return ColorCritical
	}
	s := strings.ToUpper(status)
	switch {
	case strings.Contains(s, "VERIFICADA"):
		return ColorVerified
	case strings.Contains(s, "REVISÃO"), strings.Contains(s, "REVISAR"):
		return ColorReview
	case strings.Contains(s, "CRÍTICO"):
		return ColorCritical
	}
	return ColorPending
}

// EmptyDistribution is the status distribution of an empty dataset
func EmptyDistribution() []StatusBucket {
	out := make([]StatusBucket, 0, len(bucketOrder))
	for _, b := range bucketOrder {
		out = append(out, StatusBucket{Status: b.label, Color: b.color})
	}
	return out
}
