package protocol

// Sentinel alphabet of the wire form. These tokens are part of the wire
// format and must not change.
const (
	// SentinelLead is the lead character shared by the element marker
	// and the string escape prefix.
	SentinelLead = '$'

	// ElementMarker is the reserved token that marks an object as an
	// element node. It appears only as the value of TypeofField.
	ElementMarker = "$RE"

	// TypeofField is the element object field that holds ElementMarker.
	TypeofField = "$$typeof"
)

// Element object field names.
const (
	fieldType  = "type"
	fieldKey   = "key"
	fieldProps = "props"
)

// EscapeString prepares an application string for the wire. A string that
// starts with SentinelLead gets one more SentinelLead in front, so that no
// application string can be mistaken for ElementMarker.
//
//	"hello" → "hello"
//	"$RE"   → "$$RE"
//	"$$5"   → "$$$5"
func EscapeString(s string) string {
	if len(s) > 0 && s[0] == SentinelLead {
		return string(SentinelLead) + s
	}
	return s
}

// UnescapeString reverses EscapeString: exactly one leading SentinelLead
// is stripped. The bare ElementMarker is not an application string; use
// IsElementMarker before calling UnescapeString.
func UnescapeString(s string) string {
	if len(s) > 0 && s[0] == SentinelLead {
		return s[1:]
	}
	return s
}

// IsElementMarker reports whether a wire string is the bare element marker.
func IsElementMarker(s string) bool {
	return s == ElementMarker
}
