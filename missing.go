package mondoc

// missingType is the type of the Missing sentinel.
type missingType struct{}

func (missingType) String() string { return "<missing>" }

// Missing marks a value that is absent altogether, as opposed to nil which
// is an explicit null. Codec paths propagate Missing unchanged.
var Missing any = missingType{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missingType)
	return ok
}
