package mondoc

// World selects which representation a validation projection targets.
type World int

const (
	// WorldObject is the in-memory, application-facing representation.
	// Absent values stay absent rather than surfacing as nil.
	WorldObject World = iota
	// WorldMongo is the storage representation. Field keys follow storage
	// attribute names (for example "_id" instead of "id").
	WorldMongo
)

func (w World) String() string {
	if w == WorldMongo {
		return "mongo"
	}
	return "object"
}
