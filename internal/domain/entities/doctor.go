package entities

// Doctor represents a doctor offering a fixed weekly availability template.
// JSON field names follow the persisted snapshot layout consumed by the web clients.
type Doctor struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Specialization string   `json:"specialization"`
	Qualification  string   `json:"qualification"`
	Experience     int      `json:"experience"`
	AvailableSlots []string `json:"availableSlots"`
}

// Specializations is the fixed set of category labels doctors can be filed under.
var Specializations = []string{
	"Orthopedic",
	"Gynecologist",
	"ENT",
	"Cardiologist",
	"Dermatologist",
	"Neurologist",
	"Pediatrician",
	"General Physician",
}

// StandardTimeSlots is the canonical set of bookable slot labels offered to admins
// when building a doctor's availability template.
var StandardTimeSlots = []string{
	"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"01:00 PM", "02:00 PM", "03:00 PM", "04:00 PM",
	"05:00 PM", "06:00 PM",
}

// IsValidSpecialization reports whether label is one of the known categories.
func IsValidSpecialization(label string) bool {
	for _, s := range Specializations {
		if s == label {
			return true
		}
	}
	return false
}

// DedupeSlots returns slots with duplicate labels removed, preserving first-seen order.
// Doctor templates must never carry the same label twice.
func DedupeSlots(slots []string) []string {
	seen := make(map[string]struct{}, len(slots))
	result := make([]string, 0, len(slots))
	for _, slot := range slots {
		if _, ok := seen[slot]; ok {
			continue
		}
		seen[slot] = struct{}{}
		result = append(result, slot)
	}
	return result
}

// DoctorPatch carries a partial doctor update; nil fields are left untouched.
type DoctorPatch struct {
	Name           *string   `json:"name"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Specialization *string   `json:"specialization"`
	Qualification  *string   `json:"qualification"`
	Experience     *int      `json:"experience"`
	AvailableSlots *[]string `json:"availableSlots"`
}
