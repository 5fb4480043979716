// internal/domain/models/catalog.go
package models

// Branch codes offered in forms and filters. Stored branch values are
// uppercase codes from this list; older documents may hold other values and
// are matched exactly.
var Branches = []string{
	"CSE",
	"CSE-AIML",
	"CSE-DS",
	"CSE-CYBER",
	"IT",
	"BBA-LLB",
	"LLB",
	"BIOTECH",
	"BCA",
	"MTECH-CSE",
}

// EventCategories are the categories offered in the event form.
var EventCategories = []string{
	"Hackathon",
	"Workshop",
	"Seminar",
	"Cultural",
	"Sports",
	"Gaming",
}

// Venues are the venues offered in the event form.
var Venues = []string{
	"Auditorium",
	"Seminar Hall 1",
	"Seminar Hall 2",
	"Lab 101",
	"Ground",
	"Virtual",
}

// Semester range offered in forms. Zero on a profile means unknown.
const (
	MinSemester = 1
	MaxSemester = 10
)

// SemesterOptions returns MinSemester..MaxSemester.
func SemesterOptions() []int {
	out := make([]int, 0, MaxSemester-MinSemester+1)
	for n := MinSemester; n <= MaxSemester; n++ {
		out = append(out, n)
	}
	return out
}

// IsBranch reports whether code is one of Branches.
func IsBranch(code string) bool {
	for _, b := range Branches {
		if b == code {
			return true
		}
	}
	return false
}
