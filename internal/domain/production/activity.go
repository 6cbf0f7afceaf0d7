package production

import "fmt"

// Activity is the kind of industry work a template performs
type Activity string

const (
	ActivityManufacturing    Activity = "MANUFACTURING"
	ActivityCopying          Activity = "COPYING"
	ActivityInvention        Activity = "INVENTION"
	ActivityResearchTime     Activity = "RESEARCH_TIME"
	ActivityResearchMaterial Activity = "RESEARCH_MATERIAL"
)

// IsValid reports whether the activity is one of the known activities
func (a Activity) IsValid() bool {
	switch a {
	case ActivityManufacturing, ActivityCopying, ActivityInvention,
		ActivityResearchTime, ActivityResearchMaterial:
		return true
	}
	return false
}

// ParseActivity converts a string into an Activity
func ParseActivity(s string) (Activity, error) {
	a := Activity(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown activity: %q", s)
	}
	return a, nil
}

// JobMode decides how a job is started once all of its prerequisites have finished
type JobMode string

const (
	// JobModeAutomatic - the job starts at its pre-computed start date
	JobModeAutomatic JobMode = "AUTOMATIC"

	// JobModeManual - someone has to confirm the job was actually started
	JobModeManual JobMode = "MANUAL"
)

// ParseJobMode converts a string into a JobMode; empty means AUTOMATIC
func ParseJobMode(s string) (JobMode, error) {
	switch JobMode(s) {
	case "", JobModeAutomatic:
		return JobModeAutomatic, nil
	case JobModeManual:
		return JobModeManual, nil
	}
	return "", fmt.Errorf("unknown job mode: %q", s)
}
