package perm

// Page is one navigable section of the dashboard. The key doubles as
// the permission matrix column key, so the order here drives both the
// matrix editor and the navigation menu.
type Page struct {
	Key   string
	Label string
}

const (
	PageOverview          = "overview"
	PageEmployees         = "employees"
	PageCandidates        = "candidates"
	PageDepartments       = "departments"
	PageLeaves            = "leaves"
	PageAttendance        = "attendance"
	PageTickets           = "tickets"
	PageSchedule          = "schedule"
	PageWorkSchedules     = "work-schedules"
	PageJobGenerator      = "job-description-generator"
	PageScheduleReminders = "send-schedule-reminders"
	PageRoles             = "roles"
	PageSeedDatabase      = "seed-database"
	PageProfile           = "profile"
	PageErrors            = "errors"
)

var Pages = []Page{
	{PageOverview, "Overview"},
	{PageEmployees, "Employees"},
	{PageCandidates, "Candidates"},
	{PageDepartments, "Departments"},
	{PageLeaves, "Leave Requests"},
	{PageAttendance, "Attendance"},
	{PageTickets, "Tickets"},
	{PageSchedule, "My Schedule"},
	{PageWorkSchedules, "All Schedules"},
	{PageJobGenerator, "AI Job Generator"},
	{PageScheduleReminders, "Schedule Reminders"},
	{PageRoles, "Roles"},
	{PageSeedDatabase, "Seed Database"},
	{PageProfile, "My Profile"},
	{PageErrors, "Error Log"},
}

func ValidPage(key string) bool {
	for _, p := range Pages {
		if p.Key == key {
			return true
		}
	}
	return false
}
