package store

// Document keys, one collection per key. The edusync_ prefix is the
// portal's storage namespace and doubles as the on-disk file name for
// the file backend.
const (
	keyStudents      = "edusync_students"
	keyTeachers      = "edusync_teachers"
	keyGrades        = "edusync_grades"
	keyFees          = "edusync_fees"
	keyNotes         = "edusync_notes"
	keyAttendance    = "edusync_attendance_logs"
	keyUsers         = "edusync_registered_users"
	keySessions      = "edusync_sessions"
	keyFeeStructures = "edusync_fee_structure"
	keySchoolProfile = "edusync_school_profile"
	keyCurrentUser   = "edusync_user"
)
