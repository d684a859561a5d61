package dto

// Timetable export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// TimetableExportQuery selects whose timetable is exported for a period.
type TimetableExportQuery struct {
	PeriodID  int64  `form:"period_id" validate:"required,gt=0"`
	GroupID   int64  `form:"group_id" validate:"gte=0"`
	TeacherID int64  `form:"teacher_id" validate:"gte=0"`
	RoomID    int64  `form:"room_id" validate:"gte=0"`
	Format    string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// TimetableFile is a rendered export ready to stream.
type TimetableFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
