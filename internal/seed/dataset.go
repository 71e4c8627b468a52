package seed

// Embedded bootstrap dataset. Classroom ids are stable slugs that the rest
// of the application treats as opaque identifiers.

type classroomSeed struct {
	ID          string
	RoomNumber  string
	CourseType  string
	CourseLevel string
}

type studentSeed struct {
	ID       string
	Name     string
	Document string
}

var classrooms = []classroomSeed{
	{ID: "capacitacion-destino-1a", RoomNumber: "101", CourseType: "CAPACITACIÓN DESTINO", CourseLevel: "1A"},
	{ID: "capacitacion-destino-1b", RoomNumber: "102", CourseType: "CAPACITACIÓN DESTINO", CourseLevel: "1B"},
	{ID: "capacitacion-destino-2a", RoomNumber: "103", CourseType: "CAPACITACIÓN DESTINO", CourseLevel: "2A"},
	{ID: "capacitacion-destino-2b", RoomNumber: "104", CourseType: "CAPACITACIÓN DESTINO", CourseLevel: "2B"},
	{ID: "capacitacion-destino-3", RoomNumber: "105", CourseType: "CAPACITACIÓN DESTINO", CourseLevel: "3"},
	{ID: "escuela-ministerial-1", RoomNumber: "201", CourseType: "ESCUELA MINISTERIAL", CourseLevel: "1"},
	{ID: "escuela-ministerial-2a", RoomNumber: "202", CourseType: "ESCUELA MINISTERIAL", CourseLevel: "2A"},
	{ID: "escuela-ministerial-2b", RoomNumber: "203", CourseType: "ESCUELA MINISTERIAL", CourseLevel: "2B"},
	{ID: "escuela-ministerial-3", RoomNumber: "204", CourseType: "ESCUELA MINISTERIAL", CourseLevel: "3"},
}

var baseStudents = []studentSeed{
	{ID: "s1", Name: "Juan Pérez", Document: "12345"},
	{ID: "s2", Name: "Ana García", Document: "23456"},
	{ID: "s3", Name: "Luis Rodríguez", Document: "34567"},
	{ID: "s4", Name: "María Fernández", Document: "45678"},
	{ID: "s5", Name: "Carlos López", Document: "56789"},
	{ID: "s6", Name: "Laura Martínez", Document: "67890"},
	{ID: "s7", Name: "Pedro Gómez", Document: "78901"},
	{ID: "s8", Name: "Sofía Sánchez", Document: "89012"},
	{ID: "s9", Name: "Miguel Torres", Document: "90123"},
	{ID: "s10", Name: "Elena Ramírez", Document: "10234"},
	{ID: "s11", Name: "David Jiménez", Document: "11345"},
	{ID: "s12", Name: "Lucía Vázquez", Document: "12456"},
	{ID: "s13", Name: "Daniela Castro", Document: "13567"},
	{ID: "s14", Name: "Jorge Romero", Document: "14678"},
	{ID: "s15", Name: "Valeria Flores", Document: "15789"},
	{ID: "s16", Name: "Pablo Ortiz", Document: "16890"},
	{ID: "s17", Name: "Adriana Navarro", Document: "17901"},
	{ID: "s18", Name: "Mateo Gutiérrez", Document: "18012"},
	{ID: "s19", Name: "Camila Medina", Document: "19123"},
	{ID: "s20", Name: "Sergio Vargas", Document: "20234"},
}

// Rosters reference the base pool by slice so that levels share realistic
// overlapping cohorts.
var rostersByClassroom = map[string][]studentSeed{
	"capacitacion-destino-1a": baseStudents[0:5],
	"capacitacion-destino-1b": baseStudents[5:10],
	"capacitacion-destino-2a": baseStudents[10:15],
	"capacitacion-destino-2b": baseStudents[15:20],
	"capacitacion-destino-3":  baseStudents[0:8],
	"escuela-ministerial-1":   baseStudents[8:16],
	"escuela-ministerial-2a":  baseStudents[3:11],
	"escuela-ministerial-2b":  baseStudents[12:18],
	"escuela-ministerial-3":   baseStudents[0:10],
}

func (c classroomSeed) displayName() string {
	return "SALÓN " + c.RoomNumber + " - " + c.CourseType + " " + c.CourseLevel
}
