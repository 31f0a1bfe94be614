package model

import "time"

type Member struct {
	Name       string `json:"name"`
	Department string `json:"dept"`
}

type Leader struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	AltPhone string `json:"altPhone,omitempty"`
}

type Affiliation struct {
	College  string `json:"collegeName"`
	District string `json:"district"`
	State    string `json:"state"`
}

type Counts struct {
	Boys         int `json:"boysCount"`
	Girls        int `json:"girlsCount"`
	TotalMembers int `json:"totalMembers"`
}

// AttendanceState is owned by the attendance subsystem. Ingestion only creates
// it in its empty form.
type AttendanceState struct {
	Status          *string            `json:"attendanceStatus"`
	PresentCount    *int               `json:"presentCount"`
	AbsentCount     *int               `json:"absentCount"`
	CheckedIn       bool               `json:"checkedIn"`
	CheckedInBy     *string            `json:"checkedInBy"`
	CheckedInByName *string            `json:"checkedInByName"`
	CheckedInAt     *time.Time         `json:"checkedInAt"`
	Round           *string            `json:"attendanceRound"`
	Locked          bool               `json:"attendanceLocked"`
	Records         []AttendanceRecord `json:"attendanceRecords"`
}

type AttendanceRecord struct {
	Round        string    `json:"round"`
	Status       string    `json:"status"`
	PresentCount int       `json:"presentCount"`
	AbsentCount  int       `json:"absentCount"`
	MarkedBy     string    `json:"markedBy"`
	MarkedAt     time.Time `json:"markedAt"`
}

type QRState struct {
	Token       *string    `json:"qrToken"`
	GeneratedAt *time.Time `json:"qrGeneratedAt"`
}

type Provenance struct {
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

// TeamRecord is the canonical document for one registered team.
type TeamRecord struct {
	TeamName      string          `json:"teamName"`
	TeamKey       string          `json:"teamNameLower"`
	Leader        Leader          `json:"leader"`
	Affiliation   Affiliation     `json:"affiliation"`
	Members       []Member        `json:"members"`
	Counts        Counts          `json:"counts"`
	Track         string          `json:"track"`
	Project       string          `json:"projectTitle"`
	Accommodation bool            `json:"accommodation"`
	TransactionID string          `json:"transactionId"`
	Attendance    AttendanceState `json:"attendance"`
	QR            QRState         `json:"qr"`
	Provenance    Provenance      `json:"provenance"`
}

// NewAttendanceState returns the empty state every new team starts with.
func NewAttendanceState() AttendanceState {
	return AttendanceState{Records: []AttendanceRecord{}}
}
