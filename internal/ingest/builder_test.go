package ingest

import (
	"testing"
	"time"

	"github.com/medha-kiot/command-center/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{raw: "leader@@", expected: "leader@"},
		{raw: "maheshmurugan2303@gmail.com@", expected: "maheshmurugan2303@gmail.com"},
		{raw: " lead@college.edu ", expected: "lead@college.edu"},
		{raw: "a@b@c", expected: "a@b@c"},
		{raw: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEmail(tt.raw))
		})
	}
}

func TestFormatTrack(t *testing.T) {
	assert.Equal(t, "Software — AI", FormatTrack("Software", "AI"))
	assert.Equal(t, "Software", FormatTrack("Software", ""))
	assert.Equal(t, "AI", FormatTrack("", "AI"))
}

func TestBuildRecord(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	prov := model.Provenance{Source: "day1.xlsx", CreatedAt: now, LastModified: now}

	tests := []struct {
		name  string
		draft Draft
		check func(t *testing.T, rec model.TeamRecord)
	}{
		{
			name:  "total members falls back to declared counts",
			draft: Draft{TeamName: "Alpha", Boys: 2, Girls: 3},
			check: func(t *testing.T, rec model.TeamRecord) {
				assert.Equal(t, 5, rec.Counts.TotalMembers)
				assert.Equal(t, []model.Member{}, rec.Members)
			},
		},
		{
			name: "total members prefers extracted members",
			draft: Draft{TeamName: "Beta", Members: []model.Member{
				{Name: "A"}, {Name: "B"},
			}},
			check: func(t *testing.T, rec model.TeamRecord) {
				assert.Equal(t, 2, rec.Counts.TotalMembers)
				assert.Equal(t, 0, rec.Counts.Boys)
			},
		},
		{
			name:  "accommodation is a case-insensitive yes",
			draft: Draft{TeamName: "Gamma", Accommodation: " YES "},
			check: func(t *testing.T, rec model.TeamRecord) {
				assert.True(t, rec.Accommodation)
			},
		},
		{
			name:  "anything else is no accommodation",
			draft: Draft{TeamName: "Delta", Accommodation: "Yes, 2 rooms"},
			check: func(t *testing.T, rec model.TeamRecord) {
				assert.False(t, rec.Accommodation)
			},
		},
		{
			name:  "key, email and track are derived",
			draft: Draft{TeamName: "  Byte Busters ", LeaderEmail: "lead@x.in@", Track: "Hardware", SubTrack: "IoT"},
			check: func(t *testing.T, rec model.TeamRecord) {
				assert.Equal(t, "byte busters", rec.TeamKey)
				assert.Equal(t, "lead@x.in", rec.Leader.Email)
				assert.Equal(t, "Hardware — IoT", rec.Track)
			},
		},
		{
			name:  "attendance starts empty",
			draft: Draft{TeamName: "Epsilon"},
			check: func(t *testing.T, rec model.TeamRecord) {
				assert.Equal(t, model.NewAttendanceState(), rec.Attendance)
				assert.Nil(t, rec.QR.Token)
				assert.Equal(t, prov, rec.Provenance)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, BuildRecord(tt.draft, prov))
		})
	}
}
