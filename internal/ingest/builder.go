package ingest

import (
	"strings"

	"github.com/medha-kiot/command-center/internal/model"
)

const trackSeparator = " — "

// TeamKey is the dedup identity of a team name.
func TeamKey(teamName string) string {
	return strings.ToLower(strings.TrimSpace(teamName))
}

// NormalizeEmail trims the address and drops one trailing "@", a common typo
// in the registration form. Interior "@" characters are kept.
func NormalizeEmail(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "@")
}

func FormatTrack(track, subTrack string) string {
	track = strings.TrimSpace(track)
	subTrack = strings.TrimSpace(subTrack)
	switch {
	case subTrack == "":
		return track
	case track == "":
		return subTrack
	default:
		return track + trackSeparator + subTrack
	}
}

// BuildRecord derives a full TeamRecord from a draft. It performs no I/O.
func BuildRecord(d Draft, p model.Provenance) model.TeamRecord {
	members := d.Members
	if members == nil {
		members = []model.Member{}
	}

	total := len(members)
	if total == 0 {
		total = d.Boys + d.Girls
	}

	return model.TeamRecord{
		TeamName: d.TeamName,
		TeamKey:  TeamKey(d.TeamName),
		Leader: model.Leader{
			Name:     d.LeaderName,
			Email:    NormalizeEmail(d.LeaderEmail),
			Phone:    d.LeaderPhone,
			AltPhone: d.AltPhone,
		},
		Affiliation: model.Affiliation{
			College:  d.College,
			District: d.District,
			State:    d.State,
		},
		Members: members,
		Counts: model.Counts{
			Boys:         d.Boys,
			Girls:        d.Girls,
			TotalMembers: total,
		},
		Track:         FormatTrack(d.Track, d.SubTrack),
		Project:       d.Project,
		Accommodation: strings.EqualFold(strings.TrimSpace(d.Accommodation), "yes"),
		TransactionID: d.TransactionID,
		Attendance:    model.NewAttendanceState(),
		Provenance:    p,
	}
}
