package ingest

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/medha-kiot/command-center/internal/model"
)

// Sentinels are literal cell values meaning "intentionally left blank".
// Comparison is exact after trimming; the list is never extended implicitly.
type Sentinels []string

func (s Sentinels) Contains(v string) bool {
	v = strings.TrimSpace(v)
	for _, x := range s {
		if v == x {
			return true
		}
	}
	return false
}

// Draft is one extracted row before derived fields are applied.
type Draft struct {
	TeamName      string
	LeaderName    string
	LeaderEmail   string
	LeaderPhone   string
	AltPhone      string
	College       string
	District      string
	State         string
	Boys          int
	Girls         int
	Track         string
	SubTrack      string
	Project       string
	Accommodation string
	TransactionID string
	Members       []model.Member
}

type Extractor struct {
	columns     ColumnMap
	sentinels   Sentinels
	countryCode string
}

func NewExtractor(columns ColumnMap, sentinels Sentinels, countryCode string) *Extractor {
	return &Extractor{
		columns:     columns,
		sentinels:   sentinels,
		countryCode: countryCode,
	}
}

// Extract returns false for rows whose team name is blank.
func (e *Extractor) Extract(row []string) (Draft, bool) {
	teamName := e.cell(row, FieldTeamName)
	if teamName == "" {
		return Draft{}, false
	}

	d := Draft{
		TeamName:      teamName,
		LeaderName:    e.cell(row, FieldLeaderName),
		LeaderEmail:   e.cell(row, FieldEmail),
		LeaderPhone:   ParsePhone(e.cell(row, FieldPhone), e.countryCode),
		AltPhone:      ParsePhone(e.cell(row, FieldAltPhone), e.countryCode),
		College:       e.cell(row, FieldCollege),
		District:      e.cell(row, FieldDistrict),
		State:         e.cell(row, FieldState),
		Boys:          ParseCount(e.cell(row, FieldBoys)),
		Girls:         ParseCount(e.cell(row, FieldGirls)),
		Track:         e.cell(row, FieldTrack),
		Project:       e.cell(row, FieldProject),
		Accommodation: e.cell(row, FieldAccommodation),
		TransactionID: e.cell(row, FieldTransactionID),
		Members:       e.Members(row),
	}

	if sub := e.cell(row, FieldSubTrack1); sub != "" {
		d.SubTrack = sub
	} else {
		d.SubTrack = e.cell(row, FieldSubTrack2)
	}

	return d, true
}

// Members walks the four member slots. A slot yields a member only when its
// name is non-empty and not a sentinel; a sentinel department becomes "".
func (e *Extractor) Members(row []string) []model.Member {
	members := make([]model.Member, 0, len(MemberSlots))
	for _, slot := range MemberSlots {
		name := e.cell(row, slot[0])
		if name == "" || e.sentinels.Contains(name) {
			continue
		}
		dept := e.cell(row, slot[1])
		if e.sentinels.Contains(dept) {
			dept = ""
		}
		members = append(members, model.Member{Name: name, Department: dept})
	}
	return members
}

func (e *Extractor) cell(row []string, f Field) string {
	i, ok := e.columns.Index(f)
	if !ok {
		return ""
	}
	return Cell(row, i)
}

// Cell returns the trimmed value at i, or "" when the row is shorter.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParsePhone strips whitespace, the ".0" left behind by numeric cells and the
// country code, then keeps digits only.
func ParsePhone(raw, countryCode string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	s = strings.TrimSuffix(s, ".0")
	if countryCode != "" {
		s = strings.ReplaceAll(s, countryCode, "")
	}
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ParseCount coerces a count cell to a non-negative integer. Empty or
// unparsable values count as zero.
func ParseCount(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}
