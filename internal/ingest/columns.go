package ingest

import "strings"

// Field is a logical column of the registration sheet.
type Field string

const (
	FieldTeamName      Field = "team_name"
	FieldLeaderName    Field = "leader_name"
	FieldPhone         Field = "phone"
	FieldAltPhone      Field = "alt_phone"
	FieldEmail         Field = "email"
	FieldCollege       Field = "college"
	FieldDistrict      Field = "district"
	FieldState         Field = "state"
	FieldBoys          Field = "boys"
	FieldGirls         Field = "girls"
	FieldTrack         Field = "track"
	FieldSubTrack1     Field = "sub_track_1"
	FieldSubTrack2     Field = "sub_track_2"
	FieldProject       Field = "project"
	FieldAccommodation Field = "accommodation"
	FieldTransactionID Field = "transaction_id"

	FieldMember1Name Field = "member_1_name"
	FieldMember1Dept Field = "member_1_dept"
	FieldMember2Name Field = "member_2_name"
	FieldMember2Dept Field = "member_2_dept"
	FieldMember3Name Field = "member_3_name"
	FieldMember3Dept Field = "member_3_dept"
	FieldMember4Name Field = "member_4_name"
	FieldMember4Dept Field = "member_4_dept"
)

// MemberSlots lists the four fixed member column pairs in slot order.
var MemberSlots = [4][2]Field{
	{FieldMember1Name, FieldMember1Dept},
	{FieldMember2Name, FieldMember2Dept},
	{FieldMember3Name, FieldMember3Dept},
	{FieldMember4Name, FieldMember4Dept},
}

// HeaderRule claims the first header that contains every Contains marker and
// none of the Excludes markers. Matching is case-insensitive.
type HeaderRule struct {
	Field    Field
	Contains []string
	Excludes []string
}

func (r HeaderRule) Match(header string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return false
	}
	for _, c := range r.Contains {
		if !strings.Contains(h, strings.ToLower(c)) {
			return false
		}
	}
	for _, x := range r.Excludes {
		if strings.Contains(h, strings.ToLower(x)) {
			return false
		}
	}
	return true
}

// DefaultHeaderRules is tuned to the registration form exports. The member
// department rules are brittle: the form repeats "Year & Dept" for every member
// and only the example text differs ("Eg: IV - ECE 2" for member 2). A reworded
// header leaves the field unresolved rather than failing the run.
var DefaultHeaderRules = []HeaderRule{
	{Field: FieldTeamName, Contains: []string{"team name"}},
	{Field: FieldLeaderName, Contains: []string{"team leader name"}},
	{Field: FieldPhone, Contains: []string{"phone number"}, Excludes: []string{"alternative"}},
	{Field: FieldAltPhone, Contains: []string{"alternative phone"}},
	{Field: FieldEmail, Contains: []string{"email id"}},
	{Field: FieldCollege, Contains: []string{"college name"}},
	{Field: FieldDistrict, Contains: []string{"district"}},
	{Field: FieldState, Contains: []string{"state"}, Excludes: []string{"statement"}},
	{Field: FieldBoys, Contains: []string{"team boys count"}},
	{Field: FieldGirls, Contains: []string{"team girls count"}},
	{Field: FieldTrack, Contains: []string{"problem statement track"}},
	{Field: FieldSubTrack1, Contains: []string{"track 1"}},
	{Field: FieldSubTrack2, Contains: []string{"track 2"}},
	{Field: FieldProject, Contains: []string{"title of the project"}},
	{Field: FieldAccommodation, Contains: []string{"accommodation"}},
	{Field: FieldTransactionID, Contains: []string{"transaction id"}},

	{Field: FieldMember1Name, Contains: []string{"name of the member 1"}},
	{Field: FieldMember1Dept, Contains: []string{"year & dept"}, Excludes: []string{"2", "3", "4"}},
	{Field: FieldMember2Name, Contains: []string{"name of the member 2"}},
	{Field: FieldMember2Dept, Contains: []string{"eg: iv - ece 2"}},
	{Field: FieldMember3Name, Contains: []string{"name of the member 3"}},
	{Field: FieldMember3Dept, Contains: []string{"eg: iv - ece 3"}},
	{Field: FieldMember4Name, Contains: []string{"name of the member 4"}},
	{Field: FieldMember4Dept, Contains: []string{"eg: iv - ece 4"}},
}

// ColumnMap resolves a Field to its column index in a sheet.
type ColumnMap map[Field]int

func (m ColumnMap) Index(f Field) (int, bool) {
	i, ok := m[f]
	return i, ok
}

// ResolveColumns applies DefaultHeaderRules to a header row.
func ResolveColumns(header []string) ColumnMap {
	return ResolveColumnsWith(DefaultHeaderRules, header)
}

// ResolveColumnsWith never fails: fields without a matching header are simply
// absent from the result.
func ResolveColumnsWith(rules []HeaderRule, header []string) ColumnMap {
	m := make(ColumnMap, len(rules))
	for _, rule := range rules {
		for i, h := range header {
			if rule.Match(h) {
				m[rule.Field] = i
				break
			}
		}
	}
	return m
}
