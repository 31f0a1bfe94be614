package model

type DuplicateTeam struct {
	TeamName    string `json:"teamName"`
	TeamKey     string `json:"teamKey"`
	Source      string `json:"source"`
	Row         int    `json:"row"`
	FirstSource string `json:"firstSource"`
}

type IngestReport struct {
	Files       []string        `json:"files"`
	RowsRead    int             `json:"rowsRead"`
	BlankRows   int             `json:"blankRows"`
	Duplicates  []DuplicateTeam `json:"duplicates"`
	UniqueTeams int             `json:"uniqueTeams"`
	Saved       int             `json:"saved"`
}
