package domain

// BoardColumn is one stage column of the pipeline board.
type BoardColumn struct {
	Status   string
	Label    string
	Funnel   FunnelGroup
	Montages []Montage
}

// ProjectBoard groups an already filtered and sorted montage list into stage
// columns, preserving montage order inside each column. Montages whose
// status is not in the given catalog subset land in a synthetic trailing
// "unknown" column rather than being dropped: losing sight of a montage is
// worse than a malformed bucket.
func ProjectBoard(sorted []Montage, stages []Stage) []BoardColumn {
	columns := make([]BoardColumn, len(stages))
	index := make(map[string]int, len(stages))
	for i, s := range stages {
		columns[i] = BoardColumn{Status: s.Value, Label: s.Label, Funnel: s.Funnel}
		index[s.Value] = i
	}

	var unknown []Montage
	for _, m := range sorted {
		i, ok := index[m.Status]
		if !ok {
			unknown = append(unknown, m)
			continue
		}
		columns[i].Montages = append(columns[i].Montages, m)
	}

	if len(unknown) > 0 {
		columns = append(columns, BoardColumn{
			Status:   StatusUnknown,
			Label:    StatusLabel(StatusUnknown),
			Funnel:   FunnelSpecial,
			Montages: unknown,
		})
	}

	return columns
}
