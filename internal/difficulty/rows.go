package difficulty

// Competition levels as QBReader names them.
const (
	LevelMiddleSchool = "Middle School"
	LevelHSEasy       = "High School Easy"
	LevelHSRegular    = "High School Regular"
	LevelHSNationals  = "High School Nationals"
	LevelCollegeEasy  = "College Easy"
	LevelCollegeMed   = "College Medium"
	LevelCollegeReg   = "College Regionals"
	LevelOpen         = "Open / College Nats"
)

// DefaultRows returns the calibrated QBReader table.
//
// High School Nationals and College Easy share an easy anchor and are
// interchangeable. Open / College Nats rows can pull from either the
// college nationals (8) or open (9) difficulty.
func DefaultRows() []Row {
	return []Row{
		{Level: LevelMiddleSchool, Part: PartEasy, Anchor: -4.2, Codes: []int{1}, PartIndex: 0},
		{Level: LevelHSEasy, Part: PartEasy, Anchor: -2.5, Codes: []int{2}, PartIndex: 0},
		{Level: LevelHSRegular, Part: PartEasy, Anchor: -2.0, Codes: []int{3}, PartIndex: 0},
		{Level: LevelMiddleSchool, Part: PartMedium, Anchor: -1.7, Codes: []int{1}, PartIndex: 1},

		{Level: LevelHSNationals, Part: PartEasy, Anchor: -1.3, Codes: []int{5}, PartIndex: 0},
		{Level: LevelCollegeEasy, Part: PartEasy, Anchor: -1.3, Codes: []int{6}, PartIndex: 0},
		{Level: LevelHSEasy, Part: PartMedium, Anchor: -0.5, Codes: []int{2}, PartIndex: 1},
		{Level: LevelMiddleSchool, Part: PartHard, Anchor: -0.4, Codes: []int{1}, PartIndex: 2},

		{Level: LevelHSRegular, Part: PartMedium, Anchor: 0.0, Codes: []int{3}, PartIndex: 1},
		{Level: LevelCollegeEasy, Part: PartMedium, Anchor: 0.4, Codes: []int{6}, PartIndex: 1},
		{Level: LevelHSEasy, Part: PartHard, Anchor: 0.5, Codes: []int{2}, PartIndex: 2},
		{Level: LevelHSNationals, Part: PartMedium, Anchor: 0.6, Codes: []int{5}, PartIndex: 1},
		{Level: LevelCollegeMed, Part: PartMedium, Anchor: 0.6, Codes: []int{7}, PartIndex: 1},

		{Level: LevelHSRegular, Part: PartHard, Anchor: 0.8, Codes: []int{3}, PartIndex: 2},
		{Level: LevelCollegeReg, Part: PartMedium, Anchor: 1.0, Codes: []int{7}, PartIndex: 1},
		{Level: LevelOpen, Part: PartMedium, Anchor: 1.6, Codes: []int{8, 9}, PartIndex: 1},
		{Level: LevelCollegeEasy, Part: PartHard, Anchor: 1.7, Codes: []int{6}, PartIndex: 2},

		{Level: LevelCollegeMed, Part: PartHard, Anchor: 2.3, Codes: []int{7}, PartIndex: 2},
		{Level: LevelHSNationals, Part: PartHard, Anchor: 2.6, Codes: []int{5}, PartIndex: 2},
		{Level: LevelCollegeReg, Part: PartHard, Anchor: 2.7, Codes: []int{7}, PartIndex: 2},
		{Level: LevelOpen, Part: PartHard, Anchor: 3.3, Codes: []int{8, 9}, PartIndex: 2},
	}
}
