package model

// Medal labels after capitalization.
const (
	Gold   = "Gold"
	Silver = "Silver"
	Bronze = "Bronze"
)

// unrankedMedal sorts after every known medal.
const unrankedMedal = 4

// MedalRank orders medal labels Gold(1) < Silver(2) < Bronze(3).
// Any other label ranks 4 so it lands after Bronze.
func MedalRank(label string) int {
	switch label {
	case Gold:
		return 1
	case Silver:
		return 2
	case Bronze:
		return 3
	default:
		return unrankedMedal
	}
}

// IsMedal reports whether label is one of the three medal labels.
func IsMedal(label string) bool {
	return MedalRank(label) != unrankedMedal
}
