package border

var adminLevels = map[string]int{
	"2":  2,
	"3":  3,
	"4":  4,
	"5":  5,
	"6":  6,
	"7":  7,
	"8":  8,
	"9":  9,
	"10": 10,
	"11": 11,
	"12": 12,
}

// ParseAdminLevel maps an admin_level tag value to its rank.
// Values outside of the known table are reported as not found.
func ParseAdminLevel(value string) (int, bool) {
	level, ok := adminLevels[value]
	return level, ok
}
