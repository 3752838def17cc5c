package border

import (
	"sort"
	"strings"
	"unicode"
)

const (
	territoryListSeparator = ";"
	territoryQuoteChar     = '"'
)

func isTerritoryTrimRune(r rune) bool {
	return unicode.IsSpace(r) || r == territoryQuoteChar
}

// ParseTerritoryList splits a "claimed_by" or "disputed_by" style value into its territory codes.
// Empty tokens are dropped. The result is neither sorted nor de-duplicated.
func ParseTerritoryList(value string) []string {
	var territories []string
	for _, token := range strings.Split(value, territoryListSeparator) {
		token = strings.TrimFunc(token, isTerritoryTrimRune)
		if token == "" {
			continue
		}
		territories = append(territories, token)
	}
	return territories
}

// SortUnique sorts the list in place and returns it with duplicates removed
func SortUnique(list []string) []string {
	if len(list) == 0 {
		return list
	}

	sort.Strings(list)

	unique := list[:1]
	for _, item := range list[1:] {
		if item == unique[len(unique)-1] {
			continue
		}
		unique = append(unique, item)
	}
	return unique
}

// Subtract returns the items of sortedList that are not in sortedToRemove. Both lists must be sorted.
func Subtract(sortedList, sortedToRemove []string) []string {
	var result []string
	i := 0
	for _, item := range sortedList {
		for i < len(sortedToRemove) && sortedToRemove[i] < item {
			i++
		}
		if i < len(sortedToRemove) && sortedToRemove[i] == item {
			continue
		}
		result = append(result, item)
	}
	return result
}
