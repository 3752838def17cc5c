package border

import (
	"sort"
)

const (
	tagBoundary      = "boundary"
	tagAdminLevel    = "admin_level"
	tagDisputedBy    = "disputed_by"
	tagClaimedBy     = "claimed_by"
	boundaryAdmin    = "administrative"
	boundaryClaim    = "claim"
	boundaryDisputed = "disputed"
	yes              = "yes"
)

// IsBoundaryRelation reports whether a relation with these tags is one whose ways are extracted
func IsBoundaryRelation(tags Tags) bool {
	boundary, ok := tags.Find(tagBoundary)
	if !ok {
		return false
	}

	switch boundary {
	case boundaryAdmin, boundaryClaim, boundaryDisputed:
		return true
	default:
		return false
	}
}

func isDisputedWay(tags Tags) bool {
	return tags.HasTag("disputed", yes) ||
		tags.HasTag("dispute", yes) ||
		tags.HasTag("border_status", "dispute") ||
		tags.HasTag(tagBoundary, boundaryDisputed) ||
		tags.HasKey(tagDisputedBy)
}

func isMaritimeWay(tags Tags) bool {
	return tags.HasTag("maritime", yes) ||
		tags.HasTag("natural", "coastline") ||
		tags.HasTag("boundary_type", "maritime")
}

// Classify derives the classification of a way from its own tags and the tags of its parent relations,
// in the order the parents were discovered.
// It returns false if none of the parents has a recognised admin level; such a way is not output.
func Classify(wayTags Tags, parentTags []Tags) (Classification, bool) {
	classification := Classification{
		Disputed: isDisputedWay(wayTags),
		Maritime: isMaritimeWay(wayTags),
	}

	if disputedBy, ok := wayTags.Find(tagDisputedBy); ok {
		classification.DisputedBy = SortUnique(ParseTerritoryList(disputedBy))
	}

	var parentAdminLevels []int
	var claimedBy []string
	for _, tags := range parentTags {
		if tags.HasTag(tagBoundary, boundaryAdmin) {
			classification.Neutral = true
		}

		if tags.HasTag(tagBoundary, boundaryClaim) {
			classification.Disputed = true
		}

		if adminLevelValue, ok := tags.Find(tagAdminLevel); ok {
			if adminLevel, ok := ParseAdminLevel(adminLevelValue); ok {
				parentAdminLevels = append(parentAdminLevels, adminLevel)
			}
		}

		if claimedByValue, ok := tags.Find(tagClaimedBy); ok {
			claimedBy = append(claimedBy, ParseTerritoryList(claimedByValue)...)
		}
	}

	if len(claimedBy) > 0 {
		classification.ClaimedBy = Subtract(SortUnique(claimedBy), classification.DisputedBy)
	}

	if len(parentAdminLevels) == 0 {
		return Classification{}, false
	}

	sort.Ints(parentAdminLevels)
	classification.MinAdminLevel = parentAdminLevels[0]
	for i := 1; i < len(parentAdminLevels); i++ {
		if parentAdminLevels[i] == parentAdminLevels[i-1] {
			classification.DividingLine = true
			break
		}
	}

	return classification, true
}
