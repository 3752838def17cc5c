package border

import (
	"github.com/paulmach/osm"
)

func NewTagsFromOSMTags(osmTags osm.Tags) Tags {
	if len(osmTags) == 0 {
		return nil
	}

	tags := make(Tags, 0, len(osmTags))
	for _, tag := range osmTags {
		tags = append(tags, Tag{
			Key:   tag.Key,
			Value: tag.Value,
		})
	}
	return tags
}

func memberTypeFromOSMMemberType(memberType osm.Type) MemberType {
	switch memberType {
	case osm.TypeNode:
		return MemberTypeNode
	case osm.TypeWay:
		return MemberTypeWay
	case osm.TypeRelation:
		return MemberTypeRelation
	default:
		return MemberTypeUnknown
	}
}

func NewRelationFromOSMRelation(osmRelation *osm.Relation) Relation {
	members := make([]RelationMember, 0, len(osmRelation.Members))
	for _, member := range osmRelation.Members {
		members = append(members, RelationMember{
			Type: memberTypeFromOSMMemberType(member.Type),
			Ref:  member.Ref,
			Role: member.Role,
		})
	}

	return Relation{
		ID:      int64(osmRelation.ID),
		Tags:    NewTagsFromOSMTags(osmRelation.Tags),
		Members: members,
	}
}

func NewUnresolvedWayFromOSMWay(osmWay *osm.Way) UnresolvedWay {
	nodeIDs := make([]int64, 0, len(osmWay.Nodes))
	for _, wayNode := range osmWay.Nodes {
		nodeIDs = append(nodeIDs, int64(wayNode.ID))
	}

	return UnresolvedWay{
		ID:      int64(osmWay.ID),
		Tags:    NewTagsFromOSMTags(osmWay.Tags),
		NodeIDs: nodeIDs,
	}
}

func NewLocationFromOSMNode(node *osm.Node) Location {
	return Location{
		Lat: node.Lat,
		Lon: node.Lon,
	}
}
