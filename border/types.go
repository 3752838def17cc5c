package border

type MemberType int

const (
	MemberTypeUnknown  MemberType = 0
	MemberTypeNode     MemberType = 1
	MemberTypeWay      MemberType = 2
	MemberTypeRelation MemberType = 3
)

type Tag struct {
	Key   string
	Value string
}

// Tags is an ordered tag list. Lookups return the first tag with a matching key.
type Tags []Tag

func (tags Tags) Find(key string) (string, bool) {
	for _, tag := range tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

func (tags Tags) HasKey(key string) bool {
	_, ok := tags.Find(key)
	return ok
}

// HasTag reports whether the first tag with this key has the given value
func (tags Tags) HasTag(key, value string) bool {
	v, ok := tags.Find(key)
	return ok && v == value
}

type RelationMember struct {
	Type MemberType
	Ref  int64
	Role string
}

type Relation struct {
	ID      int64
	Tags    Tags
	Members []RelationMember
}

// UnresolvedWay is a way as seen in the way pass, before any node locations are known
type UnresolvedWay struct {
	ID      int64
	Tags    Tags
	NodeIDs []int64
}

type Location struct {
	Lat float64
	Lon float64
}

type ResolvedNode struct {
	NodeID   int64
	Location Location
}

// ResolvedWay is an UnresolvedWay with a location for every node
type ResolvedWay struct {
	ID    int64
	Tags  Tags
	Nodes []ResolvedNode
}

type Classification struct {
	MinAdminLevel int
	DividingLine  bool
	Neutral       bool
	Disputed      bool
	DisputedBy    []string
	ClaimedBy     []string
	Maritime      bool
}

// ClassifiedLine is one output record
type ClassifiedLine struct {
	WayID int64
	Classification
	Geometry string
}
