package nodestore

import (
	proto "github.com/gogo/protobuf/proto"
)

// NodeLocationBucket is the on-disk form of one bucket of node locations
type NodeLocationBucket struct {
	Items []*NodeLocationItem `protobuf:"bytes,1,rep,name=items,proto3" json:"items,omitempty"`
}

func (m *NodeLocationBucket) Reset()         { *m = NodeLocationBucket{} }
func (m *NodeLocationBucket) String() string { return proto.CompactTextString(m) }
func (*NodeLocationBucket) ProtoMessage()    {}

type NodeLocationItem struct {
	NodeID int64   `protobuf:"varint,1,opt,name=node_id,json=nodeId,proto3" json:"node_id,omitempty"`
	Lat    float64 `protobuf:"fixed64,2,opt,name=lat,proto3" json:"lat,omitempty"`
	Lon    float64 `protobuf:"fixed64,3,opt,name=lon,proto3" json:"lon,omitempty"`
}

func (m *NodeLocationItem) Reset()         { *m = NodeLocationItem{} }
func (m *NodeLocationItem) String() string { return proto.CompactTextString(m) }
func (*NodeLocationItem) ProtoMessage()    {}
