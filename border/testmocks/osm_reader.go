package testmocks

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/paulmach/osm"
)

type MockOSMReader struct {
	ScanFunc              func() bool
	ObjectFunc            func() osm.Object
	FullyScannedBytesFunc func() int64
	ErrFunc               func() error
	ResetFunc             func(objectType osm.Type) errorsx.Error
	TotalSizeFunc         func() int64
	CloseFunc             func() error
}

func (r *MockOSMReader) Scan() bool {
	return r.ScanFunc()
}

func (r *MockOSMReader) Object() osm.Object {
	return r.ObjectFunc()
}

func (r *MockOSMReader) FullyScannedBytes() int64 {
	return r.FullyScannedBytesFunc()
}

func (r *MockOSMReader) Err() error {
	return r.ErrFunc()
}

func (r *MockOSMReader) Reset(objectType osm.Type) errorsx.Error {
	return r.ResetFunc(objectType)
}

func (r *MockOSMReader) TotalSize() int64 {
	return r.TotalSizeFunc()
}

func (r *MockOSMReader) Close() error {
	return r.CloseFunc()
}

// NewMockOSMReaderFromObjects creates a reader that, after each Reset, yields only the objects of the requested type,
// in the order they were given
func NewMockOSMReaderFromObjects(objects ...osm.Object) *MockOSMReader {
	var objectsOfType []osm.Object
	index := -1
	return &MockOSMReader{
		ScanFunc: func() bool {
			if index+1 >= len(objectsOfType) {
				return false
			}

			index++
			return true
		},
		ObjectFunc: func() osm.Object {
			return objectsOfType[index]
		},
		ErrFunc: func() error {
			return nil
		},
		ResetFunc: func(objectType osm.Type) errorsx.Error {
			objectsOfType = nil
			for _, object := range objects {
				if object.ObjectID().Type() == objectType {
					objectsOfType = append(objectsOfType, object)
				}
			}
			index = -1
			return nil
		},
		TotalSizeFunc: func() int64 {
			return 0
		},
		FullyScannedBytesFunc: func() int64 {
			return 0
		},
		CloseFunc: func() error {
			return nil
		},
	}
}
