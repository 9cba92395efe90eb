package common

import (
	"fmt"
	"math"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

// --------------------------------------------------------------------------
// DataType
// --------------------------------------------------------------------------

// DataType is the type of a column value
type DataType int32

const (
	DataTypeUndefined      DataType = 0
	DataTypeBinary         DataType = 1
	DataTypeString         DataType = 2
	DataTypeBool           DataType = 3
	DataTypeInt32          DataType = 4
	DataTypeInt64          DataType = 5
	DataTypeUint32         DataType = 6
	DataTypeUint64         DataType = 7
	DataTypeFloat          DataType = 8
	DataTypeDouble         DataType = 9
	DataTypeVectorBinary32 DataType = 20
	DataTypeVectorBinary64 DataType = 21
	DataTypeVectorFP16     DataType = 22
	DataTypeVectorFP32     DataType = 23
	DataTypeVectorFP64     DataType = 24
	DataTypeVectorInt4     DataType = 25
	DataTypeVectorInt8     DataType = 26
	DataTypeVectorInt16    DataType = 27
)

var dataTypeNames = map[DataType]string{
	DataTypeUndefined:      "UNDEFINED",
	DataTypeBinary:         "BINARY",
	DataTypeString:         "STRING",
	DataTypeBool:           "BOOL",
	DataTypeInt32:          "INT32",
	DataTypeInt64:          "INT64",
	DataTypeUint32:         "UINT32",
	DataTypeUint64:         "UINT64",
	DataTypeFloat:          "FLOAT",
	DataTypeDouble:         "DOUBLE",
	DataTypeVectorBinary32: "VECTOR_BINARY32",
	DataTypeVectorBinary64: "VECTOR_BINARY64",
	DataTypeVectorFP16:     "VECTOR_FP16",
	DataTypeVectorFP32:     "VECTOR_FP32",
	DataTypeVectorFP64:     "VECTOR_FP64",
	DataTypeVectorInt4:     "VECTOR_INT4",
	DataTypeVectorInt8:     "VECTOR_INT8",
	DataTypeVectorInt16:    "VECTOR_INT16",
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int32(t))
}

// Valid reports whether t is one of the known data types
func (t DataType) Valid() bool {
	_, ok := dataTypeNames[t]
	return ok
}

// ParseDataType converts a name like "VECTOR_FP32" (case-insensitive) to a DataType
func ParseDataType(name string) (DataType, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for t, n := range dataTypeNames {
		if n == name {
			return t, nil
		}
	}
	return DataTypeUndefined, fmt.Errorf("unknown data type %q", name)
}

// --------------------------------------------------------------------------
// Other enumerations
// --------------------------------------------------------------------------

// IndexType is the index algorithm of a column
type IndexType int32

const (
	IndexTypeUndefined         IndexType = 0
	IndexTypeProximaGraphIndex IndexType = 1
)

func (t IndexType) String() string {
	switch t {
	case IndexTypeUndefined:
		return "UNDEFINED"
	case IndexTypeProximaGraphIndex:
		return "PROXIMA_GRAPH_INDEX"
	default:
		return fmt.Sprintf("IndexType(%d)", int32(t))
	}
}

// OperationType is the kind of change a row carries
type OperationType int32

const (
	OperationInsert OperationType = 0
	OperationUpdate OperationType = 1
	OperationDelete OperationType = 2
)

func (t OperationType) String() string {
	switch t {
	case OperationInsert:
		return "INSERT"
	case OperationUpdate:
		return "UPDATE"
	case OperationDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("OperationType(%d)", int32(t))
	}
}

// QueryType is the kind of query. KNN is the only one the server supports.
type QueryType int32

const (
	QueryTypeKNN QueryType = 0
)

// CollectionStatus is the server side state of a collection
type CollectionStatus int32

const (
	CollectionInitialized CollectionStatus = 0
	CollectionServing     CollectionStatus = 1
	CollectionDropped     CollectionStatus = 2
)

func (s CollectionStatus) String() string {
	switch s {
	case CollectionInitialized:
		return "INITIALIZED"
	case CollectionServing:
		return "SERVING"
	case CollectionDropped:
		return "DROPPED"
	default:
		return fmt.Sprintf("CollectionStatus(%d)", int32(s))
	}
}

// --------------------------------------------------------------------------
// GenericValue
// --------------------------------------------------------------------------

// ValueKind tells which field of a GenericValue is set
type ValueKind int32

const (
	ValueUnset  ValueKind = 0
	ValueBytes  ValueKind = 1
	ValueString ValueKind = 2
	ValueBool   ValueKind = 3
	ValueInt32  ValueKind = 4
	ValueInt64  ValueKind = 5
	ValueUint32 ValueKind = 6
	ValueUint64 ValueKind = 7
	ValueFloat  ValueKind = 8
	ValueDouble ValueKind = 9
)

// GenericValue holds one typed column value. Int32/Int64 share Int,
// Uint32/Uint64 share Uint.
type GenericValue struct {
	Kind   ValueKind `json:"kind"`
	Bytes  []byte    `json:"bytes,omitempty"`
	String string    `json:"string,omitempty"`
	Bool   bool      `json:"bool,omitempty"`
	Int    int64     `json:"int,omitempty"`
	Uint   uint64    `json:"uint,omitempty"`
	Float  float32   `json:"float,omitempty"`
	Double float64   `json:"double,omitempty"`
}

func BytesValue(v []byte) GenericValue   { return GenericValue{Kind: ValueBytes, Bytes: v} }
func StringValue(v string) GenericValue  { return GenericValue{Kind: ValueString, String: v} }
func BoolValue(v bool) GenericValue      { return GenericValue{Kind: ValueBool, Bool: v} }
func Int32Value(v int32) GenericValue    { return GenericValue{Kind: ValueInt32, Int: int64(v)} }
func Int64Value(v int64) GenericValue    { return GenericValue{Kind: ValueInt64, Int: v} }
func Uint32Value(v uint32) GenericValue  { return GenericValue{Kind: ValueUint32, Uint: uint64(v)} }
func Uint64Value(v uint64) GenericValue  { return GenericValue{Kind: ValueUint64, Uint: v} }
func FloatValue(v float32) GenericValue  { return GenericValue{Kind: ValueFloat, Float: v} }
func DoubleValue(v float64) GenericValue { return GenericValue{Kind: ValueDouble, Double: v} }

// Format renders the value for display
func (v GenericValue) Format() string {
	switch v.Kind {
	case ValueBytes:
		return fmt.Sprintf("%x", v.Bytes)
	case ValueString:
		return v.String
	case ValueBool:
		return fmt.Sprintf("%t", v.Bool)
	case ValueInt32, ValueInt64:
		return fmt.Sprintf("%d", v.Int)
	case ValueUint32, ValueUint64:
		return fmt.Sprintf("%d", v.Uint)
	case ValueFloat:
		return fmt.Sprintf("%g", v.Float)
	case ValueDouble:
		return fmt.Sprintf("%g", v.Double)
	default:
		return ""
	}
}

// MarshalWire always writes the oneof member, even when it holds the zero value,
// so the kind survives the round trip.
func (v *GenericValue) MarshalWire() []byte {
	w := wireWriter{}
	num := protowire.Number(v.Kind)
	switch v.Kind {
	case ValueBytes:
		w.forceBytes(num, v.Bytes)
	case ValueString:
		w.forceBytes(num, []byte(v.String))
	case ValueBool:
		if v.Bool {
			w.forceVarint(num, 1)
		} else {
			w.forceVarint(num, 0)
		}
	case ValueInt32, ValueInt64:
		w.forceVarint(num, uint64(v.Int))
	case ValueUint32, ValueUint64:
		w.forceVarint(num, v.Uint)
	case ValueFloat:
		w.forceFixed32(num, math.Float32bits(v.Float))
	case ValueDouble:
		w.forceFixed64(num, math.Float64bits(v.Double))
	}
	return w.b
}

func (v *GenericValue) UnmarshalWire(b []byte) error {
	*v = GenericValue{}
	return consumeFields(b, func(f wireField) error {
		v.Kind = ValueKind(f.num)
		switch v.Kind {
		case ValueBytes:
			v.Bytes = f.bytes()
		case ValueString:
			v.String = f.string()
		case ValueBool:
			v.Bool = f.bool()
		case ValueInt32:
			v.Int = int64(f.int32())
		case ValueInt64:
			v.Int = f.int64()
		case ValueUint32:
			v.Uint = uint64(f.uint32())
		case ValueUint64:
			v.Uint = f.uint64()
		case ValueFloat:
			v.Float = f.float32()
		case ValueDouble:
			v.Double = f.float64()
		default:
			v.Kind = ValueUnset
		}
		return nil
	})
}

// GenericValueList is an ordered list of values, one per column
type GenericValueList struct {
	Values []GenericValue `json:"values"`
}

// NewGenericValueList creates a list from the given values
func NewGenericValueList(values ...GenericValue) *GenericValueList {
	return &GenericValueList{Values: values}
}

// Len returns the number of values, nil lists are empty
func (l *GenericValueList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Values)
}

func (l *GenericValueList) MarshalWire() []byte {
	w := wireWriter{}
	for i := range l.Values {
		w.message(1, &l.Values[i])
	}
	return w.b
}

func (l *GenericValueList) UnmarshalWire(b []byte) error {
	*l = GenericValueList{}
	return consumeFields(b, func(f wireField) error {
		if f.num != 1 {
			return nil
		}
		var v GenericValue
		if err := v.UnmarshalWire(f.data); err != nil {
			return err
		}
		l.Values = append(l.Values, v)
		return nil
	})
}
