package serializer

import (
	"encoding/binary"
	"math"
	"reflect"
	"testing"

	"github.com/proxima-be/pxbench/rpc/common"
)

// fp32Features packs dim float32 values the way the benchmark client does
func fp32Features(dim int) []byte {
	out := make([]byte, dim*4)
	for i := 0; i < dim; i++ {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(float32(i)*0.5))
	}
	return out
}

// insertBatch creates a write request with n rows of the given dimension
func insertBatch(n, dim int) *common.WriteRequest {
	rows := make([]common.Row, n)
	for i := range rows {
		rows[i] = common.Row{
			PrimaryKey:  uint64(i + 1),
			IndexValues: common.NewGenericValueList(common.BytesValue(fp32Features(dim))),
		}
	}
	return common.NewWriteRequest("bench", common.NewVectorRowMeta("feature", common.DataTypeVectorFP32, uint32(dim)), rows...)
}

// queryResponse creates a response with topk documents
func queryResponse(topk int) *common.QueryResponse {
	docs := make([]common.Document, topk)
	for i := range docs {
		docs[i] = common.Document{PrimaryKey: uint64(i + 1), Score: float32(i) * 0.1}
	}
	return &common.QueryResponse{Status: common.NewStatus(common.Success), Results: []common.QueryResult{{Documents: docs}}}
}

// benchmarkMessages returns a set of messages for targeted benchmarking
func benchmarkMessages() map[string]any {
	return map[string]any{
		"Status":          &common.Status{Code: common.RpcTimeout, Reason: "Rpc timeout"},
		"Version":         &common.GetVersionResponse{Version: "0.2.0"},
		"Query_Dim128":    common.NewKnnQuery("bench", "feature", 10, fp32Features(128), common.DataTypeVectorFP32, 128, 1),
		"Query_Dim512":    common.NewKnnQuery("bench", "feature", 100, fp32Features(512), common.DataTypeVectorFP32, 512, 1),
		"Insert_1x512":    insertBatch(1, 512),
		"Insert_64x128":   insertBatch(64, 128),
		"Response_Top10":  queryResponse(10),
		"Response_Top100": queryResponse(100),
	}
}

// BenchmarkSerialize benchmarks serialization for all implementations with various message types
func BenchmarkSerialize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := serializer.Serialize(msg)
					if err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserialize benchmarks deserialization for all implementations with various message types
func BenchmarkDeserialize(b *testing.B) {
	messages := benchmarkMessages()
	serializedData := make(map[string]map[string][]byte)

	// Pre-serialize all messages with all serializers
	for name, factory := range testSerializers {
		serializer := factory()
		serializedData[name] = make(map[string][]byte)

		for msgName, msg := range messages {
			data, err := serializer.Serialize(msg)
			if err != nil {
				b.Fatalf("Failed to serialize %s with %s: %v", msgName, name, err)
			}
			serializedData[name][msgName] = data
		}
	}

	for name, factory := range testSerializers {
		for msgName, msg := range messages {
			typ := reflect.TypeOf(msg).Elem()
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				data := serializedData[name][msgName]
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					out := reflect.New(typ).Interface()
					if err := serializer.Deserialize(data, out); err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkSize measures and reports the serialized size for each message type
func BenchmarkSize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		serializer := factory()

		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				data, err := serializer.Serialize(msg)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}

				b.ReportMetric(float64(len(data)), "bytes")

				for i := 0; i < b.N; i++ {
					_ = data
				}
			})
		}
	}
}
