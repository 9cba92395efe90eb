// Package corpus loads the vector data sets driven through the search service
// by the benchmark harness.
//
// Two on-disk formats are supported, selected by file suffix:
//
//   - ".txt": one record per line, "<key>;<v1> <v2> ... <vD>". A third
//     ";"-separated field may carry space-separated forward attributes.
//     Lines with any other number of fields are skipped, so comments and
//     headers need no special syntax. The first D floats of a line are used,
//     a line with fewer is a FormatError.
//
//   - ".vecs2": a little-endian binary layout
//
//     [u64 record count R][u32 meta size M][M bytes meta]
//     [R * D * 4 bytes float32 features][R * 8 bytes u64 keys]
//
//     The dimension D is not stored in the file. The caller must pass the
//     dimension the file was written with, a wrong value shifts every record
//     and is only detected when the file turns out to be too short.
//
// Features are kept as packed float32 bytes (EncodeFP32), exactly the layout
// the search service expects in an index value or a query. A Corpus is
// read-only once loaded and may be shared by any number of goroutines.
package corpus
