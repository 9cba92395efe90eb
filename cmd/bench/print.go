package bench

import (
	"fmt"
	"io"
	"strings"

	"github.com/proxima-be/pxbench/rpc/common"
)

// --------------------------------------------------------------------------
// Output of the collection commands
// --------------------------------------------------------------------------

type printer struct {
	w io.Writer
}

func (p printer) section(title string) {
	fmt.Fprintf(p.w, "\n%s\n", strings.ToUpper(title))
}

func (p printer) field(name string, value any) {
	fmt.Fprintf(p.w, "  %-22s: %v\n", name, value)
}

func printCollection(w io.Writer, info *common.CollectionInfo) {
	p := printer{w}
	cfg := info.Config

	p.section("Collection " + cfg.CollectionName)
	p.field("Status", info.Status)
	p.field("UUID", info.UUID)
	p.field("Max Docs Per Segment", cfg.MaxDocsPerSegment)
	p.field("Forward Columns", strings.Join(cfg.ForwardColumnNames, ","))
	if info.LatestLsnContext != nil {
		p.field("Latest LSN", info.LatestLsnContext.Lsn)
	}

	for _, col := range cfg.IndexColumnParams {
		p.section("Index Column " + col.ColumnName)
		p.field("Index Type", col.IndexType)
		p.field("Data Type", col.DataType)
		p.field("Dimension", col.Dimension)
		for _, kv := range col.ExtraParams {
			p.field(kv.Key, kv.Value)
		}
	}

	if r := cfg.Repository; r != nil {
		p.section("Repository " + r.RepositoryName)
		p.field("Connection URI", r.ConnectionURI)
		p.field("Table", r.TableName)
		p.field("User", r.User)
	}
}

func printStats(w io.Writer, stats *common.CollectionStats) {
	p := printer{w}

	p.section("Stats " + stats.CollectionName)
	p.field("Path", stats.CollectionPath)
	p.field("Documents", stats.TotalDocCount)
	p.field("Segments", stats.TotalSegmentCount)
	p.field("Index Files", stats.TotalIndexFileCount)
	p.field("Index File Size", stats.TotalIndexFileSize)

	for _, seg := range stats.SegmentStats {
		p.section(fmt.Sprintf("Segment %d", seg.SegmentID))
		p.field("Documents", seg.DocCount)
		p.field("Primary Keys", fmt.Sprintf("%d - %d", seg.MinPrimaryKey, seg.MaxPrimaryKey))
		p.field("LSN", fmt.Sprintf("%d - %d", seg.MinLsn, seg.MaxLsn))
	}
}

func printDocument(w io.Writer, doc *common.Document) {
	p := printer{w}

	p.section(fmt.Sprintf("Document %d", doc.PrimaryKey))
	p.field("Score", doc.Score)
	for _, prop := range doc.ForwardColumnValues {
		p.field(prop.Key, prop.Value.Format())
	}
}
