package bench

import (
	"context"
	"fmt"
	"io"

	cmdUtil "github.com/proxima-be/pxbench/cmd/util"
	"github.com/proxima-be/pxbench/rpc/client"
	"github.com/proxima-be/pxbench/rpc/common"
)

// collectionConfig is the config create sends: the parsed schema or the
// single column default
func (s settings) collectionConfig() (*common.CollectionConfig, error) {
	if s.schema == "" {
		return defaultSchema(s.collection, s.column, uint32(s.dimension), s.forward), nil
	}
	config, err := parseSchema(s.collection, s.schema)
	if err != nil {
		return nil, err
	}
	if len(config.ForwardColumnNames) == 0 {
		config.ForwardColumnNames = s.forward
	}
	return config, nil
}

// failed turns a remote failure into an error, the status is logged as the
// server sent it
func failed(command, collection string, st common.Status) error {
	cmdUtil.Logger.Errorf("%s %s failed: %s", command, collection, st.String())
	return fmt.Errorf("%s %s failed with code %d: %s", command, collection, int32(st.Code), st.Reason)
}

// runCollection executes one collection command through c
func runCollection(ctx context.Context, out io.Writer, c *client.SearchClient, s settings) error {
	switch s.command {
	case commandCreate:
		config, err := s.collectionConfig()
		if err != nil {
			return err
		}
		st, err := c.CreateCollection(ctx, config)
		if err != nil {
			return err
		}
		if !st.OK() {
			return failed(s.command, s.collection, st)
		}
		fmt.Fprintf(out, "created collection %s\n", s.collection)

	case commandDrop:
		st, err := c.DropCollection(ctx, s.collection)
		if err != nil {
			return err
		}
		if !st.OK() {
			return failed(s.command, s.collection, st)
		}
		fmt.Fprintf(out, "dropped collection %s\n", s.collection)

	case commandDescribe:
		resp, err := c.DescribeCollection(ctx, s.collection)
		if err != nil {
			return err
		}
		if !resp.OK() {
			return failed(s.command, s.collection, resp.Status)
		}
		if resp.Collection != nil {
			printCollection(out, resp.Collection)
		}

	case commandStats:
		resp, err := c.StatsCollection(ctx, s.collection)
		if err != nil {
			return err
		}
		if !resp.OK() {
			return failed(s.command, s.collection, resp.Status)
		}
		if resp.CollectionStats != nil {
			printStats(out, resp.CollectionStats)
		}

	case commandList:
		resp, err := c.ListCollections(ctx, &common.ListCondition{RepositoryName: s.repository})
		if err != nil {
			return err
		}
		if !resp.OK() {
			return failed(s.command, s.repository, resp.Status)
		}
		for _, info := range resp.Collections {
			fmt.Fprintf(out, "%-30s %s\n", info.Config.CollectionName, info.Status)
		}

	case commandGet:
		resp, err := c.GetDocumentByKey(ctx, common.NewGetDocumentRequest(s.collection, s.key))
		if err != nil {
			return err
		}
		if !resp.OK() {
			return failed(s.command, s.collection, resp.Status)
		}
		if resp.Document == nil {
			fmt.Fprintf(out, "document %d not found\n", s.key)
			return nil
		}
		printDocument(out, resp.Document)

	default:
		return fmt.Errorf("unknown collection command %s", s.command)
	}
	return nil
}
