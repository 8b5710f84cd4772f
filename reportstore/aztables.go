package reportstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"github.com/truespec/truespec/tserrors"
)

// TableStore is a Store backed by an Azure Tables-compatible service.
type TableStore struct {
	client *aztables.Client
	table  string
}

// NewTableStore connects to the table service with the given connection
// string and ensures the target table exists. Construction failures are
// reported as store-unavailable.
func NewTableStore(ctx context.Context, connectionString, table string) (*TableStore, error) {
	svc, err := aztables.NewServiceClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, &tserrors.StoreError{Op: "connect", Table: table, Message: "creating service client", Cause: err}
	}

	client := svc.NewClient(table)
	if _, err := client.CreateTable(ctx, nil); err != nil && !isConflict(err) {
		return nil, &tserrors.StoreError{Op: "connect", Table: table, Message: "ensuring table", Cause: err}
	}

	return &TableStore{client: client, table: table}, nil
}

// Put implements Store. A 409 on insert means the row already exists; the
// insert is idempotent, so the conflict is swallowed.
func (s *TableStore) Put(ctx context.Context, e Entity) error {
	edm := aztables.EDMEntity{
		Entity: aztables.Entity{
			PartitionKey: e.PartitionKey,
			RowKey:       e.RowKey,
		},
		Properties: e.Properties,
	}
	data, err := json.Marshal(edm)
	if err != nil {
		return &tserrors.StoreError{Op: "put", Table: s.table, Message: "marshaling entity", Cause: err}
	}

	if _, err := s.client.AddEntity(ctx, data, nil); err != nil {
		if isConflict(err) {
			return nil
		}
		return &tserrors.StoreError{Op: "put", Table: s.table, Message: "inserting entity", Cause: err}
	}
	return nil
}

// ListPage implements Store.
func (s *TableStore) ListPage(ctx context.Context, partitionKey string, pageSize int32, token *PageToken) (Page, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s'", escapeODataString(partitionKey))
	opts := &aztables.ListEntitiesOptions{
		Filter: &filter,
		Top:    &pageSize,
	}
	if token != nil {
		opts.NextPartitionKey = &token.NextPartitionKey
		opts.NextRowKey = &token.NextRowKey
	}

	pager := s.client.NewListEntitiesPager(opts)
	if !pager.More() {
		return Page{}, nil
	}

	resp, err := pager.NextPage(ctx)
	if err != nil {
		return Page{}, &tserrors.StoreError{Op: "list", Table: s.table, Message: "listing entities", Cause: err}
	}

	page := Page{Items: make([]Entity, 0, len(resp.Entities))}
	for _, raw := range resp.Entities {
		entity, err := decodeEntity(raw)
		if err != nil {
			return Page{}, &tserrors.StoreError{Op: "list", Table: s.table, Message: "decoding entity", Cause: err}
		}
		page.Items = append(page.Items, entity)
	}

	if resp.NextPartitionKey != nil && resp.NextRowKey != nil {
		page.Next = &PageToken{
			NextPartitionKey: *resp.NextPartitionKey,
			NextRowKey:       *resp.NextRowKey,
		}
	}
	return page, nil
}

// GetByID implements Store. The table is keyed (partition, row) but the
// adapter looks up reports by row key alone, so the lookup filters on
// RowKey across partitions.
func (s *TableStore) GetByID(ctx context.Context, rowKey string) (*Entity, error) {
	filter := fmt.Sprintf("RowKey eq '%s'", escapeODataString(rowKey))
	one := int32(1)
	pager := s.client.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
		Top:    &one,
	})

	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, &tserrors.StoreError{Op: "get", Table: s.table, Message: "querying entity", Cause: err}
		}
		if len(resp.Entities) > 0 {
			entity, err := decodeEntity(resp.Entities[0])
			if err != nil {
				return nil, &tserrors.StoreError{Op: "get", Table: s.table, Message: "decoding entity", Cause: err}
			}
			return &entity, nil
		}
	}
	return nil, nil
}

// decodeEntity unmarshals a raw table row into an Entity, stripping the
// service metadata properties.
func decodeEntity(raw []byte) (Entity, error) {
	var edm aztables.EDMEntity
	if err := json.Unmarshal(raw, &edm); err != nil {
		return Entity{}, err
	}

	props := make(map[string]any, len(edm.Properties))
	for k, v := range edm.Properties {
		if strings.HasPrefix(k, "odata.") || strings.HasSuffix(k, "@odata.type") {
			continue
		}
		props[k] = v
	}

	return Entity{
		PartitionKey: edm.PartitionKey,
		RowKey:       edm.RowKey,
		Properties:   props,
	}, nil
}

// isConflict reports whether err is an HTTP 409 from the table service.
func isConflict(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusConflict
}

// escapeODataString doubles single quotes per the OData filter grammar.
func escapeODataString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
