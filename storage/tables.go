package storage

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// maxBatch is the entity limit of a single table transaction.
const maxBatch = 100

func getEntity[T any](ctx context.Context, c *aztables.Client, pk, rk string) (T, error) {
	var out T
	resp, err := c.GetEntity(ctx, pk, rk, nil)
	if err != nil {
		return out, mapError(err)
	}
	if err := json.Unmarshal(resp.Value, &out); err != nil {
		return out, err
	}
	return out, nil
}

func listEntities[T any](ctx context.Context, c *aztables.Client, f filter, sel *string) ([]T, error) {
	pager := c.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: f.ptr(), Select: sel})
	out := []T{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		for _, raw := range resp.Entities {
			var ent T
			if err := json.Unmarshal(raw, &ent); err != nil {
				return nil, err
			}
			out = append(out, ent)
		}
	}
	return out, nil
}

func addEntity(ctx context.Context, c *aztables.Client, ent any) error {
	payload, err := marshalEntity(ent)
	if err != nil {
		return err
	}
	_, err = c.AddEntity(ctx, payload, nil)
	return mapError(err)
}

// mergeEntity merges ent into an existing row and fails when the row is missing.
func mergeEntity(ctx context.Context, c *aztables.Client, ent any) error {
	payload, err := marshalEntity(ent)
	if err != nil {
		return err
	}
	et := azcore.ETagAny
	_, err = c.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{IfMatch: &et, UpdateMode: aztables.UpdateModeMerge})
	return mapError(err)
}

func deleteEntity(ctx context.Context, c *aztables.Client, pk, rk string) error {
	_, err := c.DeleteEntity(ctx, pk, rk, nil)
	return mapError(err)
}

// mergeBatch applies updates in transactions of at most maxBatch rows. All
// updates must share a partition key.
func mergeBatch[T any](ctx context.Context, c *aztables.Client, updates []T) error {
	actions, err := transactionActions(aztables.TransactionTypeUpdateMerge, updates)
	if err != nil {
		return err
	}
	return submit(ctx, c, actions)
}

// deleteWhere removes every row matching f, batching per partition.
func deleteWhere(ctx context.Context, c *aztables.Client, f filter) error {
	sel := "PartitionKey,RowKey"
	keys, err := listEntities[tableEntity](ctx, c, f, &sel)
	if err != nil {
		return err
	}
	for _, group := range groupByPartition(keys) {
		actions, err := transactionActions(aztables.TransactionTypeDelete, group)
		if err != nil {
			return err
		}
		if err := submit(ctx, c, actions); err != nil {
			return err
		}
	}
	return nil
}

func transactionActions[T any](kind aztables.TransactionType, entities []T) ([]aztables.TransactionAction, error) {
	actions := make([]aztables.TransactionAction, 0, len(entities))
	for _, ent := range entities {
		payload, err := marshalEntity(ent)
		if err != nil {
			return nil, err
		}
		et := azcore.ETagAny
		actions = append(actions, aztables.TransactionAction{ActionType: kind, Entity: payload, IfMatch: &et})
	}
	return actions, nil
}

func submit(ctx context.Context, c *aztables.Client, actions []aztables.TransactionAction) error {
	for batch := range slices.Chunk(actions, maxBatch) {
		if _, err := c.SubmitTransaction(ctx, batch, nil); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func groupByPartition(keys []tableEntity) [][]tableEntity {
	index := map[string]int{}
	var groups [][]tableEntity
	for _, k := range keys {
		i, ok := index[k.PartitionKey]
		if !ok {
			i = len(groups)
			index[k.PartitionKey] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], k)
	}
	return groups
}
