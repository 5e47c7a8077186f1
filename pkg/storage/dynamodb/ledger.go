package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/split-ledger/pkg/balances"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/storage"
)

// seqFor orders entries by commit time, then position in the commit. The
// entry ID keeps sort keys unique across commits that share a timestamp.
func seqFor(e models.LedgerEntry, i int) string {
	return fmt.Sprintf("%020d-%03d-%s", e.CreatedAt.UnixNano(), i, e.EntryID)
}

// CommitTransition writes the expense, its entries and the pair deltas in a
// single TransactWriteItems call.
func (s *Store) CommitTransition(ctx context.Context, exp *models.Expense, expectedVersion int64, entries []models.LedgerEntry) error {
	deltas := balances.Deltas(entries)
	if n := 1 + len(entries) + len(deltas); n > maxTransactItems {
		return fmt.Errorf("expense %s needs %d writes: %w", exp.ID, n, ErrTransactionTooLarge)
	}

	expenseAV, err := attributevalue.MarshalMap(exp)
	if err != nil {
		return fmt.Errorf("failed to marshal expense: %w", err)
	}

	items := make([]types.TransactWriteItem, 0, 1+len(entries)+len(deltas))
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.ExpensesTableName),
			Item:                expenseAV,
			ConditionExpression: aws.String("version = :expected"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":expected": numberAV(expectedVersion),
			},
		},
	})

	for i, e := range entries {
		e.Seq = seqFor(e, i)
		entryAV, err := attributevalue.MarshalMap(e)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger entry: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.LedgerTableName),
				Item:                entryAV,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			},
		})
	}

	for _, d := range deltas {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:        aws.String(s.BalancesTableName),
				Key:              pairKey(d.Key),
				UpdateExpression: aws.String("ADD net_amount :delta SET user_a = :a, user_b = :b"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":delta": numberAV(d.Amount),
					":a":     &types.AttributeValueMemberS{Value: d.Key.UserA},
					":b":     &types.AttributeValueMemberS{Value: d.Key.UserB},
				},
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return s.explainCancel(ctx, exp.ID, expectedVersion, canceled)
		}
		return fmt.Errorf("failed to execute transition transaction: %w", err)
	}
	return nil
}

// explainCancel maps a canceled transition. A failed version check or a
// write-write conflict with another transaction both surface as
// ErrVersionConflict so the caller re-reads.
func (s *Store) explainCancel(ctx context.Context, expenseID string, expectedVersion int64, canceled *types.TransactionCanceledException) error {
	for i, reason := range canceled.CancellationReasons {
		switch aws.ToString(reason.Code) {
		case "ConditionalCheckFailed":
			if i == 0 {
				return s.missOrConflict(ctx, expenseID, expectedVersion)
			}
			return fmt.Errorf("ledger entry already written for expense %s: %w", expenseID, storage.ErrVersionConflict)
		case "TransactionConflict":
			return fmt.Errorf("concurrent transaction on expense %s: %w", expenseID, storage.ErrVersionConflict)
		}
	}
	return fmt.Errorf("transition transaction canceled: %w", canceled)
}

func (s *Store) queryEntries(ctx context.Context, input *dynamodb.QueryInput) ([]models.LedgerEntry, error) {
	out := []models.LedgerEntry{}
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query for ledger entries: %w", err)
		}
		var page []models.LedgerEntry
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
		}
		out = append(out, page...)
		if len(result.LastEvaluatedKey) == 0 {
			return out, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// ListEntriesByExpense reads the group partition of the base table so the
// result is strongly consistent. The expense_id GSI may lag a fresh commit.
func (s *Store) ListEntriesByExpense(ctx context.Context, groupID, expenseID string) ([]models.LedgerEntry, error) {
	return s.queryEntries(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		KeyConditionExpression: aws.String("group_id = :g"),
		FilterExpression:       aws.String("expense_id = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":g": &types.AttributeValueMemberS{Value: groupID},
			":e": &types.AttributeValueMemberS{Value: expenseID},
		},
		ConsistentRead:   aws.Bool(true),
		ScanIndexForward: aws.Bool(true),
	})
}

func (s *Store) ListEntriesByGroup(ctx context.Context, groupID string) ([]models.LedgerEntry, error) {
	return s.queryEntries(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		KeyConditionExpression: aws.String("group_id = :g"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":g": &types.AttributeValueMemberS{Value: groupID},
		},
		ConsistentRead:   aws.Bool(true),
		ScanIndexForward: aws.Bool(true),
	})
}
