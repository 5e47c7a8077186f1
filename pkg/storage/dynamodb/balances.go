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

func pairSortKey(userA, userB string) string {
	return userA + "#" + userB
}

func pairKey(k balances.PairKey) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"group_id": &types.AttributeValueMemberS{Value: k.GroupID},
		"pair":     &types.AttributeValueMemberS{Value: pairSortKey(k.UserA, k.UserB)},
	}
}

var zeroAV = &types.AttributeValueMemberN{Value: "0"}

func (s *Store) queryPairs(ctx context.Context, input *dynamodb.QueryInput) ([]models.BalancePair, error) {
	var out []models.BalancePair
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query balance pairs: %w", err)
		}
		var page []models.BalancePair
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal balance pairs: %w", err)
		}
		out = append(out, page...)
		if len(result.LastEvaluatedKey) == 0 {
			return out, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

func (s *Store) userPairs(ctx context.Context, index, attr, userID string) ([]models.BalancePair, error) {
	return s.queryPairs(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.BalancesTableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(attr + " = :u"),
		FilterExpression:       aws.String("net_amount <> :zero"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u":    &types.AttributeValueMemberS{Value: userID},
			":zero": zeroAV,
		},
	})
}

func (s *Store) ListPairsForUser(ctx context.Context, userID string) ([]models.BalancePair, error) {
	asA, err := s.userPairs(ctx, userAIndex, "user_a", userID)
	if err != nil {
		return nil, err
	}
	asB, err := s.userPairs(ctx, userBIndex, "user_b", userID)
	if err != nil {
		return nil, err
	}
	out := append(asA, asB...)
	balances.SortPairs(out)
	return out, nil
}

func (s *Store) groupPairs(ctx context.Context, groupID string, includeZero bool) ([]models.BalancePair, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.BalancesTableName),
		KeyConditionExpression: aws.String("group_id = :g"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":g": &types.AttributeValueMemberS{Value: groupID},
		},
		ConsistentRead: aws.Bool(true),
	}
	if !includeZero {
		input.FilterExpression = aws.String("net_amount <> :zero")
		input.ExpressionAttributeValues[":zero"] = zeroAV
	}
	return s.queryPairs(ctx, input)
}

func (s *Store) ListPairsForGroup(ctx context.Context, groupID string) ([]models.BalancePair, error) {
	return s.groupPairs(ctx, groupID, false)
}

// RebuildGroupBalances replays the group's ledger and overwrites every pair
// that disagrees. Each overwrite is conditioned on the value read, so a commit
// landing mid-rebuild cancels the write and the rebuild starts over.
func (s *Store) RebuildGroupBalances(ctx context.Context, groupID string) ([]models.BalancePair, []models.BalancePair, error) {
	for attempt := 0; attempt < rebuildAttempts; attempt++ {
		cached, rebuilt, err := s.rebuildOnce(ctx, groupID)
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			continue
		}
		return cached, rebuilt, err
	}
	return nil, nil, fmt.Errorf("group %s kept changing during rebuild: %w", groupID, storage.ErrVersionConflict)
}

func (s *Store) rebuildOnce(ctx context.Context, groupID string) ([]models.BalancePair, []models.BalancePair, error) {
	stored, err := s.groupPairs(ctx, groupID, true)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.ListEntriesByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	rebuilt := balances.Replay(entries)

	want := make(map[balances.PairKey]int64, len(rebuilt))
	for _, p := range rebuilt {
		want[balances.KeyOf(p)] = p.NetAmount
	}
	have := make(map[balances.PairKey]int64, len(stored))
	var cached []models.BalancePair
	for _, p := range stored {
		have[balances.KeyOf(p)] = p.NetAmount
		if p.NetAmount != 0 {
			cached = append(cached, p)
		}
	}
	balances.SortPairs(cached)

	var writes []types.TransactWriteItem
	for key, old := range have {
		if want[key] != old {
			writes = append(writes, s.overwritePair(key, &old, want[key]))
		}
	}
	for key, net := range want {
		if _, ok := have[key]; !ok {
			writes = append(writes, s.overwritePair(key, nil, net))
		}
	}

	for start := 0; start < len(writes); start += maxTransactItems {
		end := min(start+maxTransactItems, len(writes))
		_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes[start:end]})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to write rebuilt balances: %w", err)
		}
	}
	return cached, rebuilt, nil
}

// overwritePair sets a pair to net if it still holds old; a nil old means the
// pair must not exist yet.
func (s *Store) overwritePair(key balances.PairKey, old *int64, net int64) types.TransactWriteItem {
	values := map[string]types.AttributeValue{
		":net": numberAV(net),
		":a":   &types.AttributeValueMemberS{Value: key.UserA},
		":b":   &types.AttributeValueMemberS{Value: key.UserB},
	}
	condition := "attribute_not_exists(net_amount)"
	if old != nil {
		condition = "net_amount = :old"
		values[":old"] = numberAV(*old)
	}
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:                 aws.String(s.BalancesTableName),
			Key:                       pairKey(key),
			UpdateExpression:          aws.String("SET net_amount = :net, user_a = :a, user_b = :b"),
			ConditionExpression:       aws.String(condition),
			ExpressionAttributeValues: values,
		},
	}
}
