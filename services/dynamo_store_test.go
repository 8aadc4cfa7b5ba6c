package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kindred_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo serves canned responses and records the inputs it saw.
type fakeDynamo struct {
	DynamoAPI

	putErr      error
	puts        []*dynamodb.PutItemInput
	queryPages  []*dynamodb.QueryOutput
	queries     []*dynamodb.QueryInput
	transactErr error
	transacts   []*dynamodb.TransactWriteItemsInput
	updateErrs  []error
	updates     []*dynamodb.UpdateItemInput
}

// UpdateItem fails with the queued errors in order, then succeeds.
func (f *fakeDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &dynamodb.UpdateItemOutput{Attributes: in.Key}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	copied := *in
	f.queries = append(f.queries, &copied)
	if len(f.queryPages) == 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	page := f.queryPages[0]
	f.queryPages = f.queryPages[1:]
	return page, nil
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.transacts = append(f.transacts, in)
	if f.transactErr != nil {
		return nil, f.transactErr
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func newTestDynamoStore(f *fakeDynamo) *DynamoStore {
	s := NewDynamoStore(&DynamoService{Client: f}, models.ProfilesTable, models.MatchesTable)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestDynamoCreateMatch_ConditionalPut(t *testing.T) {
	f := &fakeDynamo{}
	s := newTestDynamoStore(f)
	m, _ := newTestMatch("b", "a")

	if err := s.CreateMatch(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := f.puts[0]
	if aws.ToString(in.ConditionExpression) != "attribute_not_exists(pairKey)" {
		t.Errorf("condition = %q", aws.ToString(in.ConditionExpression))
	}
	var stored models.Match
	if err := attributevalue.UnmarshalMap(in.Item, &stored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stored.PairKey != "a#b" {
		t.Errorf("pairKey = %q, want a#b", stored.PairKey)
	}
}

func TestDynamoCreateMatch_DuplicatePair(t *testing.T) {
	f := &fakeDynamo{putErr: &types.ConditionalCheckFailedException{Message: aws.String("exists")}}
	s := newTestDynamoStore(f)
	m, _ := newTestMatch("a", "b")

	if err := s.CreateMatch(context.Background(), m); !errors.Is(err, ErrMatchExists) {
		t.Fatalf("err = %v, want ErrMatchExists", err)
	}
}

// Empty filtered pages with a LastEvaluatedKey must not end the search.
func TestDynamoFindSearchingCandidate_PagesPastFilteredItems(t *testing.T) {
	candidate, err := attributevalue.MarshalMap(models.Profile{ID: "U2", IsActive: true, IsSearching: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "U1"}}
	f := &fakeDynamo{queryPages: []*dynamodb.QueryOutput{
		{Items: nil, LastEvaluatedKey: lastKey},
		{Items: []map[string]types.AttributeValue{candidate}},
	}}
	s := newTestDynamoStore(f)

	got, err := s.FindSearchingCandidate(context.Background(), "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "U2" {
		t.Fatalf("candidate = %+v, want U2", got)
	}
	if len(f.queries) != 2 {
		t.Fatalf("queries = %d, want 2", len(f.queries))
	}
	if aws.ToInt32(f.queries[0].Limit) != 1 || aws.ToString(f.queries[0].IndexName) != models.SearchPoolIndex {
		t.Errorf("first query = %+v", f.queries[0])
	}
	if f.queries[1].ExclusiveStartKey == nil {
		t.Error("second page did not continue from LastEvaluatedKey")
	}
}

func TestDynamoFindSearchingCandidate_NoneWaiting(t *testing.T) {
	s := newTestDynamoStore(&fakeDynamo{})

	got, err := s.FindSearchingCandidate(context.Background(), "U1")
	if err != nil || got != nil {
		t.Fatalf("got (%+v, %v), want (nil, nil)", got, err)
	}
}

func TestDynamoClearSearching_OneTransaction(t *testing.T) {
	f := &fakeDynamo{}
	s := newTestDynamoStore(f)

	if err := s.ClearSearching(context.Background(), "a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.transacts) != 1 || len(f.transacts[0].TransactItems) != 2 {
		t.Fatalf("transactions = %+v", f.transacts)
	}
	for _, item := range f.transacts[0].TransactItems {
		if !strings.Contains(aws.ToString(item.Update.UpdateExpression), "REMOVE searchPool") {
			t.Errorf("update %q does not leave the search pool", aws.ToString(item.Update.UpdateExpression))
		}
	}
}

func TestDynamoClearSearching_MissingProfile(t *testing.T) {
	f := &fakeDynamo{transactErr: &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: aws.String("None")}, {Code: aws.String("ConditionalCheckFailed")}},
	}}
	s := newTestDynamoStore(f)

	if err := s.ClearSearching(context.Background(), "a", "b"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestBuildProfileUpdate(t *testing.T) {
	name := "Ana"
	inactive := false
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	expr, values, names, err := buildProfileUpdate(models.ProfileUpdate{Name: &name, IsActive: &inactive}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "SET #isActive = :isActive, #isSearching = :isSearching, #name = :name, #updatedAt = :updatedAt REMOVE searchPool"
	if expr != want {
		t.Errorf("expr = %q\nwant   %q", expr, want)
	}
	if names["#id"] != "id" || names["#name"] != "name" {
		t.Errorf("names = %v", names)
	}
	if v, ok := values[":isSearching"].(*types.AttributeValueMemberBOOL); !ok || v.Value {
		t.Errorf(":isSearching = %#v, want false", values[":isSearching"])
	}
}

func TestBuildProfileUpdate_KeepsSearchPoolWhenActive(t *testing.T) {
	bio := "hi"
	expr, _, _, err := buildProfileUpdate(models.ProfileUpdate{Bio: &bio}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(expr, "REMOVE") || strings.Contains(expr, "isSearching") {
		t.Errorf("expr = %q touches the search state", expr)
	}
}

// newTestMatch builds a matched row with fixed metadata.
func newTestMatch(a, b string) (models.Match, error) {
	return models.NewMatch("m-1", a, b, models.PlaceholderMatchScore, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("condition")}
}

func TestDynamoSetSearching_ActiveJoinsPool(t *testing.T) {
	f := &fakeDynamo{}
	s := newTestDynamoStore(f)

	if err := s.SetSearching(context.Background(), "U1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(f.updates))
	}
	in := f.updates[0]
	if got := aws.ToString(in.UpdateExpression); got != "SET isSearching = :searching, updatedAt = :now, searchPool = :pool" {
		t.Errorf("expr = %q", got)
	}
	if got := aws.ToString(in.ConditionExpression); got != "attribute_exists(#id) AND isActive = :active" {
		t.Errorf("condition = %q", got)
	}
	if v, ok := in.ExpressionAttributeValues[":pool"].(*types.AttributeValueMemberS); !ok || v.Value != models.SearchPoolOpen {
		t.Errorf(":pool = %#v", in.ExpressionAttributeValues[":pool"])
	}
}

// An inactive caller is flagged without entering the sparse index.
func TestDynamoSetSearching_InactiveStaysOutOfPool(t *testing.T) {
	f := &fakeDynamo{updateErrs: []error{conditionFailed()}}
	s := newTestDynamoStore(f)

	if err := s.SetSearching(context.Background(), "U1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(f.updates))
	}
	fallback := f.updates[1]
	if got := aws.ToString(fallback.UpdateExpression); got != "SET isSearching = :searching, updatedAt = :now REMOVE searchPool" {
		t.Errorf("expr = %q", got)
	}
	if _, ok := fallback.ExpressionAttributeValues[":pool"]; ok {
		t.Error("fallback still sets searchPool")
	}
	if v := fallback.ExpressionAttributeValues[":searching"].(*types.AttributeValueMemberBOOL); !v.Value {
		t.Error("fallback did not set isSearching")
	}
}

func TestDynamoSetSearching_MissingProfile(t *testing.T) {
	f := &fakeDynamo{updateErrs: []error{conditionFailed(), conditionFailed()}}
	s := newTestDynamoStore(f)

	if err := s.SetSearching(context.Background(), "ghost", true); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestDynamoSetSearching_StopRemovesPool(t *testing.T) {
	f := &fakeDynamo{}
	s := newTestDynamoStore(f)

	if err := s.SetSearching(context.Background(), "U1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(f.updates))
	}
	if got := aws.ToString(f.updates[0].UpdateExpression); !strings.HasSuffix(got, "REMOVE searchPool") {
		t.Errorf("expr = %q", got)
	}
	if got := aws.ToString(f.updates[0].ConditionExpression); got != "attribute_exists(#id)" {
		t.Errorf("condition = %q", got)
	}
}
