package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"kindred_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore implements Store on two DynamoDB tables.
//
// Profiles: PK "id". Searching profiles carry a sparse "searchPool" attribute
// indexed by searchPool-index (PK searchPool, SK id, projection ALL).
// Matches: PK "pairKey", so a conditional put is the pair uniqueness constraint.
type DynamoStore struct {
	Dynamo        *DynamoService
	ProfilesTable string
	MatchesTable  string
	now           func() time.Time
}

// NewDynamoStore returns a DynamoStore over the given tables.
func NewDynamoStore(dynamo *DynamoService, profilesTable, matchesTable string) *DynamoStore {
	return &DynamoStore{
		Dynamo:        dynamo,
		ProfilesTable: profilesTable,
		MatchesTable:  matchesTable,
		now:           time.Now,
	}
}

func profileKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func (s *DynamoStore) timestamp() (types.AttributeValue, error) {
	return attributevalue.Marshal(s.now().UTC())
}

// SetSearching flips isSearching. Only an active profile joins searchPool-index;
// an inactive one gets the flag alone so the sparse index never holds rows
// FindSearchingCandidate would filter out.
func (s *DynamoStore) SetSearching(ctx context.Context, profileID string, searching bool) error {
	now, err := s.timestamp()
	if err != nil {
		return err
	}
	names := map[string]string{"#id": "id"}

	if searching {
		expr, values := searchingUpdate(true, true, now)
		values[":active"] = &types.AttributeValueMemberBOOL{Value: true}
		_, err = s.Dynamo.UpdateItem(ctx, s.ProfilesTable, profileKey(profileID), expr,
			"attribute_exists(#id) AND isActive = :active", values, names)
		if !errors.Is(err, ErrConditionFailed) {
			return err
		}
		log.Printf("⚠️ [dynamo] %s is missing or inactive, not adding it to the search pool", profileID)
	}

	expr, values := searchingUpdate(searching, false, now)
	_, err = s.Dynamo.UpdateItem(ctx, s.ProfilesTable, profileKey(profileID), expr,
		"attribute_exists(#id)", values, names)
	if errors.Is(err, ErrConditionFailed) {
		return ErrProfileNotFound
	}
	return err
}

// searchingUpdate builds the UpdateExpression for SetSearching. withPool adds the
// searchPool key; otherwise the key is removed.
func searchingUpdate(searching, withPool bool, now types.AttributeValue) (string, map[string]types.AttributeValue) {
	values := map[string]types.AttributeValue{
		":searching": &types.AttributeValueMemberBOOL{Value: searching},
		":now":       now,
	}
	expr := "SET isSearching = :searching, updatedAt = :now"
	if withPool {
		expr += ", searchPool = :pool"
		values[":pool"] = &types.AttributeValueMemberS{Value: models.SearchPoolOpen}
	} else {
		expr += " REMOVE searchPool"
	}
	return expr, values
}

// FindSearchingCandidate walks searchPool-index one item per page. The filter runs
// after Limit, so an empty page with a LastEvaluatedKey means "keep going".
func (s *DynamoStore) FindSearchingCandidate(ctx context.Context, excludeID string) (*models.Profile, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.ProfilesTable),
		IndexName:              aws.String(models.SearchPoolIndex),
		KeyConditionExpression: aws.String("searchPool = :pool"),
		FilterExpression:       aws.String("isActive = :active AND isSearching = :searching AND #id <> :caller"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pool":      &types.AttributeValueMemberS{Value: models.SearchPoolOpen},
			":active":    &types.AttributeValueMemberBOOL{Value: true},
			":searching": &types.AttributeValueMemberBOOL{Value: true},
			":caller":    &types.AttributeValueMemberS{Value: excludeID},
		},
		Limit: aws.Int32(1),
	}

	for {
		items, lastKey, err := s.Dynamo.QueryPage(ctx, input)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			var candidate models.Profile
			if err := attributevalue.UnmarshalMap(items[0], &candidate); err != nil {
				return nil, fmt.Errorf("failed to unmarshal candidate: %w", err)
			}
			return &candidate, nil
		}
		if len(lastKey) == 0 {
			return nil, nil
		}
		input.ExclusiveStartKey = lastKey
	}
}

func (s *DynamoStore) CreateMatch(ctx context.Context, m models.Match) error {
	m.PairKey = models.PairKey(m.Profile1ID, m.Profile2ID)
	err := s.Dynamo.PutItem(ctx, s.MatchesTable, m, "attribute_not_exists(pairKey)", nil)
	if errors.Is(err, ErrConditionFailed) {
		return ErrMatchExists
	}
	return err
}

func (s *DynamoStore) ClearSearching(ctx context.Context, profile1ID, profile2ID string) error {
	now, err := s.timestamp()
	if err != nil {
		return err
	}

	items := make([]types.TransactWriteItem, 0, 2)
	for _, id := range []string{profile1ID, profile2ID} {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.ProfilesTable),
				Key:                 profileKey(id),
				UpdateExpression:    aws.String("SET isSearching = :searching, updatedAt = :now REMOVE searchPool"),
				ConditionExpression: aws.String("attribute_exists(#id)"),
				ExpressionAttributeNames: map[string]string{
					"#id": "id",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":searching": &types.AttributeValueMemberBOOL{Value: false},
					":now":       now,
				},
			},
		})
	}

	err = s.Dynamo.TransactWriteItems(ctx, items)
	if errors.Is(err, ErrConditionFailed) {
		return ErrProfileNotFound
	}
	return err
}

func (s *DynamoStore) CreateProfile(ctx context.Context, p models.Profile) error {
	now := s.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.SearchPool = ""
	if p.IsSearching && p.IsActive {
		p.SearchPool = models.SearchPoolOpen
	}

	err := s.Dynamo.PutItem(ctx, s.ProfilesTable, p, "attribute_not_exists(#id)", map[string]string{"#id": "id"})
	if errors.Is(err, ErrConditionFailed) {
		return ErrProfileExists
	}
	return err
}

func (s *DynamoStore) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	item, err := s.Dynamo.GetItem(ctx, s.ProfilesTable, profileKey(profileID))
	if errors.Is(err, ErrItemNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	var p models.Profile
	if err := attributevalue.UnmarshalMap(item, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile writes the set fields of update. Deactivating a profile also
// withdraws it from the search pool.
func (s *DynamoStore) UpdateProfile(ctx context.Context, profileID string, update models.ProfileUpdate) (*models.Profile, error) {
	expr, values, names, err := buildProfileUpdate(update, s.now().UTC())
	if err != nil {
		return nil, err
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, s.ProfilesTable, profileKey(profileID), expr,
		"attribute_exists(#id)", values, names)
	if errors.Is(err, ErrConditionFailed) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	var p models.Profile
	if err := attributevalue.UnmarshalMap(attrs, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

// buildProfileUpdate turns a ProfileUpdate into an UpdateExpression.
func buildProfileUpdate(update models.ProfileUpdate, now time.Time) (string, map[string]types.AttributeValue, map[string]string, error) {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if update.Age != nil {
		fields["age"] = *update.Age
	}
	if update.Gender != nil {
		fields["gender"] = *update.Gender
	}
	if update.Location != nil {
		fields["location"] = *update.Location
	}
	if update.Interests != nil {
		fields["interests"] = *update.Interests
	}
	if update.Photos != nil {
		fields["photos"] = *update.Photos
	}
	if update.IsActive != nil {
		fields["isActive"] = *update.IsActive
		if !*update.IsActive {
			fields["isSearching"] = false
		}
	}
	fields["updatedAt"] = now

	// sorted so the expression is stable
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := map[string]types.AttributeValue{}
	names := map[string]string{"#id": "id"}
	sets := make([]string, 0, len(keys))
	for _, k := range keys {
		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal %s: %w", k, err)
		}
		names["#"+k] = k
		values[":"+k] = av
		sets = append(sets, fmt.Sprintf("#%s = :%s", k, k))
	}

	expr := "SET " + strings.Join(sets, ", ")
	if update.IsActive != nil && !*update.IsActive {
		expr += " REMOVE searchPool"
	}
	return expr, values, names, nil
}

// ListMatches queries both participant indexes and returns matches newest first.
func (s *DynamoStore) ListMatches(ctx context.Context, profileID string) ([]models.Match, error) {
	values := map[string]types.AttributeValue{
		":profileId": &types.AttributeValueMemberS{Value: profileID},
	}

	matches := make([]models.Match, 0)
	for _, idx := range []struct{ name, attr string }{
		{models.Profile1Index, "profile1Id"},
		{models.Profile2Index, "profile2Id"},
	} {
		items, err := s.Dynamo.QueryItemsWithIndex(ctx, s.MatchesTable, idx.name, idx.attr+" = :profileId", values, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch matches: %w", err)
		}
		for _, item := range items {
			var m models.Match
			if err := attributevalue.UnmarshalMap(item, &m); err != nil {
				log.Printf("❌ [dynamo] Error unmarshalling match from %s: %v", idx.name, err)
				continue
			}
			matches = append(matches, m)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}
