package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamoDB keeps items in memory. Each table is keyed by a single numeric attribute.
type fakeDynamoDB struct {
	dynamodbiface.DynamoDBAPI

	keys    map[string]string
	tables  map[string]map[string]map[string]*dynamodb.AttributeValue
	scanErr error
}

func newFakeDynamoDB(env string) *fakeDynamoDB {
	return &fakeDynamoDB{
		keys: map[string]string{
			env + "-volunteers":   "id",
			env + "-fence-points": "point_id",
		},
		tables: map[string]map[string]map[string]*dynamodb.AttributeValue{},
	}
}

func (f *fakeDynamoDB) table(name string) map[string]map[string]*dynamodb.AttributeValue {
	if f.tables[name] == nil {
		f.tables[name] = map[string]map[string]*dynamodb.AttributeValue{}
	}
	return f.tables[name]
}

func (f *fakeDynamoDB) keyOf(table string, item map[string]*dynamodb.AttributeValue) string {
	return aws.StringValue(item[f.keys[table]].N)
}

func (f *fakeDynamoDB) ScanPagesWithContext(ctx aws.Context, in *dynamodb.ScanInput, fn func(*dynamodb.ScanOutput, bool) bool, opts ...request.Option) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	// Two pages, to exercise pagination.
	var first, second []map[string]*dynamodb.AttributeValue
	i := 0
	for _, item := range f.table(aws.StringValue(in.TableName)) {
		if i%2 == 0 {
			first = append(first, item)
		} else {
			second = append(second, item)
		}
		i++
	}
	if fn(&dynamodb.ScanOutput{Items: first}, false) {
		fn(&dynamodb.ScanOutput{Items: second}, true)
	}
	return nil
}

func (f *fakeDynamoDB) GetItemWithContext(ctx aws.Context, in *dynamodb.GetItemInput, opts ...request.Option) (*dynamodb.GetItemOutput, error) {
	name := aws.StringValue(in.TableName)
	return &dynamodb.GetItemOutput{Item: f.table(name)[f.keyOf(name, in.Key)]}, nil
}

func (f *fakeDynamoDB) PutItemWithContext(ctx aws.Context, in *dynamodb.PutItemInput, opts ...request.Option) (*dynamodb.PutItemOutput, error) {
	name := aws.StringValue(in.TableName)
	f.table(name)[f.keyOf(name, in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) DeleteItemWithContext(ctx aws.Context, in *dynamodb.DeleteItemInput, opts ...request.Option) (*dynamodb.DeleteItemOutput, error) {
	name := aws.StringValue(in.TableName)
	key := f.keyOf(name, in.Key)
	old := f.table(name)[key]
	delete(f.table(name), key)
	return &dynamodb.DeleteItemOutput{Attributes: old}, nil
}

func TestDynamoDBStore(t *testing.T) {
	runStoreSuite(t, NewDynamoDBStoreWithClient(newFakeDynamoDB("test"), "test"))
}

func TestDynamoDBStore_TableNames(t *testing.T) {
	s := NewDynamoDBStoreWithClient(newFakeDynamoDB("dev"), "")
	assert.Equal(t, "dev-volunteers", s.volunteersTable)
	assert.Equal(t, "dev-fence-points", s.fencePointsTable)
}

func TestDynamoDBStore_CoercesStringImportance(t *testing.T) {
	fake := newFakeDynamoDB("prod")
	fake.table("prod-fence-points")["1"] = map[string]*dynamodb.AttributeValue{
		"point_id":   {N: aws.String("1")},
		"importance": {S: aws.String("3")},
	}
	fake.table("prod-fence-points")["4"] = map[string]*dynamodb.AttributeValue{
		"point_id":   {N: aws.String("4")},
		"importance": {S: aws.String("unknown")},
	}
	fake.table("prod-fence-points")["7"] = map[string]*dynamodb.AttributeValue{
		"point_id": {N: aws.String("7")},
	}

	s := NewDynamoDBStoreWithClient(fake, "prod")
	points, err := s.ListFencePoints(context.Background())
	require.NoError(t, err)

	require.Len(t, points, 3)
	assert.Equal(t, 3.0, points[0].Importance)
	assert.Equal(t, 10.0, points[1].Importance)
	assert.Equal(t, 10.0, points[2].Importance)
}

func TestDynamoDBStore_ScanError(t *testing.T) {
	fake := newFakeDynamoDB("dev")
	fake.scanErr = errors.New("throttled")

	_, err := NewDynamoDBStoreWithClient(fake, "dev").ListVolunteers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dev-volunteers")
}
