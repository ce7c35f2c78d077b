package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// DynamoDBOptions configures the DynamoDB backend
type DynamoDBOptions struct {
	// Region is the AWS region. If empty, it is determined from the default credentials.
	Region string
	// Endpoint overrides the DynamoDB endpoint, e.g. for DynamoDB Local.
	Endpoint string
	// Environment prefixes the table names: "<env>-volunteers" and "<env>-fence-points".
	Environment string
}

// DynamoDBStore keeps volunteers and fence points in two DynamoDB tables
// keyed by "id" and "point_id".
type DynamoDBStore struct {
	client           dynamodbiface.DynamoDBAPI
	volunteersTable  string
	fencePointsTable string
}

var _ Store = (*DynamoDBStore)(nil)

type dynamoVolunteer struct {
	ID           int    `dynamodbav:"id"`
	Name         string `dynamodbav:"name"`
	Location     string `dynamodbav:"location"`
	ClosestPoint int    `dynamodbav:"closest_point"`
	Available    bool   `dynamodbav:"available"`
}

// Importance is decoded loosely; older tables hold it as a string.
type dynamoFencePoint struct {
	PointID    int  `dynamodbav:"point_id"`
	Importance any  `dynamodbav:"importance"`
	IsKeyPoint bool `dynamodbav:"is_key_point"`
}

// NewDynamoDBStore creates a store using the default AWS credential chain
func NewDynamoDBStore(ctx context.Context, opts DynamoDBOptions) (*DynamoDBStore, error) {
	awsConfig := aws.NewConfig().WithCredentialsChainVerboseErrors(true)
	if opts.Region != "" {
		awsConfig.WithRegion(opts.Region)
	}
	if opts.Endpoint != "" {
		awsConfig.WithEndpoint(opts.Endpoint)
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsConfig,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewDynamoDBStoreWithClient(dynamodb.New(sess), opts.Environment), nil
}

// NewDynamoDBStoreWithClient creates a store on an existing client
func NewDynamoDBStoreWithClient(client dynamodbiface.DynamoDBAPI, env string) *DynamoDBStore {
	if env == "" {
		env = "dev"
	}
	return &DynamoDBStore{
		client:           client,
		volunteersTable:  env + "-volunteers",
		fencePointsTable: env + "-fence-points",
	}
}

func numberKey(name string, v int) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		name: {N: aws.String(strconv.Itoa(v))},
	}
}

func (s *DynamoDBStore) scan(ctx context.Context, table string, each func(map[string]*dynamodb.AttributeValue) error) error {
	var itemErr error
	err := s.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{TableName: aws.String(table)},
		func(page *dynamodb.ScanOutput, lastPage bool) bool {
			for _, item := range page.Items {
				if itemErr = each(item); itemErr != nil {
					return false
				}
			}
			return true
		})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", table, err)
	}
	return itemErr
}

func (s *DynamoDBStore) ListVolunteers(ctx context.Context) ([]models.Volunteer, error) {
	var out []models.Volunteer
	err := s.scan(ctx, s.volunteersTable, func(item map[string]*dynamodb.AttributeValue) error {
		var rec dynamoVolunteer
		if err := dynamodbattribute.UnmarshalMap(item, &rec); err != nil {
			return fmt.Errorf("failed to decode volunteer: %w", err)
		}
		out = append(out, models.Volunteer(rec))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortVolunteers(out)
	return out, nil
}

func (s *DynamoDBStore) GetVolunteer(ctx context.Context, id int) (*models.Volunteer, error) {
	res, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.volunteersTable),
		Key:       numberKey("id", id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer %d: %w", id, err)
	}
	if len(res.Item) == 0 {
		return nil, fmt.Errorf("volunteer %d: %w", id, ErrNotFound)
	}
	var rec dynamoVolunteer
	if err := dynamodbattribute.UnmarshalMap(res.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode volunteer %d: %w", id, err)
	}
	v := models.Volunteer(rec)
	return &v, nil
}

// UpsertVolunteer picks the next id by scanning the table when v.ID is zero.
// Concurrent inserts may race for the same id.
func (s *DynamoDBStore) UpsertVolunteer(ctx context.Context, v *models.Volunteer) error {
	if v.ID == 0 {
		existing, err := s.ListVolunteers(ctx)
		if err != nil {
			return err
		}
		v.ID = nextVolunteerID(existing)
	}
	item, err := dynamodbattribute.MarshalMap(dynamoVolunteer(*v))
	if err != nil {
		return fmt.Errorf("failed to encode volunteer: %w", err)
	}
	if _, err := s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.volunteersTable),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to put volunteer %d: %w", v.ID, err)
	}
	return nil
}

func (s *DynamoDBStore) DeleteVolunteer(ctx context.Context, id int) error {
	return s.deleteItem(ctx, s.volunteersTable, numberKey("id", id), "volunteer", id)
}

func (s *DynamoDBStore) ListFencePoints(ctx context.Context) ([]models.FencePoint, error) {
	var out []models.FencePoint
	err := s.scan(ctx, s.fencePointsTable, func(item map[string]*dynamodb.AttributeValue) error {
		p, err := decodeFencePoint(item)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortFencePoints(out)
	return out, nil
}

func (s *DynamoDBStore) GetFencePoint(ctx context.Context, id int) (*models.FencePoint, error) {
	res, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.fencePointsTable),
		Key:       numberKey("point_id", id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get fence point %d: %w", id, err)
	}
	if len(res.Item) == 0 {
		return nil, fmt.Errorf("fence point %d: %w", id, ErrNotFound)
	}
	p, err := decodeFencePoint(res.Item)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *DynamoDBStore) UpsertFencePoint(ctx context.Context, p *models.FencePoint) error {
	item, err := dynamodbattribute.MarshalMap(dynamoFencePoint{
		PointID:    p.PointID,
		Importance: p.Importance,
		IsKeyPoint: p.IsKeyPoint,
	})
	if err != nil {
		return fmt.Errorf("failed to encode fence point: %w", err)
	}
	if _, err := s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.fencePointsTable),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to put fence point %d: %w", p.PointID, err)
	}
	return nil
}

func (s *DynamoDBStore) DeleteFencePoint(ctx context.Context, id int) error {
	return s.deleteItem(ctx, s.fencePointsTable, numberKey("point_id", id), "fence point", id)
}

// Close is a no-op; the SDK client holds no resources that need releasing
func (s *DynamoDBStore) Close() error { return nil }

func (s *DynamoDBStore) deleteItem(ctx context.Context, table string, key map[string]*dynamodb.AttributeValue, kind string, id int) error {
	res, err := s.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(table),
		Key:          key,
		ReturnValues: aws.String(dynamodb.ReturnValueAllOld),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", kind, id, err)
	}
	if len(res.Attributes) == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

func decodeFencePoint(item map[string]*dynamodb.AttributeValue) (models.FencePoint, error) {
	var rec dynamoFencePoint
	if err := dynamodbattribute.UnmarshalMap(item, &rec); err != nil {
		return models.FencePoint{}, fmt.Errorf("failed to decode fence point: %w", err)
	}
	return models.FencePoint{
		PointID:    rec.PointID,
		Importance: models.CoerceImportance(rec.Importance),
		IsKeyPoint: rec.IsKeyPoint,
	}, nil
}
