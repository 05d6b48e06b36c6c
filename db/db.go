// Package db records transcriptions in DynamoDB.
package db

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/jsphweid/brailledex/model"
	"github.com/pkg/errors"
)

// MaxBatch is the BatchGetItem limit.
const MaxBatch = 100

type Store struct {
	client *dynamodb.DynamoDB
	table  string
}

func NewStore(endpoint, region, table string) (*Store, error) {
	config := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		config.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return &Store{client: dynamodb.New(sess), table: table}, nil
}

func key(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(id)},
	}
}

func number(n int64) *dynamodb.AttributeValue {
	return &dynamodb.AttributeValue{N: aws.String(strconv.FormatInt(n, 10))}
}

func toItem(rec model.TranscriptionRecord) map[string]*dynamodb.AttributeValue {
	item := key(rec.Id)
	if rec.Title != "" {
		item["Title"] = &dynamodb.AttributeValue{S: aws.String(rec.Title)}
	}
	if rec.Composer != "" {
		item["Composer"] = &dynamodb.AttributeValue{S: aws.String(rec.Composer)}
	}
	item["Parts"] = number(int64(rec.Parts))
	item["Measures"] = number(int64(rec.Measures))
	item["Warnings"] = number(int64(rec.Warnings))
	item["Created"] = number(rec.Created)
	return item
}

func str(v *dynamodb.AttributeValue) string {
	if v == nil || v.S == nil {
		return ""
	}
	return *v.S
}

func num(v *dynamodb.AttributeValue) int64 {
	if v == nil || v.N == nil {
		return 0
	}
	n, _ := strconv.ParseInt(*v.N, 10, 64)
	return n
}

func fromItem(item map[string]*dynamodb.AttributeValue) model.TranscriptionRecord {
	return model.TranscriptionRecord{
		Id:       str(item["PK"]),
		Title:    str(item["Title"]),
		Composer: str(item["Composer"]),
		Parts:    int(num(item["Parts"])),
		Measures: int(num(item["Measures"])),
		Warnings: int(num(item["Warnings"])),
		Created:  num(item["Created"]),
	}
}

func (s *Store) Put(rec model.TranscriptionRecord) error {
	_, err := s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      toItem(rec),
	})
	return errors.Wrapf(err, "could not store transcription %s", rec.Id)
}

func (s *Store) Get(id string) (model.TranscriptionRecord, bool, error) {
	out, err := s.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       key(id),
	})
	if err != nil {
		return model.TranscriptionRecord{}, false, errors.Wrapf(err, "could not load transcription %s", id)
	}
	if len(out.Item) == 0 {
		return model.TranscriptionRecord{}, false, nil
	}
	return fromItem(out.Item), true, nil
}

// GetMany looks up to 100 records at once. Unknown ids are left out.
func (s *Store) GetMany(ids []string) (map[string]model.TranscriptionRecord, error) {
	if len(ids) > MaxBatch {
		return nil, errors.Errorf("at most %d ids per lookup, got %d", MaxBatch, len(ids))
	}

	res := make(map[string]model.TranscriptionRecord)
	if len(ids) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, id := range ids {
		keys = append(keys, key(id))
	}
	out, err := s.client.BatchGetItem(&dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			s.table: {Keys: keys},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB")
	}
	for _, item := range out.Responses[s.table] {
		rec := fromItem(item)
		res[rec.Id] = rec
	}
	return res, nil
}
