// Package db persists task records to DynamoDB so a restarted server can
// still answer status polls. Persistence is optional: with no TASKS_TABLE
// configured the server keeps records in memory only.
package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

type TaskRecord struct {
	TaskID             string
	Status             string
	Error              string
	MelodyNotes        int
	AccompanimentNotes int
	Duration           float64
}

// Enabled reports whether task persistence is configured.
func Enabled() bool {
	return os.Getenv("TASKS_TABLE") != ""
}

func newClient() (*dynamodb.DynamoDB, error) {
	cfg := aws.Config{}
	if endpoint := os.Getenv("DYNAMO_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = &endpoint
		cfg.Region = aws.String("localhost")
	}
	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("creating DynamoDB session: %w", err)
	}
	return dynamodb.New(sess), nil
}

func PutTaskRecord(r TaskRecord) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	item := map[string]*dynamodb.AttributeValue{
		"PK":     {S: aws.String(r.TaskID)},
		"Status": {S: aws.String(r.Status)},
	}
	if r.Error != "" {
		item["Error"] = &dynamodb.AttributeValue{S: aws.String(r.Error)}
	}
	if r.MelodyNotes > 0 {
		item["MelodyNotes"] = &dynamodb.AttributeValue{N: aws.String(strconv.Itoa(r.MelodyNotes))}
		item["AccompanimentNotes"] = &dynamodb.AttributeValue{N: aws.String(strconv.Itoa(r.AccompanimentNotes))}
		item["Duration"] = &dynamodb.AttributeValue{N: aws.String(strconv.FormatFloat(r.Duration, 'f', -1, 64))}
	}

	_, err = client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(os.Getenv("TASKS_TABLE")),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("putting task record: %w", err)
	}
	return nil
}

func GetTaskRecord(taskID string) (TaskRecord, bool, error) {
	var r TaskRecord

	client, err := newClient()
	if err != nil {
		return r, false, err
	}

	out, err := client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(os.Getenv("TASKS_TABLE")),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(taskID)},
		},
	})
	if err != nil {
		return r, false, fmt.Errorf("getting task record: %w", err)
	}
	if out.Item == nil {
		return r, false, nil
	}

	r.TaskID = taskID
	if v := out.Item["Status"]; v != nil && v.S != nil {
		r.Status = *v.S
	}
	if v := out.Item["Error"]; v != nil && v.S != nil {
		r.Error = *v.S
	}
	if v := out.Item["MelodyNotes"]; v != nil && v.N != nil {
		r.MelodyNotes, _ = strconv.Atoi(*v.N)
	}
	if v := out.Item["AccompanimentNotes"]; v != nil && v.N != nil {
		r.AccompanimentNotes, _ = strconv.Atoi(*v.N)
	}
	if v := out.Item["Duration"]; v != nil && v.N != nil {
		r.Duration, _ = strconv.ParseFloat(*v.N, 64)
	}

	return r, true, nil
}
