// Package testutils provides test utilities and helpers.
package testutils

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Test constants
const (
	TestDonationID     = "507f1f77bcf86cd799439011"
	TestDatabaseName   = "testdb"
	TestCollectionName = "donations"
	TestLocalID        = "device-test-1:0001"
	TestDeviceID       = "device-test-1"
	TestBatchID        = "batch-test-42"
)

// NewTestDonation creates a donation document with default values.
func NewTestDonation() bson.M {
	id, _ := primitive.ObjectIDFromHex(TestDonationID)
	return bson.M{
		"_id":           id,
		"submitterName": "Ada Lovelace",
		"projectId":     "project-1",
		"projectName":   "Library Roof",
		"paymentMethod": "cash",
		"content":       "Annual pledge",
		"contact":       "ada@example.org",
		"localId":       TestLocalID,
		"deviceId":      TestDeviceID,
		"batchId":       TestBatchID,
		"submittedAt":   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}
