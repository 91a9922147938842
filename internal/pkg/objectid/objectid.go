// Package objectid validates caller-supplied document identifiers before they reach the database.
package objectid

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Length is the length of a hex-encoded object identifier.
const Length = 24

// IsValid reports whether value is a string of exactly 24 hexadecimal characters.
// Values of any other type, including primitive.ObjectID, are rejected.
func IsValid(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	return IsValidHex(s)
}

// IsValidHex reports whether s is a 24 character hexadecimal identifier.
func IsValidHex(s string) bool {
	_, ok := Parse(s)
	return ok
}

// Parse converts a validated identifier into a primitive.ObjectID for use in filters.
func Parse(s string) (primitive.ObjectID, bool) {
	if len(s) != Length {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
