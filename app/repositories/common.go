package repositories

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// Key prefix for post documents in Badger
	PostKeyPrefix = "post:"
)

// newID returns a fresh document id. Both backends use ObjectID hex strings so ids
// look the same regardless of the store.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// isValidID reports whether id could have been produced by newID.
func isValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func postKey(id string) []byte {
	return []byte(PostKeyPrefix + id)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
