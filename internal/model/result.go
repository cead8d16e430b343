package model

// Acknowledgments returned by storage writes. JSON names follow the
// document driver's result objects.

type InsertResult struct {
	InsertedID string `json:"insertedId"`
}

type UpdateResult struct {
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}
