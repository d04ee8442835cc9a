package models

// Counter holds the structure for the counters collection in mongo, used to
// hand out sequential user-report case numbers per year
type Counter struct {
	ID  string `json:"_id" bson:"_id"`
	Seq int64  `json:"seq" bson:"seq"`
}
