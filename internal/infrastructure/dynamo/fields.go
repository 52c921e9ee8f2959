package dynamo

// Key and attribute names shared by the bootstrap and the repos.
const (
	keyResponderID = "responder_id"
	keyUserID      = "user_id"
	keyHazardID    = "hazard_id"
	keyDispatchID  = "dispatch_id"

	fieldCreatedAt = "created_at"
	fieldPushToken = "push_token"
	fieldLatitude  = "latitude"
	fieldLongitude = "longitude"

	indexHazardCreatedAt = "hazard_id-created_at-index"
)
