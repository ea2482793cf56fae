package activity

// ListActivityOptions filters the activity log. Nil and zero fields do not filter.
type ListActivityOptions struct {
	ProjectID    *string
	SessionID    *string
	ActivityType *ActivityType
	// SinceRevision keeps only entries recorded after this chart revision.
	SinceRevision int64
	Limit         int
	Offset        int
}
