package schema

// Conventional group names. Groups are plain strings; any name declared on a
// schema can be validated.
const (
	GroupCreate       = "create"
	GroupUpdate       = "update"
	GroupQuery        = "query"
	GroupPageQuery    = "page_query"
	GroupStatusUpdate = "status_update"
)
