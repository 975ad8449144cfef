package domain

// PageQuery is the cursor sent to a server-paginated collection.
type PageQuery struct {
	Page       int
	PerPage    int
	SearchTerm string
	Filters    map[string]string
}

// PageResult is one page answered by a server-paginated collection.
type PageResult[T any] struct {
	Data        []T `json:"data"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
	CurrentPage int `json:"current_page"`
}
