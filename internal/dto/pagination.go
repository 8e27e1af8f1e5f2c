package dto

type ListParams struct {
	MaxResults  int `validate:"min=1,max=500"`
	NextCursor  string
	Prefix      string
	IncludeTags bool
}

type SearchParams struct {
	Expression string `validate:"required"`
	MaxResults int    `validate:"min=1,max=500"`
	NextCursor string
}
