package models

// Requests for analysis HTTP endpoints. Defined in domain for consistency and reuse.

type TagRequest struct {
	Tag int `param:"tag" json:"tag" validate:"gte=1,lte=11"`
}

type RankByTagRequest struct {
	Tag   int `param:"tag" json:"tag" validate:"gte=1,lte=11"`
	Limit int `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=200"`
}

type RankAllRequest struct {
	Limit int `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=500"`
}
