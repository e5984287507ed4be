package models

import "github.com/uptrace/bun"

// Source is a TV show or YouTube channel that can recommend restaurants.
type Source struct {
	bun.BaseModel `bun:"table:sources,alias:src"`

	ID          string  `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name        string  `bun:"name" json:"name"`
	Type        *string `bun:"type" json:"type"`
	Description *string `bun:"description" json:"description"`
	IsDelete    bool    `bun:"is_delete" json:"-"`
}

// SourceView is the /sources response item: only id, name and type are
// exposed.
type SourceView struct {
	ID   string  `bun:"id" json:"id"`
	Name string  `bun:"name" json:"name"`
	Type *string `bun:"type" json:"type"`
}

// Program is the program catalog view. Channel and logo have no backing
// columns in the current schema and always surface as null.
type Program struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Channel     *string `json:"channel"`
	Type        string  `json:"type"`
	LogoURL     *string `json:"logo_url"`
	Description *string `json:"description"`
}
