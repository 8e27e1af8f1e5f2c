package entity

import "time"

// Asset mirrors the metadata the storage provider returns for one image.
// It is owned by the provider - we never cache or mutate it locally.
type Asset struct {
	PublicID     string    `json:"publicId"`
	URL          string    `json:"url"`
	Format       string    `json:"format"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Bytes        int64     `json:"bytes"`
	CreatedAt    time.Time `json:"createdAt"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Tags         []string  `json:"tags,omitempty"`
}

type AssetPage struct {
	Assets     []Asset `json:"images"`
	TotalCount int     `json:"totalCount"`
	NextCursor string  `json:"nextCursor,omitempty"`
}
