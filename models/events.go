package models

import "time"

// Event is a public calendar entry. Date is kept as a YYYY-MM-DD string so
// feed ordering matches plain lexicographic comparison.
type Event struct {
	EventID     string    `json:"eventid" bson:"eventid"`
	Title       string    `json:"title" bson:"title"`
	Date        string    `json:"date" bson:"date"`
	Description string    `json:"description" bson:"description"`
	Source      string    `json:"source,omitempty" bson:"-"`
	CreatedBy   string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type GalleryImage struct {
	ImageID    string    `json:"imageid" bson:"imageid"`
	Caption    string    `json:"caption,omitempty" bson:"caption,omitempty"`
	URL        string    `json:"url" bson:"url"`
	ThumbURL   string    `json:"thumb_url" bson:"thumb_url"`
	UploadedBy string    `json:"uploaded_by" bson:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
