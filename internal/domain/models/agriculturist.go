package models

// Agriculturist is a directory entry for an enrolled expert. Email is unique
// case-insensitively, enforced by a collection scan at enrollment time.
type Agriculturist struct {
	ID             string `json:"id" bson:"_id"`
	Name           string `json:"name" bson:"name"`
	Location       string `json:"location" bson:"location"`
	Specialization string `json:"specialization" bson:"specialization"`
	Experience     int    `json:"experience" bson:"experience"`
	Email          string `json:"email" bson:"email"`
	ProfileImage   string `json:"profileImage" bson:"profileImage"`
	EnrolledAt     string `json:"enrolledAt" bson:"enrolledAt"`
	EnrolledBy     string `json:"enrolledBy" bson:"enrolledBy"`
	UpdatedAt      string `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// DefaultProfileImage is the inline SVG avatar used when no photo is uploaded.
const DefaultProfileImage = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMTAwIiBoZWlnaHQ9IjEwMCIgdmlld0JveD0iMCAwIDEwMCAxMDAiIGZpbGw9Im5vbmUiIHhtbG5zPSJodHRwOi8vd3d3LnczLm9yZy8yMDAwL3N2ZyI+CjxyZWN0IHdpZHRoPSIxMDAiIGhlaWdodD0iMTAwIiBmaWxsPSIjRjVGNUY1Ii8+CjxjaXJjbGUgY3g9IjUwIiBjeT0iMzUiIHI9IjE1IiBmaWxsPSIjNjY2NjY2Ii8+CjxwYXRoIGQ9Ik0yMCA4MEMyMCA2NS42NDA2IDMxLjY0MDYgNTQgNDYgNTRINTRDNjguMzU5NCA1NCA4MCA2NS42NDA2IDgwIDgwVjEwMEgyMFY4MFoiIGZpbGw9IiM2NjY2NjYiLz4KPC9zdmc+"
