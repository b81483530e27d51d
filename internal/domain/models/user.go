package models

// User is a marketplace account. Passwords are stored as received; hashing
// is out of scope for this system.
type User struct {
	UID        string `json:"uid" bson:"_id"`
	Username   string `json:"username" bson:"username"`
	Email      string `json:"email" bson:"email"`
	Password   string `json:"password" bson:"password"`
	Role       string `json:"role" bson:"role"`
	Gender     string `json:"gender" bson:"gender"`
	Occupation string `json:"occupation" bson:"occupation"`
	Location   string `json:"location" bson:"location"`
	CreatedAt  string `json:"createdAt" bson:"createdAt"`
	LastLogin  string `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// PublicUser is the projection returned by the login endpoint.
type PublicUser struct {
	UID        string `json:"uid"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Gender     string `json:"gender"`
	Occupation string `json:"occupation"`
	Location   string `json:"location"`
	Role       string `json:"role"`
}

// Public returns the login projection of the user.
func (u User) Public() PublicUser {
	role := u.Role
	if role == "" {
		role = RoleFarmer
	}
	return PublicUser{
		UID:        u.UID,
		Username:   u.Username,
		Email:      u.Email,
		Gender:     u.Gender,
		Occupation: u.Occupation,
		Location:   u.Location,
		Role:       role,
	}
}

const (
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)
