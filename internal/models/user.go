package models

// User roles known to the backend.
const (
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)

// User is the profile the backend returns on login. It is kept in the
// session mirror purely as a display hint; the backend owns authentication.
type User struct {
	ID        int64  `json:"id"`
	Fullname  string `json:"fullname"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AdminStats mirrors GET /api/admin/stats.
type AdminStats struct {
	TotalUsers    int `json:"totalUsers"`
	FarmerCount   int `json:"farmerCount"`
	AdminCount    int `json:"adminCount"`
	TotalProducts int `json:"totalProducts"`
}
