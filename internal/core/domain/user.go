package domain

const (
	RoleAdmin      = "admin"
	RoleClient     = "client"
	RoleTechnician = "technicien"
)

// User models a console account. Company and department only matter for
// the client role.
type User struct {
	ID           int64  `json:"id"                 bson:"_id"`
	Name         string `json:"name"               bson:"name"   validate:"required"`
	Email        string `json:"email"              bson:"email"  validate:"required,email"`
	Role         string `json:"role"               bson:"role"   validate:"required,oneof=admin client technicien"`
	Status       string `json:"status,omitempty"   bson:"status,omitempty"`
	CompanyID    *int64 `json:"company_id"         bson:"company_id,omitempty"`
	DepartmentID *int64 `json:"department_id"      bson:"department_id,omitempty"`
	Password     string `json:"password,omitempty" bson:"-"`
	PasswordHash string `json:"-"                  bson:"password_hash,omitempty"`
}

func (u User) EntityID() int64 { return u.ID }

// Session is the state a signed-in console user carries between requests.
type Session struct {
	ID          string   `json:"id"`
	Token       string   `json:"-"`
	UserID      int64    `json:"user_id"`
	Role        string   `json:"role"`
	Roles       []string `json:"roles"`
	DisplayName string   `json:"display_name"`
	DarkMode    bool     `json:"dark_mode"`
}

// HasRole reports whether role is among the roles selected at sign-in.
func (s *Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}
