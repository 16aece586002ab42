package domain

// Account models a registered user.
type Account struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	Email        string  `json:"email"`
	FullName     *string `json:"full_name"`
	Age          *int    `json:"age"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	PhoneNumber  *string `json:"phone_number"`
	Active       bool    `json:"is_active"`
}

// AccountPatch lists the fields a partial update changes. Nil fields are left
// untouched by the store.
type AccountPatch struct {
	Username     *string
	PasswordHash *string
	Email        *string
	FullName     *string
	Age          *int
	City         *string
	Country      *string
	PhoneNumber  *string
	Active       *bool
}

// Empty reports whether the patch changes nothing.
func (p AccountPatch) Empty() bool {
	return p.Username == nil && p.PasswordHash == nil && p.Email == nil &&
		p.FullName == nil && p.Age == nil && p.City == nil &&
		p.Country == nil && p.PhoneNumber == nil && p.Active == nil
}

// Apply copies every set field of p onto a.
func (p AccountPatch) Apply(a *Account) {
	if p.Username != nil {
		a.Username = *p.Username
	}
	if p.PasswordHash != nil {
		a.PasswordHash = *p.PasswordHash
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.FullName != nil {
		a.FullName = p.FullName
	}
	if p.Age != nil {
		a.Age = p.Age
	}
	if p.City != nil {
		a.City = p.City
	}
	if p.Country != nil {
		a.Country = p.Country
	}
	if p.PhoneNumber != nil {
		a.PhoneNumber = p.PhoneNumber
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
}
