package profiles

// UpdateInput captures partial profile updates; nil fields are left untouched.
type UpdateInput struct {
	FullName  *string
	AvatarURL *string
	Phone     *string
}

// AddressInput captures the fields for creating or replacing an address.
type AddressInput struct {
	FullName   string
	Phone      string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}
