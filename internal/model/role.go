package model

type UserRole int8

const (
	UserRoleDefault = UserRole(iota)
	UserRoleAdmin
	UserRolePremium
)

// CanUseCustomTone reports whether the role may pick a custom tone when
// custom tones are restricted to premium users.
func (r UserRole) CanUseCustomTone(premiumOnly bool) bool {
	if !premiumOnly {
		return true
	}
	return r == UserRoleAdmin || r == UserRolePremium
}
