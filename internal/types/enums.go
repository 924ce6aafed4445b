package types

// Membership roles within a group
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User presence status values
const (
	UserOnline  = "online"
	UserOffline = "offline"
	UserAway    = "away"
)

// Calendar view values
const (
	ViewMonth = "month"
	ViewWeek  = "week"
)

func IsValidView(view string) bool {
	return view == ViewMonth || view == ViewWeek
}
