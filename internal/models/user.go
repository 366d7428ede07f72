package models

import "time"

// Customer level tiers as stored on the user row.
const (
	CustomerLevelVVIP   = "VVIP"
	CustomerLevelVIP    = "VIP"
	CustomerLevelGold   = "GOLD"
	CustomerLevelSilver = "SILVER"
	CustomerLevelBronze = "BRONZE"
)

var membershipRanks = map[string]int{
	CustomerLevelVVIP:   5,
	CustomerLevelVIP:    4,
	CustomerLevelGold:   3,
	CustomerLevelSilver: 2,
	CustomerLevelBronze: 1,
}

// MembershipRank maps a customer level tier to its numeric rank.
// Unknown tiers rank as 0.
func MembershipRank(level string) int {
	return membershipRanks[level]
}

// UserProfile is the demographic snapshot the feature pipeline reads.
type UserProfile struct {
	UserID        int64     `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	SexCode       int       `json:"sex_cd" db:"sex_cd"`
	Birthday      time.Time `json:"birthday" db:"birthday"`
	Income        float64   `json:"income" db:"income"`
	CustomerLevel string    `json:"customer_level" db:"customer_level"`
}

// Age returns the profile's age in whole years at now, floor(days/365).
func (u UserProfile) Age(now time.Time) int {
	days := int(now.Sub(u.Birthday).Hours() / 24)
	return days / 365
}

// Account is a deposit account owned by a user.
type Account struct {
	AccountID int64   `json:"account_id" db:"account_id"`
	UserID    int64   `json:"user_id" db:"user_id"`
	Balance   float64 `json:"balance" db:"balance"`
}
