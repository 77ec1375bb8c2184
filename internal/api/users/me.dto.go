package users

import "time"

type MeResponse struct {
	User          UserDTO          `json:"user"`
	Contributions ContributionsDTO `json:"contributions"`
}

type UserDTO struct {
	ID           uint   `json:"id"`
	Login        string `json:"login"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	AuthProvider string `json:"auth_provider"`
	HasPassword  bool   `json:"has_password"`
}

type ContributionsDTO struct {
	Total    int64            `json:"total"`
	ByAction map[string]int64 `json:"by_action"`
	Recent   []RecentDTO      `json:"recent"`
}

type RecentDTO struct {
	Kind   string    `json:"kind"`
	Action string    `json:"action"`
	Target *string   `json:"target"`
	On     time.Time `json:"on"`
}
