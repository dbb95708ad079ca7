// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package models

import "time"

// Roles understood by the authorization layer.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity is the authenticated caller as supplied by the auth collaborator.
type Identity struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// RecentEntry is one element of a user's recency ledger.
type RecentEntry struct {
	PlaceID  string    `json:"place_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

// User holds per-user state. Accounts are issued elsewhere; the document is
// created lazily the first time the user touches favorites or the ledger.
// The ID is the subject issued by the identity provider.
type User struct {
	Meta
	Favorites    []string      `json:"favorites,omitempty"`
	RecentSearch []RecentEntry `json:"recent_search,omitempty"`
	Hidden       bool          `json:"hidden"`
}

// HasFavorite reports whether placeID is in the favorite set.
func (u *User) HasFavorite(placeID string) bool {
	for _, id := range u.Favorites {
		if id == placeID {
			return true
		}
	}
	return false
}
