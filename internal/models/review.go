// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package models

import "time"

// Review is a user's star rating of a place. Reviews are hidden, never deleted.
type Review struct {
	Meta
	PlaceID    string     `json:"place_id"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title,omitempty"`
	Content    string     `json:"content,omitempty"`
	Star       int        `json:"star"`
	LikeCount  int        `json:"like_count"`
	LikedUsers []string   `json:"liked_users,omitempty"`
	VisitedAt  *time.Time `json:"visited_at,omitempty"`
	Hidden     bool       `json:"hidden"`
}

// LikedBy reports whether userID is in the liked-by set.
func (r *Review) LikedBy(userID string) bool {
	for _, u := range r.LikedUsers {
		if u == userID {
			return true
		}
	}
	return false
}
