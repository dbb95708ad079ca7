// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package rating

import "github.com/tomtom215/itinera/internal/models"

// ToggleLike flips userID's membership in r's liked-by set and keeps
// LikeCount equal to the set size. It returns true if the user now likes
// the review. The histogram is unaffected.
func ToggleLike(r *models.Review, userID string) bool {
	for i, u := range r.LikedUsers {
		if u == userID {
			r.LikedUsers = append(r.LikedUsers[:i:i], r.LikedUsers[i+1:]...)
			r.LikeCount = len(r.LikedUsers)
			return false
		}
	}
	r.LikedUsers = append(r.LikedUsers, userID)
	r.LikeCount = len(r.LikedUsers)
	return true
}
