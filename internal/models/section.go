// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package models

import "time"

// Waypoint is a place inside a section. Visited only ever goes false -> true.
type Waypoint struct {
	PlaceID   string     `json:"place_id"`
	Visited   bool       `json:"visited"`
	VisitedAt *time.Time `json:"visited_at,omitempty"`
}

// Section is a time-boxed part of a plan with an ordered waypoint list,
// unique by place.
type Section struct {
	Meta
	PlanID    string     `json:"plan_id"`
	Window    TimeWindow `json:"window"`
	Note      string     `json:"note,omitempty"`
	Hidden    bool       `json:"hidden"`
	Waypoints []Waypoint `json:"waypoints"`
}

// WaypointIndex returns the position of placeID, or -1.
func (s *Section) WaypointIndex(placeID string) int {
	for i := range s.Waypoints {
		if s.Waypoints[i].PlaceID == placeID {
			return i
		}
	}
	return -1
}

// SectionPatch is a partial section update. Nil fields keep their value.
type SectionPatch struct {
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
	Note   *string    `json:"note,omitempty" validate:"omitempty,max=2000"`
	Hidden *bool      `json:"hidden,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (sp *SectionPatch) Empty() bool {
	return sp.Start == nil && sp.End == nil && sp.Note == nil && sp.Hidden == nil
}
