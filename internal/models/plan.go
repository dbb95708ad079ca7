// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package models

import "time"

// Plan is a user's trip. SectionIDs is the authoritative, ordered membership
// list of its sections. Deleting a plan hides it.
type Plan struct {
	Meta
	OwnerID    string     `json:"owner_id"`
	Name       string     `json:"name"`
	Window     TimeWindow `json:"window"`
	Note       string     `json:"note,omitempty"`
	PhotoURL   string     `json:"photo_url,omitempty"`
	Hidden     bool       `json:"hidden"`
	SectionIDs []string   `json:"section_ids"`
}

// HasSection reports whether sectionID is in the plan's section list.
func (p *Plan) HasSection(sectionID string) bool {
	for _, id := range p.SectionIDs {
		if id == sectionID {
			return true
		}
	}
	return false
}

// OwnedBy reports whether who may modify the plan.
func (p *Plan) OwnedBy(who Identity) bool {
	return who.IsAdmin() || p.OwnerID == who.ID
}

// PlanPatch is a partial plan update.
type PlanPatch struct {
	Name     *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	Note     *string    `json:"note,omitempty"`
	PhotoURL *string    `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// Apply merges the patch over p.
func (pp *PlanPatch) Apply(p *Plan, now time.Time) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Start != nil {
		p.Window.Start = *pp.Start
	}
	if pp.End != nil {
		p.Window.End = *pp.End
	}
	if pp.Note != nil {
		p.Note = *pp.Note
	}
	if pp.PhotoURL != nil {
		p.PhotoURL = *pp.PhotoURL
	}
	p.Touch(now)
}
