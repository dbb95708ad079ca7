// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package models

import "time"

// PlaceStatus is the visibility state of a place.
type PlaceStatus string

const (
	StatusPublic  PlaceStatus = "public"
	StatusPrivate PlaceStatus = "private"
	StatusClosed  PlaceStatus = "closed"
)

// Valid reports whether s is a known status.
func (s PlaceStatus) Valid() bool {
	switch s {
	case StatusPublic, StatusPrivate, StatusClosed:
		return true
	}
	return false
}

// MinStar and MaxStar bound review star values.
const (
	MinStar = 1
	MaxStar = 5
)

// Histogram counts reviews per star value; index 0 holds 1-star reviews.
type Histogram [MaxStar]int

// Count returns the number of reviews with the given star value.
func (h Histogram) Count(star int) int {
	if star < MinStar || star > MaxStar {
		return 0
	}
	return h[star-1]
}

// Total returns the sum of all buckets.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// PriceRange is the indicative ticket price span of a place.
type PriceRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Place is a point of interest.
//
// Histogram, ReviewCount and RateVoting are written only by the rating engine.
// Places are never deleted; hiding sets Status to private.
type Place struct {
	Meta
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Address     string      `json:"address,omitempty"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	CategoryID  string      `json:"category_id,omitempty"`
	TagIDs      []string    `json:"tag_ids,omitempty"`
	ProvinceID  string      `json:"province_id,omitempty"`
	Status      PlaceStatus `json:"status"`
	Popular     bool        `json:"popular"`
	ViewCount   int64       `json:"view_count"`
	Price       PriceRange  `json:"price"`
	OpenTime    string      `json:"open_time,omitempty"`
	CloseTime   string      `json:"close_time,omitempty"`
	Images      []string    `json:"images,omitempty"`
	Histogram   Histogram   `json:"histogram"`
	ReviewCount int         `json:"review_count"`
	RateVoting  float64     `json:"rate_voting"`
}

// Hidden reports whether the place has been soft-deleted.
func (p *Place) Hidden() bool {
	return p.Status == StatusPrivate
}

// PlacePatch is a partial update of the admin-editable place fields.
// Nil fields keep their current value.
type PlacePatch struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Address     *string      `json:"address,omitempty"`
	Latitude    *float64     `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64     `json:"longitude,omitempty" validate:"omitempty,longitude"`
	CategoryID  *string      `json:"category_id,omitempty" validate:"omitempty,uuid"`
	TagIDs      *[]string    `json:"tag_ids,omitempty" validate:"omitempty,dive,uuid"`
	ProvinceID  *string      `json:"province_id,omitempty" validate:"omitempty,uuid"`
	Status      *PlaceStatus `json:"status,omitempty" validate:"omitempty,oneof=public private closed"`
	Popular     *bool        `json:"popular,omitempty"`
	Price       *PriceRange  `json:"price,omitempty"`
	OpenTime    *string      `json:"open_time,omitempty"`
	CloseTime   *string      `json:"close_time,omitempty"`
	Images      *[]string    `json:"images,omitempty"`
}

// Apply merges the patch over p field by field.
func (pp *PlacePatch) Apply(p *Place, now time.Time) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Address != nil {
		p.Address = *pp.Address
	}
	if pp.Latitude != nil {
		p.Latitude = *pp.Latitude
	}
	if pp.Longitude != nil {
		p.Longitude = *pp.Longitude
	}
	if pp.CategoryID != nil {
		p.CategoryID = *pp.CategoryID
	}
	if pp.TagIDs != nil {
		p.TagIDs = append([]string(nil), (*pp.TagIDs)...)
	}
	if pp.ProvinceID != nil {
		p.ProvinceID = *pp.ProvinceID
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.Popular != nil {
		p.Popular = *pp.Popular
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.OpenTime != nil {
		p.OpenTime = *pp.OpenTime
	}
	if pp.CloseTime != nil {
		p.CloseTime = *pp.CloseTime
	}
	if pp.Images != nil {
		p.Images = append([]string(nil), (*pp.Images)...)
	}
	p.Touch(now)
}
