package service

import "innkeep/pkg/model"

// indexEffect describes what a status transition does to the property's
// availability index.
type indexEffect int

const (
	effectNone indexEffect = iota
	effectInsert
	effectRemove
)

// transitions is the full booking lifecycle. Anything absent here is an
// illegal move, including everything out of the terminal states.
var transitions = map[model.BookingStatus]map[model.BookingStatus]indexEffect{
	model.StatusInquiry: {
		model.StatusConfirmed: effectInsert,
		model.StatusCancelled: effectNone, // an inquiry never occupied the calendar
	},
	model.StatusConfirmed: {
		model.StatusCheckedIn: effectNone, // still occupying
		model.StatusCancelled: effectRemove,
	},
	model.StatusCheckedIn: {
		model.StatusCheckedOut: effectRemove,
		model.StatusCancelled:  effectRemove,
	},
}

// transitionEffect returns the index effect of moving from one status to
// another, and whether the move is legal at all.
func transitionEffect(from, to model.BookingStatus) (indexEffect, bool) {
	effect, ok := transitions[from][to]
	return effect, ok
}
