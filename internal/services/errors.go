package services

import "errors"

// Service-level error taxonomy. Handlers match these with errors.Is to pick
// the HTTP status; anything else maps to an internal error.
var (
	// ErrNotFound covers records that are absent or not owned by the caller.
	ErrNotFound = errors.New("record not found")
	// ErrEmptyCart is returned when an order is placed with no items.
	ErrEmptyCart = errors.New("no items in order")
	// ErrInvalidOrderItem covers malformed cart lines: quantity below one or
	// a medicine that no longer exists in the catalog.
	ErrInvalidOrderItem = errors.New("invalid order item")
	// ErrInvalidState is returned when a cancel hits an order that has
	// already left the pending state.
	ErrInvalidState = errors.New("order is already being processed")
	// ErrInvalidPromo is returned when an order carries a promo code that is
	// not in the promo table. Orders never proceed silently without the
	// discount the client expected.
	ErrInvalidPromo = errors.New("invalid promo code")
	// ErrInvalidCredentials is deliberately generic so login failures do not
	// reveal whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrWrongPassword is returned by password change when the current
	// password does not match.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrInvalidFile is returned for prescription uploads with a disallowed
	// file type.
	ErrInvalidFile = errors.New("only jpg, jpeg, png and pdf files are allowed")
	// ErrFileTooLarge is returned for prescription uploads over the size cap.
	ErrFileTooLarge = errors.New("file exceeds the 5MB limit")
)
