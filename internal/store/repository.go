/**
 * @description
 * Shared pieces of the data access layer: sentinel errors and the database
 * handle the repositories are built on.
 */
package store

import "errors"

// Sentinel errors returned by the repositories.
var (
	ErrSellerNotFound       = errors.New("seller not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
