// Package service translates domain operations on articles, customers and
// orders into gateway calls against the inventory backend.
package service

import "errors"

var ErrArticleNotFound = errors.New("article not found")
var ErrCustomerNotFound = errors.New("customer not found")
var ErrOrderNotFound = errors.New("order not found")

// ErrPartialDelete marks a batch delete in which at least one id failed. The
// accompanying BatchResult lists the per-id outcomes.
var ErrPartialDelete = errors.New("batch delete partially failed")
