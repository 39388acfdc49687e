package domain

import "errors"

// ErrProductNotFound is returned when a product code does not resolve to a
// catalog entry. It is the only hard failure of the forecasting and mutation
// paths besides storage errors, which are propagated unchanged.
var ErrProductNotFound = errors.New("product not found")
