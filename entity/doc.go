// Package entity declares the six record kinds served by the API (drivers,
// customers, orders, payments, communications and driver performance) as data
// and serves them through one generic Handler.
//
// Every operation is a single parameterised statement against a
// store.Gateway. Update and Delete report a missing id through the affected
// row count; there is no other state-dependent branching.
package entity
