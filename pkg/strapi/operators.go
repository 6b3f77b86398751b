package strapi

import (
	"errors"
	"fmt"
)

// ErrUnknownOperator is returned by ParseOperator.
var ErrUnknownOperator = errors.New("unknown filter operator")

// Operator is a filter operator as it appears after "$" on the wire.
type Operator string

// Filter operators.
const (
	OpEqual                  Operator = "eq"
	OpNotEqual               Operator = "ne"
	OpLessThan               Operator = "lt"
	OpLessThanOrEqual        Operator = "lte"
	OpGreaterThan            Operator = "gt"
	OpGreaterThanOrEqual     Operator = "gte"
	OpIn                     Operator = "in"
	OpNotIn                  Operator = "notIn"
	OpContains               Operator = "contains"
	OpNotContains            Operator = "notContains"
	OpContainsInsensitive    Operator = "containsi"
	OpNotContainsInsensitive Operator = "notContainsi"
	OpBetween                Operator = "between"
	OpNull                   Operator = "null"
	OpNotNull                Operator = "notNull"
	OpStartsWith             Operator = "startsWith"
	OpEndsWith               Operator = "endsWith"
)

var operators = map[Operator]bool{
	OpEqual:                  true,
	OpNotEqual:               true,
	OpLessThan:               true,
	OpLessThanOrEqual:        true,
	OpGreaterThan:            true,
	OpGreaterThanOrEqual:     true,
	OpIn:                     true,
	OpNotIn:                  true,
	OpContains:               true,
	OpNotContains:            true,
	OpContainsInsensitive:    false,
	OpNotContainsInsensitive: false,
	OpBetween:                false,
	OpNull:                   false,
	OpNotNull:                false,
	OpStartsWith:             true,
	OpEndsWith:               true,
}

// Valid reports whether o is a known operator.
func (o Operator) Valid() bool {
	_, ok := operators[o]

	return ok
}

// Relational reports whether o is accepted on relation paths.
func (o Operator) Relational() bool {
	return operators[o]
}

// List reports whether o takes a list of values.
func (o Operator) List() bool {
	return o == OpIn || o == OpNotIn || o == OpBetween
}

// Key returns the bracket segment for o, e.g. "$eq".
func (o Operator) Key() string {
	return "$" + string(o)
}

// ParseOperator accepts "eq", "$eq" and the like.
func ParseOperator(name string) (Operator, error) {
	if name != "" && name[0] == '$' {
		name = name[1:]
	}

	op := Operator(name)
	if !op.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownOperator, name)
	}

	return op, nil
}
