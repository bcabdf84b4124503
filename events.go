package catalog

import (
	"fmt"

	"github.com/google/uuid"
)

// Collection names the observable collection a change applies to.
type Collection int

const (
	ProductsCollection Collection = iota + 1
	VariantsCollection
)

func (c Collection) String() string {
	switch c {
	case ProductsCollection:
		return "products"
	case VariantsCollection:
		return "variants"
	default:
		return fmt.Sprintf("Collection(%d)", int(c))
	}
}

// Op identifies the mutation that produced a change.
type Op int

const (
	OpAdded Op = iota + 1
	OpEdited
	OpRemoved
	// OpDetached marks product-list changes caused by a variant removal.
	OpDetached
)

func (o Op) String() string {
	switch o {
	case OpAdded:
		return "added"
	case OpEdited:
		return "edited"
	case OpRemoved:
		return "removed"
	case OpDetached:
		return "detached"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Change is delivered synchronously to subscribers after the mutation that
// caused it has been applied.
type Change struct {
	Collection Collection
	Op         Op
	Product    *Product
	Variant    *Variant
	// Affected lists products whose variant list was rewritten by a variant
	// removal.
	Affected []uuid.UUID
}
