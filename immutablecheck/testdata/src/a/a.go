package a

import (
	"regexp"
	"sync"
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// Money is an amount in cents.
// @immutable
type Money struct { // want Money:"immutable"
	cents    int64
	currency string
	at       time.Time
	id       uuid.UUID
	pattern  *regexp.Regexp
}

// @immutable
type Account struct { // want Account:"immutable"
	Owner string     // want "element Owner of type string is not final"
	tags  []string   // want `element tags of type \[\]string is not final`
	mu    sync.Mutex // want "element mu of type sync.Mutex"
	money Money
	limit *Money
	count *int // want `element count of type \*int`
}

type Celsius float64

type Handle unsafe.Pointer

// @immutable
type Native struct { // want Native:"immutable"
	temp Celsius
	raw  unsafe.Pointer // want "element raw of type unsafe.Pointer is not final"
	h    Handle         // want "element h of type a.Handle is not final"
}

// @immutable
type (
	Reading struct { // want Reading:"immutable"
		temp Celsius
		unit *Celsius // want `Class a.Reading marked immutable but element unit of type \*a.Celsius` `Class a.Forecast marked immutable but element unit`
	}
	Forecast struct { // want Forecast:"immutable"
		high Reading
		Low  Reading // want "element Low of type a.Reading"
	}
)

// @immutable
type Base struct { // want Base:"immutable"
	ID string // want "Class a.Base marked immutable but element ID" "Class a.Derived marked immutable but element ID"
}

type Derived struct {
	Base
	Name string // want "Class a.Derived marked immutable but element Name"
}

// Node refers to itself.
// @immutable
type Node struct { // want Node:"immutable"
	next *Node
	v    int
}

// @immutable
type Left struct { // want Left:"immutable" "Class a.Left has a cyclic supertype chain through a.Left"
	*Right
	n int
}

type Right struct { // want "Class a.Right has a cyclic supertype chain through a.Right"
	*Left
}

// Alias markers are ignored.
// @immutable
type Alias = Account

func local() {
	// @immutable
	type scratch struct {
		N int // want "Class a.scratch marked immutable but element N"
	}
	_ = scratch{}
}
