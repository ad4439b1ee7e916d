package base

// @immutable
type Entity struct {
	id string
}

// @immutable
type Address struct {
	Street string
}

type Plain struct {
	n int
}
