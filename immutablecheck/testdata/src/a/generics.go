package a

// @immutable
type Point struct { // want Point:"immutable"
	x, y int
}

// @immutable
type Shape interface { // want Shape:"immutable"
	Area() float64
}

// @immutable-type-parameters
type Box[T Point] struct { // want Box:"immutable-type-parameters"
	v T
}

// @immutable-type-parameters
type Bag[T any] struct { // want Bag:"immutable-type-parameters" "Class a.Bag but type parameter T does not extend an immutable class"
	items []T
}

// @immutable-type-parameters
type Numbers[T ~int | ~int64] struct { // want Numbers:"immutable-type-parameters" "type parameter T does not extend"
	n T
}

// @immutable @immutable-type-parameters
type Pair[K Shape, V Point] struct { // want Pair:"immutable,immutable-type-parameters"
	k K
	v V
}

// @immutable
type Holder[T any] struct { // want Holder:"immutable"
	v T // want "element v of type T is not final"
}

// @immutable
type Wrap struct { // want Wrap:"immutable"
	p Pair[Shape, Point]
	b Box[Point] // want `element b of type a.Box\[a.Point\]`
}
