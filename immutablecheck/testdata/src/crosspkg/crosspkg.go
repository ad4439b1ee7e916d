package crosspkg

import "base"

type User struct {
	base.Entity
	Name string // want "Class crosspkg.User marked immutable but element Name"
	id   string
}

// @immutable
type Profile struct { // want Profile:"immutable" "Class crosspkg.Profile marked immutable but element Street"
	home  base.Address
	plain base.Plain // want "element plain of type base.Plain"
}

type Guest struct {
	Nick string
}
