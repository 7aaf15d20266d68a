package index

var (
	bMeta    = []byte("meta")     // id -> episode JSON
	bIdxDate = []byte("idx_date") // dateKey -> id
	bState   = []byte("state")    // stateKey -> JSON State
)

var stateKey = []byte("current")
