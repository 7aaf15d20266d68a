package index

import (
	"encoding/binary"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
)

const dateKeyLen = 8 + 4

// dateKey = biasedMillis(8) + seq(4) + id. The sign bit of the millisecond
// value is flipped so negative years sort before positive ones bytewise.
func dateKey(e *content.Episode, seq int) []byte {
	buf := make([]byte, dateKeyLen, dateKeyLen+len(e.ID))
	ms := e.SortDate().UnixMilli()
	binary.BigEndian.PutUint64(buf[0:8], uint64(ms)^(1<<63))
	binary.BigEndian.PutUint32(buf[8:12], uint32(seq))
	return append(buf, e.ID...)
}

func idFromDateKey(k []byte) string {
	if len(k) <= dateKeyLen {
		return ""
	}
	return string(k[dateKeyLen:])
}
