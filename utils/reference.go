package utils

import (
	"fmt"
	"math/rand"
	"time"

	hashids "github.com/speps/go-hashids/v2"
)

// Ledger and withdrawal rows carry a short human-readable reference that
// support staff can read back to a seller over chat. Encoded from the
// timestamp plus a random salt so collisions within a millisecond are
// still distinguishable.
func GenerateReference(prefix string) (string, error) {
	hd := hashids.NewData()
	hd.Salt = "unihub-sellers"
	hd.MinLength = 10

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return "", err
	}

	now := time.Now()
	id, err := h.EncodeInt64([]int64{now.UnixMilli(), int64(rand.Intn(9999))})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s", prefix, id), nil
}
