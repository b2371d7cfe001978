// Package password wraps bcrypt behind the two operations the rest of the
// service needs: a salted one-way hash and a boolean verify.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher produces and checks bcrypt digests at a fixed cost.
type Hasher struct {
	cost  int
	dummy string
}

// NewHasher returns a Hasher. Costs outside bcrypt's supported range fall
// back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("aegis.dummy.compare.target"), cost)
	return &Hasher{cost: cost, dummy: string(dummy)}
}

// Hash returns a self-describing bcrypt digest of plain. The salt is random,
// so hashing the same input twice yields different digests.
func (h *Hasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest. A malformed digest is treated
// as a non-match; Verify never returns an error.
func (h *Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// DummyVerify burns the cost of a real comparison without matching anything.
// Login calls it on the unknown-email path so a failure takes the same time
// whether or not the account exists.
func (h *Hasher) DummyVerify(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(h.dummy), []byte(plain))
}
