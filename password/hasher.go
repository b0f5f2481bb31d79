package password

// Hasher defines a public type used by goCred APIs.
//
// Hasher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password string, encodedHash string) (bool, error)
}

// Methods defines a public type used by goCred APIs.
//
// Methods is the injectable hash/verify function pair: Hash maps plaintext to an
// encoded hash string, Verify checks plaintext against a stored hash. Both fields
// must be set for the pair to be usable.
type Methods struct {
	Hash   func(password string) (string, error)
	Verify func(password string, encodedHash string) (bool, error)
}

// Usable describes the usable operation and its observable behavior.
//
// Usable reports whether both functions of the pair are present.
// Usable does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m Methods) Usable() bool {
	return m.Hash != nil && m.Verify != nil
}

// FromHasher describes the fromhasher operation and its observable behavior.
//
// FromHasher adapts any [Hasher] into a [Methods] pair.
// FromHasher does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func FromHasher(h Hasher) Methods {
	return Methods{
		Hash:   h.Hash,
		Verify: h.Verify,
	}
}
