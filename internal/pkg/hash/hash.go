package hash

// Hash abstracts one-way hashing of secrets.
//
// Implementations may be salted (bcrypt) or deterministic
// (HMAC-SHA256, SHA256). Deterministic hashers allow lookup by hash value;
// salted hashers do not.
type Hash interface {
	// Hash takes a plaintext string and returns its hashed representation.
	Hash(str string) ([]byte, error)

	// Verify checks if the given plaintext string matches the hashed value.
	Verify(hashed, str string) bool
}
