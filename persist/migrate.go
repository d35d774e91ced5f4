package persist

// migrate dispatches on the container's version byte, applying any
// necessary plaintext transformation to bring an older wallet file
// forward to the schema this build understands. Grounded on the
// teacher's BoltDatabase.checkMetadata version-gate idiom (reject unknown
// versions outright) generalized into a per-version migration table
// rather than a single expected-version equality check, since this
// format's version number is allowed to advance across releases.
var migrations = map[byte]func([]byte) ([]byte, error){
	CurrentVersion: func(plaintext []byte) ([]byte, error) {
		return plaintext, nil
	},
}

func migrate(version byte, plaintext []byte) ([]byte, error) {
	fn, ok := migrations[version]
	if !ok {
		return nil, ErrUnsupportedVersion
	}
	return fn(plaintext)
}
