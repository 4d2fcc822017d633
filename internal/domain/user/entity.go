package user

// User represents a user record in the searchable directory.
type User struct {
	ID    int64  // ID is the unique identifier for the user
	Name  string // Name is the full name of the user, matched by searches
	Email string // Email is the email address of the user
}

// Dataset is an immutable snapshot of all user records.
type Dataset struct {
	Users   []User // Users in source order
	Version string // Version fingerprints the snapshot content
	Source  string // Source names where the snapshot was loaded from
}
