package library

// Space is the capacity of the filesystem holding the library.
type Space struct {
	Free  uint64 // bytes available to this user
	Total uint64
}

// FreeSpace reports the capacity of the filesystem holding the library root.
func (l *Library) FreeSpace() (Space, error) {
	return diskSpace(l.root)
}
