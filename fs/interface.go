package fs

/*
	Interface for all primitive functions we expect to be able to perform
	on a filesystem.

	All paths accepted are RelPath types; typically the FS instance
	is constructed with an AbsolutePath, and all further operations are
	joined with that base path.

	All errors returned are categorized with an fs.ErrorCategory.
*/
type FS interface {
	// The basePath as an AbsolutePath, for reference.
	BasePath() AbsolutePath

	Mkdir(path RelPath, perms Perms) error
	RemoveAll(path RelPath) error

	LStat(path RelPath) (*Metadata, error)
	Stat(path RelPath) (*Metadata, error)
	ReadDirNames(path RelPath) ([]string, error)
}
