package principal

// FilePermissions are the file-level capabilities granted in a directory.
type FilePermissions struct {
	Read   bool `yaml:"read"`
	Write  bool `yaml:"write"`
	Delete bool `yaml:"delete"`
	Append bool `yaml:"append"`
}

// FolderPermissions are the folder-level capabilities granted in a directory.
type FolderPermissions struct {
	Create         bool `yaml:"create"`
	Delete         bool `yaml:"delete"`
	List           bool `yaml:"list"`
	Subdirectories bool `yaml:"subdirectories"`
}

// Directory is a filesystem path with its permission set.
// Used as a home directory it is always mounted at the root.
type Directory struct {
	Path       string            `yaml:"path"`
	Files      FilePermissions   `yaml:"files"`
	Folders    FolderPermissions `yaml:"folders"`
	AutoCreate bool              `yaml:"auto_create"`
}

// VirtualDirectory is a directory exposed under Alias.
type VirtualDirectory struct {
	Directory `yaml:",inline"`
	Alias     string `yaml:"alias"`
}
