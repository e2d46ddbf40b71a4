package store

// Config locates the on-disk store.
type Config interface {
	BasePath() string
}

type pathConfig string

func (p pathConfig) BasePath() string { return string(p) }

// Path adapts a bare directory to Config.
func Path(dir string) Config {
	return pathConfig(dir)
}
