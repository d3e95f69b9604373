package plans

import "context"

// Source defines how a catalog is loaded at process start.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

type staticSource struct {
	catalog *Catalog
}

// StaticSource serves an already built catalog.
func StaticSource(c *Catalog) Source {
	if c == nil {
		panic("plans: catalog cannot be nil")
	}
	return staticSource{catalog: c}
}

func (s staticSource) Load(context.Context) (*Catalog, error) {
	return s.catalog, nil
}

type fileSource struct {
	path string
}

// FileSource loads a YAML catalog from path on every Load call.
func FileSource(path string) Source {
	return fileSource{path: path}
}

func (s fileSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadYAMLFile(s.path)
}

// SourceFor picks a file source when path is set and the compiled-in catalog otherwise.
func SourceFor(path string) Source {
	if path == "" {
		return StaticSource(Default())
	}
	return FileSource(path)
}
