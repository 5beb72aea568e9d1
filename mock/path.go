package mock

import "github.com/fwojciec/techdoc"

var _ techdoc.PathMapper = (*PathMapper)(nil)

// PathMapper is a mock implementation of techdoc.PathMapper.
type PathMapper struct {
	PathToURLFn      func(path string) string
	DetectCategoryFn func(path string) string
}

func (m *PathMapper) PathToURL(path string) string {
	return m.PathToURLFn(path)
}

func (m *PathMapper) DetectCategory(path string) string {
	return m.DetectCategoryFn(path)
}
