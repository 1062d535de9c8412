package domain

import "fmt"

type SourceType string

const (
	SourceTypeFile SourceType = "file"
	SourceTypeS3   SourceType = "s3"
)

// DatasetProfile names a dataset location registered in the profiles file.
type DatasetProfile struct {
	Name string
	Path string
	Type SourceType
}

func (p DatasetProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Type, p.Name)
}
