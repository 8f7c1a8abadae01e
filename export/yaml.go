package export

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/pipeline"
)

// Document YAML 导出的完整内容，记录点坐标相对 Center
type Document struct {
	Source   string                   `yaml:"source,omitempty"`
	Center   core.Point               `yaml:"center"`
	Bounds   core.BBox                `yaml:"bounds"`
	Entities int                      `yaml:"entities"`
	Groups   []Group                  `yaml:"groups"`
	Records  []pipeline.OpeningRecord `yaml:"records"`
}

func NewDocument(source string, res *pipeline.Result) Document {
	return Document{
		Source:   source,
		Center:   res.Center,
		Bounds:   res.Bounds,
		Entities: res.TotalEntityCount,
		Groups:   GroupRecords(res.Records),
		Records:  res.Records,
	}
}

func EncodeYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}

	return enc.Close()
}

func WriteYAML(filename string, doc Document) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return fileError(err, filename)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fileError(cerr, filename)
		}
	}()

	if err = EncodeYAML(f, doc); err != nil {
		return fileError(err, filename)
	}

	return
}
