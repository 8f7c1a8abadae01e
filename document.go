// Package dxfwin 读取 ASCII DXF 图纸，并转换为识别流水线使用的图纸模型。
package dxfwin

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/entities"
	"github.com/zooyer/dxfwin/errors"
)

type Layer struct {
	Name     string
	Color    int    // 组码 62，负数表示图层关闭
	LineType string // 组码 6
}

type Block struct {
	Name     string
	Base     core.Point // 组码 10/20 基点
	Entities []entities.Entity
}

type Document struct {
	Blocks   map[string]*Block
	Entities []entities.Entity
	Layers   map[string]*Layer
}

// parseBlocks 解析 BLOCKS 段，停在 ENDSEC
func (d *Document) parseBlocks(scanner *core.Scanner) {
	var currentBlock *Block
	if !scanner.Next() {
		return
	}

	for {
		tag := scanner.LastTag
		if tag.IsMarker("ENDSEC") {
			break
		}

		switch {
		case tag.IsMarker("BLOCK"):
			currentBlock = &Block{Entities: []entities.Entity{}}
			// 块头: 名称与基点
			for scanner.Next() && scanner.LastTag.Code != 0 {
				switch t := scanner.LastTag; t.Code {
				case 2:
					currentBlock.Name = strings.ToUpper(t.AsString())
				case 10:
					currentBlock.Base.X = t.AsFloat()
				case 20:
					currentBlock.Base.Y = t.AsFloat()
				}
			}
			if currentBlock.Name != "" {
				d.Blocks[currentBlock.Name] = currentBlock
			}
			continue
		case tag.IsMarker("ENDBLK"):
			currentBlock = nil
		case tag.Code == 0 && currentBlock != nil:
			if ent := entities.CreateEntity(strings.ToUpper(tag.AsString())); ent != nil {
				ent.Parse(scanner)
				currentBlock.Entities = append(currentBlock.Entities, ent)
				continue
			}
		}

		if !scanner.Next() {
			break
		}
	}
}

func (d *Document) parseEntities(scanner *core.Scanner) {
	for {
		tag := scanner.LastTag
		if tag.IsMarker("ENDSEC") {
			break
		}
		if tag.Code == 0 {
			ent := entities.CreateEntity(strings.ToUpper(tag.AsString()))
			if ent != nil {
				ent.Parse(scanner)
				d.Entities = append(d.Entities, ent)
				continue
			}
		}
		if !scanner.Next() {
			break
		}
	}
}

func (d *Document) parseTables(scanner *core.Scanner) {
	for scanner.Next() {
		tag := scanner.LastTag
		if tag.IsMarker("ENDSEC") {
			break
		}
		if tag.IsMarker("TABLE") {
			scanner.Next()
			tableName := strings.ToUpper(scanner.LastTag.AsString())
			if tableName == "LAYER" {
				d.parseLayers(scanner)
			}
		}
	}
}

// parseLayers 解析图层表，停在 ENDTAB
func (d *Document) parseLayers(scanner *core.Scanner) {
	for {
		tag := scanner.LastTag
		if tag.IsMarker("ENDTAB") {
			break
		}

		if tag.IsMarker("LAYER") {
			var layer = &Layer{Color: 7}
			for scanner.Next() {
				t := scanner.LastTag
				if t.Code == 0 {
					break
				}
				switch t.Code {
				case 2: // 图层名称
					layer.Name = t.AsString()
				case 62: // 颜色
					layer.Color = t.AsInt()
				case 6: // 线型
					layer.LineType = t.AsString()
				}
			}

			if layer.Name != "" {
				d.Layers[strings.ToUpper(layer.Name)] = layer
			}

			if scanner.LastTag.Code == 0 {
				continue
			}
		}

		if !scanner.Next() {
			break
		}
	}
}

func Open(filename string) (doc *Document, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.New(err).
			Component("dxf").
			Category(errors.CategoryFileIO).
			Context("file", filename).
			Build()
	}

	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()

	return Load(file)
}

// Load 解析 DXF 文本，标签流损坏时返回解析错误且不返回部分结果
func Load(reader io.Reader) (doc *Document, err error) {
	var (
		scanner  = core.NewScanner(reader)
		document = &Document{
			Blocks:   make(map[string]*Block),
			Entities: make([]entities.Entity, 0, 1024),
			Layers:   make(map[string]*Layer),
		}
		sections int
	)

	for scanner.Next() {
		tag := scanner.LastTag
		if tag.IsMarker("SECTION") {
			if !scanner.Next() {
				break
			}
			sections++
			sectionName := strings.ToUpper(scanner.LastTag.AsString())
			switch sectionName {
			case "TABLES":
				document.parseTables(scanner)
			case "BLOCKS":
				document.parseBlocks(scanner)
			case "ENTITIES":
				document.parseEntities(scanner)
			}
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, errors.New(err).
			Component("dxf").
			Category(errors.CategoryParse).
			Context("line", scanner.Line()).
			Build()
	}

	if sections == 0 {
		return nil, errors.New(fmt.Errorf("no SECTION found after %d lines", scanner.Line())).
			Component("dxf").
			Category(errors.CategoryParse).
			Build()
	}

	return document, nil
}
