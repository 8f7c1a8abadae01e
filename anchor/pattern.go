package anchor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zooyer/dxfwin/errors"
)

const (
	DefaultWindowPattern = `C\d{4}`
	DefaultDoorPattern   = `M\d{4}`
)

// Pattern 编号识别规则，创建时编译一次
type Pattern struct {
	source string
	re     *regexp.Regexp
}

func NewPattern(source string) (*Pattern, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.Newf("identification pattern is empty").
			Component("anchor").
			Category(errors.CategoryConfiguration).
			Build()
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return nil, errors.New(fmt.Errorf("invalid identification pattern %q: %w", source, err)).
			Component("anchor").
			Category(errors.CategoryConfiguration).
			Context("pattern", source).
			Build()
	}

	return &Pattern{source: source, re: re}, nil
}

// MustPattern 用于内置规则，非法时 panic
func MustPattern(source string) *Pattern {
	p, err := NewPattern(source)
	if err != nil {
		panic(err)
	}

	return p
}

// Find 返回文字中第一个匹配的编号
func (p *Pattern) Find(text string) (string, bool) {
	if p == nil {
		return "", false
	}

	loc := p.re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	return text[loc[0]:loc[1]], true
}

func (p *Pattern) String() string {
	if p == nil {
		return ""
	}

	return p.source
}

// Standard 预置的编号规则: standard 前缀+4位数字，flexible 前缀+任意位数字，fuzzy 包含前缀
func Standard(name, prefix string) (string, error) {
	prefix = regexp.QuoteMeta(strings.ToUpper(strings.TrimSpace(prefix)))
	if prefix == "" {
		return "", errors.Newf("identification prefix is empty").
			Component("anchor").
			Category(errors.CategoryConfiguration).
			Build()
	}

	switch strings.ToLower(name) {
	case "", "standard":
		return prefix + `\d{4}`, nil
	case "flexible":
		return prefix + `\d+`, nil
	case "fuzzy":
		return `.*` + prefix + `.*`, nil
	default:
		return "", errors.Newf("unknown identification standard %q", name).
			Component("anchor").
			Category(errors.CategoryConfiguration).
			Build()
	}
}
