package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/errors"
	"github.com/zooyer/dxfwin/flatten"
	"github.com/zooyer/dxfwin/loop"
)

func square(x, y, w, h float64, handle string) loop.Loop {
	return loop.Measure([]core.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}, handle)
}

func marker(text string, x, y float64) flatten.TextMarker {
	return flatten.TextMarker{Text: text, Position: core.Point{X: x, Y: y}}
}

func TestNewPatternInvalid(t *testing.T) {
	_, err := NewPattern(`C\d{4`)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfiguration))

	_, err = NewPattern("  ")
	require.Error(t, err)
}

func TestPatternFind(t *testing.T) {
	p := MustPattern(DefaultWindowPattern)

	label, ok := p.Find("C1515 (高窗)")
	assert.True(t, ok)
	assert.Equal(t, "C1515", label)

	_, ok = p.Find("C15")
	assert.False(t, ok)

	var none *Pattern
	_, ok = none.Find("C1515")
	assert.False(t, ok)
}

func TestStandard(t *testing.T) {
	tests := []struct {
		name, prefix, want string
	}{
		{"standard", "C", `C\d{4}`},
		{"flexible", "c", `C\d+`},
		{"fuzzy", "C", `.*C.*`},
		{"", "M", `M\d{4}`},
	}
	for _, tt := range tests {
		got, err := Standard(tt.name, tt.prefix)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := Standard("strict", "C")
	assert.Error(t, err)
}

func TestMatchSmallestContainingLoop(t *testing.T) {
	var (
		outer = square(0, 0, 3000, 3000, "outer")
		inner = square(1000, 1000, 1500, 1500, "inner")
		m     = New([]loop.Loop{outer, inner}, Options{})
	)

	match, ok := m.Match(marker("C1515", 1750, 1750))
	require.True(t, ok)
	assert.Equal(t, "inner", match.Loop.Handle)
	assert.Equal(t, "C1515", match.Label)
	assert.Equal(t, KindWindow, match.Kind)
}

func TestMatchTieKeepsInputOrder(t *testing.T) {
	var (
		a = square(0, 0, 1000, 1000, "a")
		b = square(0, 0, 1000, 1000, "b")
		m = New([]loop.Loop{a, b}, Options{})
	)

	match, ok := m.Match(marker("C1010", 500, 500))
	require.True(t, ok)
	assert.Equal(t, "a", match.Loop.Handle)
}

func TestMatchDedupFirstWins(t *testing.T) {
	m := New([]loop.Loop{square(0, 0, 1500, 1500, "w")}, Options{})

	first, ok := m.Match(marker("C1515", 700, 700))
	require.True(t, ok)
	assert.Equal(t, "C1515", first.Label)

	_, ok = m.Match(marker("C1516", 800, 800))
	assert.False(t, ok)
	assert.Equal(t, 1, m.Duplicates())
}

func TestMatchUnmatchedAndNonLabel(t *testing.T) {
	m := New([]loop.Loop{square(0, 0, 1000, 1000, "w")}, Options{})

	_, ok := m.Match(marker("C1010", 5000, 5000))
	assert.False(t, ok)
	assert.Equal(t, 1, m.Unmatched())

	// 非编号文字不计入未匹配
	_, ok = m.Match(marker("客厅", 500, 500))
	assert.False(t, ok)
	assert.Equal(t, 1, m.Unmatched())
}

func TestMatchDoorPattern(t *testing.T) {
	m := New([]loop.Loop{square(0, 0, 1000, 2100, "d")}, Options{Door: MustPattern(DefaultDoorPattern)})

	match, ok := m.Match(marker("M1021", 500, 1000))
	require.True(t, ok)
	assert.Equal(t, KindDoor, match.Kind)

	_, kind, ok := m.Label("C1021 M1021")
	require.True(t, ok)
	assert.Equal(t, KindWindow, kind)
}

func TestFingerprintGrid(t *testing.T) {
	a := NewFingerprint(core.Point{X: 104, Y: -96}, 1_000_020, 10, 50)
	b := NewFingerprint(core.Point{X: 98, Y: -104}, 999_990, 10, 50)
	assert.Equal(t, a, b)

	c := NewFingerprint(core.Point{X: 120, Y: -96}, 1_000_020, 10, 50)
	assert.NotEqual(t, a, c)
}

func TestUnlabeled(t *testing.T) {
	var (
		labelled = square(0, 0, 1000, 1000, "a")
		frame    = square(-100, -100, 1200, 1200, "frame")
		empty    = square(5000, 0, 1000, 1000, "b")
		m        = New([]loop.Loop{labelled, frame, empty}, Options{TrackUnlabeled: true})
	)

	_, ok := m.Match(marker("C1010", 500, 500))
	require.True(t, ok)

	unlabeled := m.Unlabeled()
	require.Len(t, unlabeled, 1)
	assert.Equal(t, "b", unlabeled[0].Handle)

	assert.Nil(t, New(nil, Options{}).Unlabeled())
}
