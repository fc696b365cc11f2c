package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roimine/internal/roi/ndgrid"
	"github.com/banshee-data/roimine/internal/roi/space"
)

func fixture(t *testing.T) (*space.Grid, []*space.RoI) {
	t.Helper()
	geom, err := ndgrid.New([]int{4, 3, 2}, []ndgrid.Range{{Min: 0, Max: 3}, {Min: 0, Max: 2}, {Min: 0, Max: 1}})
	require.NoError(t, err)
	g := space.NewGrid(geom)

	// Same (x, y) column at both z levels: the projection keeps the max.
	require.NoError(t, g.Increment("a", geom.Flatten([]int{1, 2, 0})))
	require.NoError(t, g.Increment("a", geom.Flatten([]int{1, 2, 1})))
	require.NoError(t, g.Increment("b", geom.Flatten([]int{1, 2, 1})))
	require.NoError(t, g.Increment("c", geom.Flatten([]int{3, 0, 0})))

	roi := space.NewRoI(0)
	roi.Add(geom.Flatten([]int{1, 2, 1}), 2)
	roi.Add(geom.Flatten([]int{1, 2, 0}), 1)
	return g, []*space.RoI{roi}
}

func TestProject(t *testing.T) {
	g, _ := fixture(t)
	m, err := Project(g)
	require.NoError(t, err)

	c, r := m.Dims()
	assert.Equal(t, 4, c)
	assert.Equal(t, 3, r)
	assert.Equal(t, 2.0, m.Z(1, 2))
	assert.Equal(t, 1.0, m.Z(3, 0))
	assert.Equal(t, 0.0, m.Z(0, 0))
	assert.Equal(t, 2.0, m.Max())
	assert.InDelta(t, 0.5, m.X(0), 1e-12)
	assert.InDelta(t, 2.5, m.Y(2), 1e-12)

	empty := space.NewGrid(g.Geometry())
	_, err = Project(empty)
	assert.True(t, errors.Is(err, ErrNoCells))
}

func TestWriteHTML(t *testing.T) {
	g, rois := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, "L-shape regions", g, rois))

	out := buf.String()
	assert.True(t, strings.Contains(out, "L-shape regions"), "title missing")
	assert.True(t, strings.Contains(out, "roi 0"), "region series missing")
}

func TestWritePNG(t *testing.T) {
	g, rois := fixture(t)
	path := filepath.Join(t.TempDir(), "density.png")
	require.NoError(t, WritePNG(path, "density", g, rois))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestRenderPNG(t *testing.T) {
	g, rois := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, "density", g, rois))
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte("\x89PNG"), buf.Bytes()[:4])

	assert.True(t, errors.Is(RenderPNG(&buf, "empty", space.NewGrid(g.Geometry()), nil), ErrNoCells))
}
