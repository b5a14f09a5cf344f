package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/whitted/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file. Each object or group becomes its own
// Mesh; polygon faces keep their arity.
func LoadOBJ(path string) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	meshes, err := ParseOBJ(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return meshes, nil
}

// objVertexKey identifies a unique position/uv/normal triple.
type objVertexKey struct {
	v, vt, vn int
}

type objBuilder struct {
	mesh  *Mesh
	index map[objVertexKey]int
}

// ParseOBJ reads OBJ geometry (v, vt, vn, f, o, g) from r. Material
// statements are ignored.
func ParseOBJ(r io.Reader, name string) ([]*Mesh, error) {
	var (
		positions []math3d.Vec3
		uvs       []math3d.Vec2
		normals   []math3d.Vec3
		meshes    []*Mesh
		cur       *objBuilder
	)

	start := func(meshName string) {
		if cur != nil && len(cur.mesh.Faces) == 0 {
			// an empty group only renames the pending mesh
			cur.mesh.Name = meshName
			return
		}
		cur = &objBuilder{mesh: NewMesh(meshName), index: make(map[objVertexKey]int)}
		meshes = append(meshes, cur.mesh)
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))
		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, math3d.V2(p[0], p[1]))
		case "vn":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, math3d.V3(p[0], p[1], p[2]).Normalize())
		case "o", "g":
			meshName := name
			if len(fields) > 1 {
				meshName = strings.Join(fields[1:], " ")
			}
			start(meshName)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices: %w", lineNo, ErrInvalidFace)
			}
			if cur == nil {
				start(name)
			}
			face := Face{V: make([]int, 0, len(fields)-1)}
			for _, ref := range fields[1:] {
				key, err := parseFaceRef(ref, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				face.V = append(face.V, cur.vertex(key, positions, uvs, normals))
			}
			cur.mesh.Faces = append(cur.mesh.Faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	out := meshes[:0]
	for _, m := range meshes {
		if len(m.Faces) == 0 {
			continue
		}
		m.finish(true)
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no faces")
	}
	return out, nil
}

// vertex returns the mesh-local index for key, adding the vertex on first
// use.
func (b *objBuilder) vertex(key objVertexKey, positions []math3d.Vec3, uvs []math3d.Vec2, normals []math3d.Vec3) int {
	if idx, ok := b.index[key]; ok {
		return idx
	}
	v := MeshVertex{Position: positions[key.v]}
	if key.vt >= 0 {
		v.UV = uvs[key.vt]
	}
	if key.vn >= 0 {
		v.Normal = normals[key.vn]
	}
	idx := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, v)
	b.index[key] = idx
	return idx
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", fields[i], err)
		}
		out[i] = f
	}
	return out, nil
}

// parseFaceRef parses v, v/vt, v//vn or v/vt/vn. OBJ indices are 1-based;
// negative indices count back from the most recent element.
func parseFaceRef(ref string, nv, nvt, nvn int) (objVertexKey, error) {
	key := objVertexKey{v: -1, vt: -1, vn: -1}
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return key, fmt.Errorf("bad face reference %q", ref)
	}

	resolve := func(s string, count int) (int, error) {
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("bad index %q: %w", s, err)
		}
		if i < 0 {
			i = count + i
		} else {
			i--
		}
		if i < 0 || i >= count {
			return 0, fmt.Errorf("index %s out of range (%d defined): %w", s, count, ErrInvalidFace)
		}
		return i, nil
	}

	var err error
	if key.v, err = resolve(parts[0], nv); err != nil {
		return key, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if key.vt, err = resolve(parts[1], nvt); err != nil {
			return key, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if key.vn, err = resolve(parts[2], nvn); err != nil {
			return key, err
		}
	}
	return key, nil
}
