// sceneconv converts a plain object list into a scene YAML file.
//
// Each non-empty, non-# line reads:
//
//	name mesh material x y z [spin_deg_per_sec]
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nexusengine/nexus/internal/data"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: sceneconv <objects.txt> <output.yaml> [encoding]")
		os.Exit(1)
	}
	charset := ""
	if len(os.Args) > 3 {
		charset = os.Args[3]
	}

	in, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer in.Close()

	name := strings.TrimSuffix(filepath.Base(os.Args[2]), filepath.Ext(os.Args[2]))
	tbl, err := convert(in, name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	doc, err := yaml.Marshal(tbl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	header := fmt.Sprintf("# Scene %s, generated from %s (%d entities)\n", name, filepath.Base(os.Args[1]), tbl.Count())
	out, err := data.Encode(append([]byte(header), doc...), charset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := os.WriteFile(os.Args[2], out, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d entities to %s\n", tbl.Count(), os.Args[2])
}

func convert(r io.Reader, name string) (*data.SceneTable, error) {
	tbl := &data.SceneTable{Name: name}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		tbl.Entities = append(tbl.Entities, entry)
	}
	return tbl, scanner.Err()
}

func parseLine(line string) (data.EntityEntry, error) {
	f := strings.Fields(line)
	if len(f) != 6 && len(f) != 7 {
		return data.EntityEntry{}, fmt.Errorf("want 6 or 7 fields, got %d", len(f))
	}
	nums := make([]float32, 0, 4)
	for _, s := range f[3:] {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return data.EntityEntry{}, fmt.Errorf("bad number %q", s)
		}
		nums = append(nums, float32(v))
	}

	e := data.EntityEntry{
		Name:      f[0],
		Transform: &data.TransformEntry{Position: data.Vec3{nums[0], nums[1], nums[2]}},
	}
	if f[1] != "-" {
		e.Mesh = &data.MeshEntry{Mesh: f[1]}
		if f[2] != "-" {
			e.Mesh.Material = f[2]
		}
	}
	if len(nums) == 4 && nums[3] != 0 {
		e.Spin = &data.Vec3{0, nums[3], 0}
	}
	return e, nil
}
