package main

import (
	"strings"
	"testing"

	"github.com/nexusengine/nexus/internal/data"
	"gopkg.in/yaml.v3"
)

func TestConvert(t *testing.T) {
	src := `
# name mesh material x y z spin
Cube cube.obj default.mat 0 0 0 90
Floor plane.obj - 0 -1 0
Marker - - 1 2 3
`
	tbl, err := convert(strings.NewReader(src), "demo")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if tbl.Count() != 3 {
		t.Fatalf("got %d entities", tbl.Count())
	}
	if c := tbl.Entities[0]; c.Mesh.Material != "default.mat" || c.Spin == nil || c.Spin[1] != 90 {
		t.Fatalf("cube = %+v", c)
	}
	if f := tbl.Entities[1]; f.Mesh.Material != "" || f.Spin != nil || f.Transform.Position[1] != -1 {
		t.Fatalf("floor = %+v", f)
	}
	if m := tbl.Entities[2]; m.Mesh != nil {
		t.Fatalf("marker should have no mesh")
	}

	// output must load back as a scene
	doc, err := yaml.Marshal(tbl)
	if err != nil {
		t.Fatal(err)
	}
	back, err := data.ParseScene(doc, "")
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if back.Name != "demo" || back.Count() != 3 {
		t.Fatalf("reparsed %q with %d entities", back.Name, back.Count())
	}
}

func TestConvertRejects(t *testing.T) {
	for _, line := range []string{"Cube cube.obj", "Cube cube.obj m.mat x 0 0"} {
		if _, err := convert(strings.NewReader(line), "x"); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
}
