package component

import "fmt"

// MeshRenderer references the mesh and material an entity is drawn with,
// either by asset ID or by file path.
type MeshRenderer struct {
	MeshID     uint32
	MaterialID uint32

	MeshPath     string
	MaterialPath string

	CastShadows    bool
	ReceiveShadows bool
	Visible        bool
}

func (m *MeshRenderer) SetDefaults() {
	*m = MeshRenderer{CastShadows: true, ReceiveShadows: true, Visible: true}
}

func NewMeshRenderer(mesh, material string) MeshRenderer {
	return MeshRenderer{
		MeshPath:       mesh,
		MaterialPath:   material,
		CastShadows:    true,
		ReceiveShadows: true,
		Visible:        true,
	}
}

func NewMeshRendererIDs(mesh, material uint32) MeshRenderer {
	m := NewMeshRenderer("", "")
	m.MeshID = mesh
	m.MaterialID = material
	return m
}

// IsValid reports whether the renderer points at a mesh at all.
func (m MeshRenderer) IsValid() bool {
	return m.MeshID != 0 || m.MeshPath != ""
}

func (m MeshRenderer) String() string {
	if m.MeshPath != "" {
		return fmt.Sprintf("MeshRenderer(mesh: %s, material: %s)", m.MeshPath, m.MaterialPath)
	}
	return fmt.Sprintf("MeshRenderer(meshID: %d, materialID: %d)", m.MeshID, m.MaterialID)
}
